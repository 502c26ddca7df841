package repository

import (
	"context"

	"github.com/gullyscore/cricket-scoring-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// I prefer a single entry point to keep transaction boundaries explicit and testable.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// PlayerRepository declares persistence operations for the shared player
// roster. Career stats updates go through UpdateStats so the accumulate
// path stays explicit.
type PlayerRepository interface {
	Create(ctx context.Context, p model.Player) (model.Player, error)
	GetByID(ctx context.Context, id int64) (model.Player, error)
	List(ctx context.Context, p Page) (PageResult[model.Player], error)
	Exists(ctx context.Context, id int64) (bool, error)
	// UpdateStats replaces the stored career stats snapshot for a player.
	UpdateStats(ctx context.Context, id int64, s model.PlayerStats) (model.Player, error)
}

// MatchRepository declares persistence operations for matches and their
// ball logs. The scoring path is save-state plus append-delivery inside
// one transaction; undo deletes the last delivery the same way.
type MatchRepository interface {
	Create(ctx context.Context, m model.Match) (model.Match, error)
	// GetByID restores the full match including its ball log in append order.
	GetByID(ctx context.Context, id int64) (model.Match, error)
	List(ctx context.Context, p Page) (PageResult[model.Match], error)
	// SaveState persists the mutable match columns (scores, selections,
	// phase); the ball log is maintained by the delivery operations.
	SaveState(ctx context.Context, m model.Match) error
	AppendDelivery(ctx context.Context, d model.Delivery) error
	DeleteDelivery(ctx context.Context, matchID int64, deliveryID string) error
}
