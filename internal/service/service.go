// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
// The cricket rules themselves live in the engine package; services consult its advisory
// checks before applying a transition and never reimplement them.
package service

import (
	"context"
	"errors"

	"github.com/gullyscore/cricket-scoring-service/internal/engine"
	"github.com/gullyscore/cricket-scoring-service/internal/model"
	"github.com/gullyscore/cricket-scoring-service/internal/repository"
	"github.com/gullyscore/cricket-scoring-service/internal/stats"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error if any field errors are present.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	if v, ok := err.(feIface); ok && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// PlayerService defines roster-oriented use cases.
type PlayerService interface {
	CreatePlayer(ctx context.Context, name, shortName, photoURL string, inGroup bool) (model.Player, error)
	GetPlayer(ctx context.Context, id int64) (model.Player, error)
	ListPlayers(ctx context.Context, page repository.Page) (repository.PageResult[model.Player], error)
	// CareerStats returns the stored career totals with derived rates.
	CareerStats(ctx context.Context, id int64) (model.PlayerStats, stats.Rates, error)
}

// NewMatchParams describes a match setup request.
type NewMatchParams struct {
	TeamAName    string
	TeamBName    string
	TeamARoster  []int64
	TeamBRoster  []int64
	TotalOvers   int
	TossWinner   string
	TossDecision string // bat, bowl
}

// BallInput is a user-supplied delivery: the scoring facts only; the
// engine stamps position and the service fills player references from
// the match's current selections.
type BallInput struct {
	Runs       int              `json:"runs"`
	Wide       bool             `json:"wide"`
	NoBall     bool             `json:"no_ball"`
	Bye        bool             `json:"bye"`
	LegBye     bool             `json:"leg_bye"`
	Wicket     bool             `json:"wicket"`
	WicketKind model.WicketKind `json:"wicket_kind,omitempty"`
	FielderID  int64            `json:"fielder_id,omitempty"`
}

// BallResult is the outcome of one recorded delivery: the advanced match
// and the boundary flags the caller must act on.
type BallResult struct {
	Match  model.Match   `json:"match"`
	Events engine.Events `json:"events"`
}

// MatchService defines the scoring use cases. RecordDelivery is the
// single write path for live scoring.
type MatchService interface {
	CreateMatch(ctx context.Context, p NewMatchParams) (model.Match, error)
	GetMatch(ctx context.Context, id int64) (model.Match, error)
	ListMatches(ctx context.Context, page repository.Page) (repository.PageResult[model.Match], error)
	RecordDelivery(ctx context.Context, matchID int64, in BallInput) (BallResult, error)
	UndoDelivery(ctx context.Context, matchID int64) (model.Match, error)
	ContinueToSecondInnings(ctx context.Context, matchID int64) (model.Match, error)
	SetOpeners(ctx context.Context, matchID, strikerID, nonStrikerID int64) (model.Match, error)
	SetBowler(ctx context.Context, matchID, bowlerID int64) (model.Match, error)
	SetNewBatsman(ctx context.Context, matchID, batsmanID int64) (model.Match, error)
	AvailableBowlers(ctx context.Context, matchID int64) ([]model.Player, error)
	Summary(ctx context.Context, matchID int64) (MatchSummary, error)
}

// Broadcaster pushes match snapshots to live subscribers. The scoring
// path treats it as fire-and-forget.
type Broadcaster interface {
	BroadcastMatch(m model.Match, ev engine.Events)
}

// Instrumentation receives scoring counters. Implementations must be
// non-blocking.
type Instrumentation interface {
	DeliveryRecorded(wicket bool)
	DeliveryUndone()
	MatchCompleted()
}
