package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gullyscore/cricket-scoring-service/internal/model"
	"github.com/gullyscore/cricket-scoring-service/internal/repository"
)

type playerRepository struct{ pool *pgxpool.Pool }

func NewPlayerRepository(pool *pgxpool.Pool) repository.PlayerRepository {
	return &playerRepository{pool: pool}
}

// Career stats live in a jsonb column: the aggregate is written and read
// as one unit, which matches how the accumulate path produces it.
const playerColumns = `id, name, short_name, photo_url, in_group, stats, created_at, updated_at`

func scanPlayer(row pgx.Row) (model.Player, error) {
	var out model.Player
	var stats []byte
	if err := row.Scan(&out.ID, &out.Name, &out.ShortName, &out.PhotoURL, &out.InGroup, &stats, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return model.Player{}, err
	}
	if len(stats) > 0 {
		if err := json.Unmarshal(stats, &out.Stats); err != nil {
			return model.Player{}, fmt.Errorf("decode player stats: %w", err)
		}
	}
	return out, nil
}

func (r *playerRepository) Create(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	stats, err := json.Marshal(p.Stats)
	if err != nil {
		return model.Player{}, fmt.Errorf("encode player stats: %w", err)
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO players (name, short_name, photo_url, in_group, stats)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+playerColumns,
		p.Name, p.ShortName, p.PhotoURL, p.InGroup, stats,
	)
	out, err := scanPlayer(row)
	if err != nil {
		return model.Player{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *playerRepository) GetByID(ctx context.Context, id int64) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	out, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Player{}, repository.ErrNotFound
		}
		return model.Player{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *playerRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Player], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Player]{}, err
	}
	limit, offset := sanitizeLimitOffset(p.Limit, p.Offset)
	exec := getQ(ctx, r.pool)

	var total int
	if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM players`).Scan(&total); err != nil {
		return repository.PageResult[model.Player]{}, repository.MapPgError(err)
	}

	rows, err := exec.Query(ctx,
		`SELECT `+playerColumns+` FROM players ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return repository.PageResult[model.Player]{}, repository.MapPgError(err)
	}
	defer rows.Close()

	items := make([]model.Player, 0, limit)
	for rows.Next() {
		it, err := scanPlayer(rows)
		if err != nil {
			return repository.PageResult[model.Player]{}, repository.MapPgError(err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Player]{}, repository.MapPgError(err)
	}
	return repository.PageResult[model.Player]{Items: items, Total: total}, nil
}

func (r *playerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	exec := getQ(ctx, r.pool)
	var ok bool
	if err := exec.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM players WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, repository.MapPgError(err)
	}
	return ok, nil
}

func (r *playerRepository) UpdateStats(ctx context.Context, id int64, s model.PlayerStats) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	stats, err := json.Marshal(s)
	if err != nil {
		return model.Player{}, fmt.Errorf("encode player stats: %w", err)
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`UPDATE players SET stats = $2, updated_at = NOW() WHERE id = $1
		 RETURNING `+playerColumns,
		id, stats,
	)
	out, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Player{}, repository.ErrNotFound
		}
		return model.Player{}, repository.MapPgError(err)
	}
	return out, nil
}

var _ repository.PlayerRepository = (*playerRepository)(nil)
