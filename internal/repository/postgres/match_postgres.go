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

type matchRepository struct{ pool *pgxpool.Pool }

func NewMatchRepository(pool *pgxpool.Pool) repository.MatchRepository {
	return &matchRepository{pool: pool}
}

// The two team-innings slots are stored as one jsonb document; they are
// always read and written together. Deliveries live in their own table
// so the log stays append-only at the storage level too.
const matchColumns = `id, teams, batting_idx, total_overs, toss_winner, toss_decision, phase,
	first_innings_score, striker_id, non_striker_id, bowler_id, prev_bowler_id,
	winner, man_of_the_match_id, started_at, ended_at, created_at, updated_at`

func scanMatch(row pgx.Row) (model.Match, error) {
	var out model.Match
	var teams []byte
	var phase string
	if err := row.Scan(&out.ID, &teams, &out.BattingIdx, &out.TotalOvers, &out.TossWinner, &out.TossDecision, &phase,
		&out.FirstInningsScore, &out.StrikerID, &out.NonStrikerID, &out.BowlerID, &out.PrevBowlerID,
		&out.Winner, &out.ManOfTheMatchID, &out.StartedAt, &out.EndedAt, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return model.Match{}, err
	}
	out.Phase = model.Phase(phase)
	if err := json.Unmarshal(teams, &out.Teams); err != nil {
		return model.Match{}, fmt.Errorf("decode match teams: %w", err)
	}
	return out, nil
}

func (r *matchRepository) Create(ctx context.Context, m model.Match) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	teams, err := json.Marshal(m.Teams)
	if err != nil {
		return model.Match{}, fmt.Errorf("encode match teams: %w", err)
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO matches (teams, batting_idx, total_overs, toss_winner, toss_decision, phase,
			first_innings_score, striker_id, non_striker_id, bowler_id, prev_bowler_id,
			winner, man_of_the_match_id, started_at, ended_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		 RETURNING `+matchColumns,
		teams, m.BattingIdx, m.TotalOvers, m.TossWinner, m.TossDecision, string(m.Phase),
		m.FirstInningsScore, m.StrikerID, m.NonStrikerID, m.BowlerID, m.PrevBowlerID,
		m.Winner, m.ManOfTheMatchID, m.StartedAt, m.EndedAt,
	)
	out, err := scanMatch(row)
	if err != nil {
		return model.Match{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *matchRepository) GetByID(ctx context.Context, id int64) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	out, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, repository.ErrNotFound
		}
		return model.Match{}, repository.MapPgError(err)
	}
	out.Balls, err = r.listDeliveries(ctx, id)
	if err != nil {
		return model.Match{}, err
	}
	return out, nil
}

func (r *matchRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Match], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Match]{}, err
	}
	limit, offset := sanitizeLimitOffset(p.Limit, p.Offset)
	exec := getQ(ctx, r.pool)

	var total int
	if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM matches`).Scan(&total); err != nil {
		return repository.PageResult[model.Match]{}, repository.MapPgError(err)
	}

	rows, err := exec.Query(ctx,
		`SELECT `+matchColumns+` FROM matches ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return repository.PageResult[model.Match]{}, repository.MapPgError(err)
	}
	defer rows.Close()

	// Listings skip the ball logs; GetByID restores the full match.
	items := make([]model.Match, 0, limit)
	for rows.Next() {
		it, err := scanMatch(rows)
		if err != nil {
			return repository.PageResult[model.Match]{}, repository.MapPgError(err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Match]{}, repository.MapPgError(err)
	}
	return repository.PageResult[model.Match]{Items: items, Total: total}, nil
}

func (r *matchRepository) SaveState(ctx context.Context, m model.Match) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	teams, err := json.Marshal(m.Teams)
	if err != nil {
		return fmt.Errorf("encode match teams: %w", err)
	}
	exec := getQ(ctx, r.pool)
	tag, err := exec.Exec(ctx,
		`UPDATE matches SET teams = $2, batting_idx = $3, phase = $4, first_innings_score = $5,
			striker_id = $6, non_striker_id = $7, bowler_id = $8, prev_bowler_id = $9,
			winner = $10, man_of_the_match_id = $11, ended_at = $12, updated_at = NOW()
		 WHERE id = $1`,
		m.ID, teams, m.BattingIdx, string(m.Phase), m.FirstInningsScore,
		m.StrikerID, m.NonStrikerID, m.BowlerID, m.PrevBowlerID,
		m.Winner, m.ManOfTheMatchID, m.EndedAt,
	)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *matchRepository) AppendDelivery(ctx context.Context, d model.Delivery) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	exec := getQ(ctx, r.pool)
	_, err := exec.Exec(ctx,
		`INSERT INTO deliveries (id, match_id, innings, over_num, ball_in_over, runs,
			striker_id, non_striker_id, bowler_id,
			wide, no_ball, bye, leg_bye, wicket, wicket_kind, fielder_id, commentary, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		d.ID, d.MatchID, d.Innings, d.Over, d.BallInOver, d.Runs,
		d.StrikerID, d.NonStrikerID, d.BowlerID,
		d.Wide, d.NoBall, d.Bye, d.LegBye, d.Wicket, string(d.WicketKind), d.FielderID, d.Commentary, d.CreatedAt,
	)
	return repository.MapPgError(err)
}

func (r *matchRepository) DeleteDelivery(ctx context.Context, matchID int64, deliveryID string) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	exec := getQ(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM deliveries WHERE match_id = $1 AND id = $2`, matchID, deliveryID)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *matchRepository) listDeliveries(ctx context.Context, matchID int64) ([]model.Delivery, error) {
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT id, match_id, innings, over_num, ball_in_over, runs,
			striker_id, non_striker_id, bowler_id,
			wide, no_ball, bye, leg_bye, wicket, wicket_kind, fielder_id, commentary, created_at
		 FROM deliveries WHERE match_id = $1 ORDER BY seq`, matchID)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	var out []model.Delivery
	for rows.Next() {
		var d model.Delivery
		var kind string
		if err := rows.Scan(&d.ID, &d.MatchID, &d.Innings, &d.Over, &d.BallInOver, &d.Runs,
			&d.StrikerID, &d.NonStrikerID, &d.BowlerID,
			&d.Wide, &d.NoBall, &d.Bye, &d.LegBye, &d.Wicket, &kind, &d.FielderID, &d.Commentary, &d.CreatedAt); err != nil {
			return nil, repository.MapPgError(err)
		}
		d.WicketKind = model.WicketKind(kind)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

var _ repository.MatchRepository = (*matchRepository)(nil)
