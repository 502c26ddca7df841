package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gullyscore/cricket-scoring-service/internal/engine"
	"github.com/gullyscore/cricket-scoring-service/internal/model"
	"github.com/gullyscore/cricket-scoring-service/internal/performance"
	"github.com/gullyscore/cricket-scoring-service/internal/repository"
	"github.com/gullyscore/cricket-scoring-service/internal/stats"
)

type matchService struct {
	matches repository.MatchRepository
	players repository.PlayerRepository
	tx      repository.TxManager
	feed    Broadcaster
	metrics Instrumentation
	log     zerolog.Logger
}

func NewMatchService(matches repository.MatchRepository, players repository.PlayerRepository, tx repository.TxManager, feed Broadcaster, metrics Instrumentation, logger zerolog.Logger) MatchService {
	l := logger.With().Str("module", "service").Str("component", "match").Logger()
	return &matchService{matches: matches, players: players, tx: tx, feed: feed, metrics: metrics, log: l}
}

func (s *matchService) CreateMatch(ctx context.Context, p NewMatchParams) (model.Match, error) {
	p.TeamAName = strings.TrimSpace(p.TeamAName)
	p.TeamBName = strings.TrimSpace(p.TeamBName)
	p.TossDecision = strings.ToLower(strings.TrimSpace(p.TossDecision))

	var ferrs []FieldError
	if p.TeamAName == "" {
		ferrs = append(ferrs, FieldError{Field: "team_a_name", Message: "must not be empty"})
	}
	if p.TeamBName == "" {
		ferrs = append(ferrs, FieldError{Field: "team_b_name", Message: "must not be empty"})
	}
	if p.TeamAName != "" && p.TeamAName == p.TeamBName {
		ferrs = append(ferrs, FieldError{Field: "team_b_name", Message: "team names must differ"})
	}
	if len(p.TeamARoster) < 2 {
		ferrs = append(ferrs, FieldError{Field: "team_a_roster", Message: "needs at least 2 players"})
	}
	if len(p.TeamBRoster) < 2 {
		ferrs = append(ferrs, FieldError{Field: "team_b_roster", Message: "needs at least 2 players"})
	}
	if p.TotalOvers <= 0 {
		ferrs = append(ferrs, FieldError{Field: "total_overs", Message: "must be > 0"})
	}
	if p.TossWinner != p.TeamAName && p.TossWinner != p.TeamBName {
		ferrs = append(ferrs, FieldError{Field: "toss_winner", Message: "must be one of the two team names"})
	}
	if p.TossDecision != "bat" && p.TossDecision != "bowl" {
		ferrs = append(ferrs, FieldError{Field: "toss_decision", Message: "must be bat or bowl"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return model.Match{}, err
	}

	rosterA, err := s.loadRoster(ctx, p.TeamARoster, "team_a_roster", &ferrs)
	if err != nil {
		return model.Match{}, err
	}
	rosterB, err := s.loadRoster(ctx, p.TeamBRoster, "team_b_roster", &ferrs)
	if err != nil {
		return model.Match{}, err
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return model.Match{}, err
	}

	// Toss winner chooses; the batting slot index follows from that.
	battingIdx := 0
	if (p.TossWinner == p.TeamAName) != (p.TossDecision == "bat") {
		battingIdx = 1
	}

	m := model.Match{
		Teams: [2]model.TeamInnings{
			{Name: p.TeamAName, Roster: rosterA},
			{Name: p.TeamBName, Roster: rosterB},
		},
		BattingIdx:   battingIdx,
		TotalOvers:   p.TotalOvers,
		TossWinner:   p.TossWinner,
		TossDecision: p.TossDecision,
		Phase:        model.PhaseFirstInnings,
		StartedAt:    time.Now().UTC(),
	}
	out, err := s.matches.Create(ctx, m)
	if err != nil {
		s.log.Error().Err(err).Msg("create match failed")
		return model.Match{}, err
	}
	s.log.Info().Int64("match_id", out.ID).Str("team_a", p.TeamAName).Str("team_b", p.TeamBName).Int("overs", p.TotalOvers).Msg("match created")
	return out, nil
}

func (s *matchService) loadRoster(ctx context.Context, ids []int64, field string, ferrs *[]FieldError) ([]model.Player, error) {
	seen := map[int64]bool{}
	out := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			*ferrs = append(*ferrs, FieldError{Field: field, Message: fmt.Sprintf("duplicate player %d", id)})
			continue
		}
		seen[id] = true
		p, err := s.players.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				*ferrs = append(*ferrs, FieldError{Field: field, Message: fmt.Sprintf("player %d does not exist", id)})
				continue
			}
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *matchService) GetMatch(ctx context.Context, id int64) (model.Match, error) {
	if id <= 0 {
		return model.Match{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.matches.GetByID(ctx, id)
}

func (s *matchService) ListMatches(ctx context.Context, page repository.Page) (repository.PageResult[model.Match], error) {
	return s.matches.List(ctx, normalizePage(page))
}

// RecordDelivery is the single live-scoring write path: it validates the
// required selections, builds the delivery, lets the engine advance the
// match, persists best-effort and broadcasts. Persistence failures are
// logged and never veto the scoring action; the in-memory match stays
// authoritative.
func (s *matchService) RecordDelivery(ctx context.Context, matchID int64, in BallInput) (BallResult, error) {
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return BallResult{}, err
	}

	var ferrs []FieldError
	if m.Phase != model.PhaseFirstInnings && m.Phase != model.PhaseSecondInnings {
		ferrs = append(ferrs, FieldError{Field: "match", Message: "no innings in progress"})
	}
	if m.StrikerID == 0 || m.NonStrikerID == 0 {
		ferrs = append(ferrs, FieldError{Field: "batsmen", Message: "striker and non-striker must be selected"})
	}
	if m.BowlerID == 0 {
		ferrs = append(ferrs, FieldError{Field: "bowler", Message: "a bowler must be selected"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return BallResult{}, err
	}

	d := model.Delivery{
		Runs:         in.Runs,
		StrikerID:    m.StrikerID,
		NonStrikerID: m.NonStrikerID,
		BowlerID:     m.BowlerID,
		Wide:         in.Wide,
		NoBall:       in.NoBall,
		Bye:          in.Bye,
		LegBye:       in.LegBye,
		Wicket:       in.Wicket,
		WicketKind:   in.WicketKind,
		FielderID:    in.FielderID,
	}
	d.Over = m.Batting().Overs + 1
	d.BallInOver = m.Batting().Balls + 1
	d.Commentary = model.Describe(d, s.playerName(m, d.StrikerID), s.playerName(m, d.BowlerID))
	d, err = model.NewDelivery(d)
	if err != nil {
		return BallResult{}, NewInvalidInputError([]FieldError{{Field: "delivery", Message: err.Error()}})
	}

	updated, ev := engine.ProcessBall(m, d)
	s.persistScoring(ctx, updated, updated.Balls[len(updated.Balls)-1])

	if ev.MatchComplete {
		s.commitCareerStats(ctx, updated)
		if s.metrics != nil {
			s.metrics.MatchCompleted()
		}
		s.log.Info().Int64("match_id", updated.ID).Str("winner", updated.Winner).Int64("man_of_the_match", updated.ManOfTheMatchID).Msg("match completed")
	}
	if s.metrics != nil {
		s.metrics.DeliveryRecorded(ev.WicketFell)
	}
	if s.feed != nil {
		s.feed.BroadcastMatch(updated, ev)
	}
	return BallResult{Match: updated, Events: ev}, nil
}

// persistScoring saves the match state and appends the delivery in one
// transaction. Failure is logged, never surfaced: the collaborator layer
// retries and the scorer keeps scoring.
func (s *matchService) persistScoring(ctx context.Context, m model.Match, d model.Delivery) {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.matches.SaveState(ctx, m); err != nil {
			return err
		}
		return s.matches.AppendDelivery(ctx, d)
	})
	if err != nil {
		s.log.Error().Err(err).Int64("match_id", m.ID).Str("delivery_id", d.ID).Msg("persist delivery failed; in-memory state remains authoritative")
	}
}

// commitCareerStats folds the completed match into every rostered
// player's career totals. Accumulation, never replacement.
func (s *matchService) commitCareerStats(ctx context.Context, m model.Match) {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		seen := map[int64]bool{}
		for _, team := range m.Teams {
			for _, rostered := range team.Roster {
				if seen[rostered.ID] {
					continue
				}
				seen[rostered.ID] = true
				p, err := s.players.GetByID(ctx, rostered.ID)
				if err != nil {
					return err
				}
				delta := stats.MatchDelta(p.ID, m)
				if _, err := s.players.UpdateStats(ctx, p.ID, stats.Accumulate(p.Stats, delta)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Int64("match_id", m.ID).Msg("career stats commit failed")
	}
}

func (s *matchService) UndoDelivery(ctx context.Context, matchID int64) (model.Match, error) {
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return model.Match{}, err
	}
	removed := ""
	if len(m.Balls) > 0 {
		removed = m.Balls[len(m.Balls)-1].ID
	}
	updated, err := engine.UndoLastBall(m)
	if err != nil {
		if errors.Is(err, engine.ErrNothingToUndo) {
			return model.Match{}, NewInvalidInputError([]FieldError{{Field: "match", Message: err.Error()}})
		}
		return model.Match{}, err
	}

	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.matches.SaveState(ctx, updated); err != nil {
			return err
		}
		return s.matches.DeleteDelivery(ctx, matchID, removed)
	}); err != nil {
		s.log.Error().Err(err).Int64("match_id", matchID).Msg("persist undo failed; in-memory state remains authoritative")
	}

	if s.metrics != nil {
		s.metrics.DeliveryUndone()
	}
	if s.feed != nil {
		s.feed.BroadcastMatch(updated, engine.Events{})
	}
	return updated, nil
}

func (s *matchService) ContinueToSecondInnings(ctx context.Context, matchID int64) (model.Match, error) {
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return model.Match{}, err
	}
	updated, ok := engine.StartSecondInnings(m)
	if !ok {
		return model.Match{}, NewInvalidInputError([]FieldError{{Field: "match", Message: "not at the innings break"}})
	}
	if err := s.matches.SaveState(ctx, updated); err != nil {
		s.log.Error().Err(err).Int64("match_id", matchID).Msg("persist innings transition failed")
	}
	if s.feed != nil {
		s.feed.BroadcastMatch(updated, engine.Events{})
	}
	s.log.Info().Int64("match_id", matchID).Int("target", updated.FirstInningsScore+1).Msg("second innings started")
	return updated, nil
}

func (s *matchService) SetOpeners(ctx context.Context, matchID, strikerID, nonStrikerID int64) (model.Match, error) {
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return model.Match{}, err
	}
	var ferrs []FieldError
	if m.Phase != model.PhaseFirstInnings && m.Phase != model.PhaseSecondInnings {
		ferrs = append(ferrs, FieldError{Field: "match", Message: "no innings in progress"})
	}
	if m.StrikerID != 0 || m.NonStrikerID != 0 {
		ferrs = append(ferrs, FieldError{Field: "match", Message: "openers already selected"})
	}
	if strikerID == nonStrikerID {
		ferrs = append(ferrs, FieldError{Field: "non_striker_id", Message: "openers must differ"})
	}
	if !m.Batting().HasPlayer(strikerID) {
		ferrs = append(ferrs, FieldError{Field: "striker_id", Message: "not on the batting side"})
	}
	if !m.Batting().HasPlayer(nonStrikerID) {
		ferrs = append(ferrs, FieldError{Field: "non_striker_id", Message: "not on the batting side"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return model.Match{}, err
	}
	m.StrikerID = strikerID
	m.NonStrikerID = nonStrikerID
	if err := s.matches.SaveState(ctx, m); err != nil {
		s.log.Error().Err(err).Int64("match_id", matchID).Msg("persist openers failed")
	}
	return m, nil
}

func (s *matchService) SetBowler(ctx context.Context, matchID, bowlerID int64) (model.Match, error) {
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return model.Match{}, err
	}
	var ferrs []FieldError
	if m.Phase != model.PhaseFirstInnings && m.Phase != model.PhaseSecondInnings {
		ferrs = append(ferrs, FieldError{Field: "match", Message: "no innings in progress"})
	}
	if !m.Bowling().HasPlayer(bowlerID) {
		ferrs = append(ferrs, FieldError{Field: "bowler_id", Message: "not on the fielding side"})
	}
	if bowlerID == m.StrikerID || bowlerID == m.NonStrikerID {
		ferrs = append(ferrs, FieldError{Field: "bowler_id", Message: "a current batsman cannot bowl"})
	}
	if !engine.CanBowlerBowlNextOver(m, bowlerID) {
		ferrs = append(ferrs, FieldError{Field: "bowler_id", Message: "cannot bowl consecutive overs"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return model.Match{}, err
	}
	m.BowlerID = bowlerID
	if err := s.matches.SaveState(ctx, m); err != nil {
		s.log.Error().Err(err).Int64("match_id", matchID).Msg("persist bowler selection failed")
	}
	return m, nil
}

func (s *matchService) SetNewBatsman(ctx context.Context, matchID, batsmanID int64) (model.Match, error) {
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return model.Match{}, err
	}
	var ferrs []FieldError
	if m.Phase != model.PhaseFirstInnings && m.Phase != model.PhaseSecondInnings {
		ferrs = append(ferrs, FieldError{Field: "match", Message: "no innings in progress"})
	}
	if m.StrikerID != 0 && m.NonStrikerID != 0 {
		ferrs = append(ferrs, FieldError{Field: "match", Message: "no batsman slot is open"})
	}
	if !m.Batting().HasPlayer(batsmanID) {
		ferrs = append(ferrs, FieldError{Field: "batsman_id", Message: "not on the batting side"})
	}
	if batsmanID == m.StrikerID || batsmanID == m.NonStrikerID {
		ferrs = append(ferrs, FieldError{Field: "batsman_id", Message: "already at the crease"})
	}
	if s.alreadyDismissed(m, batsmanID) {
		ferrs = append(ferrs, FieldError{Field: "batsman_id", Message: "already dismissed this innings"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return model.Match{}, err
	}
	// The replacement takes the open end; after a wicket that is the
	// striker's end, the non-striker keeps theirs.
	if m.StrikerID == 0 {
		m.StrikerID = batsmanID
	} else {
		m.NonStrikerID = batsmanID
	}
	if err := s.matches.SaveState(ctx, m); err != nil {
		s.log.Error().Err(err).Int64("match_id", matchID).Msg("persist batsman selection failed")
	}
	return m, nil
}

func (s *matchService) alreadyDismissed(m model.Match, playerID int64) bool {
	innings := m.InningsNumber()
	for _, d := range m.Balls {
		if d.Innings == innings && d.Wicket && d.StrikerID == playerID {
			return true
		}
	}
	return false
}

func (s *matchService) AvailableBowlers(ctx context.Context, matchID int64) ([]model.Player, error) {
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return engine.AvailableBowlers(m), nil
}

// PlayerMatchFigures pairs a player with their single-match stat delta
// and performance breakdown.
type PlayerMatchFigures struct {
	Player  model.Player      `json:"player"`
	Figures model.PlayerStats `json:"figures"`
	Score   performance.Score `json:"score"`
}

// MatchSummary is the post-match report: result, extras, ranked players
// and the man of the match.
type MatchSummary struct {
	Match         model.Match          `json:"match"`
	Result        string               `json:"result"`
	ManOfTheMatch *model.Player        `json:"man_of_the_match,omitempty"`
	Players       []PlayerMatchFigures `json:"players"`
}

func (s *matchService) Summary(ctx context.Context, matchID int64) (MatchSummary, error) {
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return MatchSummary{}, err
	}
	out := MatchSummary{Match: m, Result: m.Winner}

	seen := map[int64]bool{}
	for _, team := range m.Teams {
		for _, p := range team.Roster {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			fig := PlayerMatchFigures{
				Player:  p,
				Figures: stats.MatchDelta(p.ID, m),
				Score:   performance.PlayerScore(m, p.ID),
			}
			out.Players = append(out.Players, fig)
			if m.ManOfTheMatchID == p.ID {
				motm := p
				out.ManOfTheMatch = &motm
			}
		}
	}
	sort.SliceStable(out.Players, func(i, j int) bool {
		a, b := out.Players[i].Score, out.Players[j].Score
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.PlayerID < b.PlayerID
	})
	return out, nil
}

func (s *matchService) playerName(m model.Match, id int64) string {
	for _, team := range m.Teams {
		for _, p := range team.Roster {
			if p.ID == id {
				if p.ShortName != "" {
					return p.ShortName
				}
				return p.Name
			}
		}
	}
	return fmt.Sprintf("player %d", id)
}
