package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gullyscore/cricket-scoring-service/internal/model"
	"github.com/gullyscore/cricket-scoring-service/internal/repository"
	"github.com/gullyscore/cricket-scoring-service/internal/stats"
)

type playerService struct {
	players repository.PlayerRepository
	log     zerolog.Logger
}

func NewPlayerService(players repository.PlayerRepository, logger zerolog.Logger) PlayerService {
	l := logger.With().Str("module", "service").Str("component", "player").Logger()
	return &playerService{players: players, log: l}
}

func (s *playerService) CreatePlayer(ctx context.Context, name, shortName, photoURL string, inGroup bool) (model.Player, error) {
	start := time.Now()

	// Normalize early so validation and persistence see canonical values.
	name = strings.TrimSpace(name)
	shortName = strings.TrimSpace(shortName)

	var ferrs []FieldError
	if name == "" {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "must not be empty"})
	} else if ln := len([]rune(name)); ln > 80 {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "length must be <= 80"})
	}
	if ln := len([]rune(shortName)); ln > 10 {
		ferrs = append(ferrs, FieldError{Field: "short_name", Message: "length must be <= 10"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("player validation failed")
		return model.Player{}, err
	}

	out, err := s.players.Create(ctx, model.Player{Name: name, ShortName: shortName, PhotoURL: photoURL, InGroup: inGroup})
	if err != nil {
		s.log.Error().Err(err).Str("name", name).Msg("create player failed")
		return model.Player{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("player_id", out.ID).Msg("player created")
	return out, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id int64) (model.Player, error) {
	if id <= 0 {
		return model.Player{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.players.GetByID(ctx, id)
}

func (s *playerService) ListPlayers(ctx context.Context, page repository.Page) (repository.PageResult[model.Player], error) {
	return s.players.List(ctx, normalizePage(page))
}

func (s *playerService) CareerStats(ctx context.Context, id int64) (model.PlayerStats, stats.Rates, error) {
	if id <= 0 {
		return model.PlayerStats{}, stats.Rates{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	p, err := s.players.GetByID(ctx, id)
	if err != nil {
		return model.PlayerStats{}, stats.Rates{}, err
	}
	return p.Stats, stats.DeriveRates(p.Stats), nil
}

func normalizePage(p repository.Page) repository.Page {
	limit := p.Limit
	offset := p.Offset
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return repository.Page{Limit: limit, Offset: offset}
}
