package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gullyscore/cricket-scoring-service/internal/model"
	"github.com/gullyscore/cricket-scoring-service/internal/repository"
	"github.com/gullyscore/cricket-scoring-service/internal/service"
)

func TestCreatePlayer(t *testing.T) {
	repo := newFakePlayerRepo()
	svc := service.NewPlayerService(repo, zerolog.Nop())

	p, err := svc.CreatePlayer(context.Background(), "  Arjun Rao  ", " AR ", "", true)
	require.NoError(t, err)
	require.Equal(t, "Arjun Rao", p.Name, "name is trimmed before storage")
	require.Equal(t, "AR", p.ShortName)
	require.True(t, p.InGroup)
}

func TestCreatePlayer_Validation(t *testing.T) {
	svc := service.NewPlayerService(newFakePlayerRepo(), zerolog.Nop())
	ctx := context.Background()

	_, err := svc.CreatePlayer(ctx, "   ", "", "", false)
	require.ErrorIs(t, err, service.ErrInvalidInput)
	require.Equal(t, "name", service.FieldErrors(err)[0].Field)

	_, err = svc.CreatePlayer(ctx, strings.Repeat("x", 81), "", "", false)
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.CreatePlayer(ctx, "ok", strings.Repeat("x", 11), "", false)
	require.ErrorIs(t, err, service.ErrInvalidInput)
	require.Equal(t, "short_name", service.FieldErrors(err)[0].Field)
}

func TestGetPlayer(t *testing.T) {
	repo := newFakePlayerRepo(5)
	svc := service.NewPlayerService(repo, zerolog.Nop())
	ctx := context.Background()

	p, err := svc.GetPlayer(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, int64(5), p.ID)

	_, err = svc.GetPlayer(ctx, 0)
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.GetPlayer(ctx, 404)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCareerStats(t *testing.T) {
	repo := newFakePlayerRepo(5)
	p := repo.players[5]
	p.Stats = model.PlayerStats{Runs: 50, BallsFaced: 40, TimesOut: 2}
	repo.players[5] = p

	svc := service.NewPlayerService(repo, zerolog.Nop())
	s, rates, err := svc.CareerStats(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, 50, s.Runs)
	require.InDelta(t, 25.0, rates.BattingAverage, 0.001)
	require.InDelta(t, 125.0, rates.StrikeRate, 0.001)
}
