package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gullyscore/cricket-scoring-service/internal/model"
)

func TestBowlingBestBetterThan(t *testing.T) {
	require.True(t, model.BowlingBest{Wickets: 3, Runs: 40}.BetterThan(model.BowlingBest{Wickets: 2, Runs: 10}))
	require.True(t, model.BowlingBest{Wickets: 3, Runs: 20}.BetterThan(model.BowlingBest{Wickets: 3, Runs: 40}))
	require.False(t, model.BowlingBest{Wickets: 3, Runs: 40}.BetterThan(model.BowlingBest{Wickets: 3, Runs: 20}))
	require.False(t, model.BowlingBest{}.BetterThan(model.BowlingBest{}))
}

func TestTeamInningsHelpers(t *testing.T) {
	ti := model.TeamInnings{
		Roster: []model.Player{{ID: 1}, {ID: 2}},
		Overs:  4, Balls: 2,
		Extras: model.Extras{Wides: 3, NoBalls: 1, Byes: 2, LegByes: 4},
	}
	require.Equal(t, "4.2", ti.OversDisplay())
	require.True(t, ti.HasPlayer(2))
	require.False(t, ti.HasPlayer(3))
	require.Equal(t, 10, ti.Extras.Total())
}

func TestMatchPhaseHelpers(t *testing.T) {
	m := model.Match{Phase: model.PhaseFirstInnings}
	require.Equal(t, 1, m.InningsNumber())
	require.False(t, m.IsSecondInnings())
	require.False(t, m.Completed())

	m.Phase = model.PhaseSecondInnings
	require.Equal(t, 2, m.InningsNumber())
	require.True(t, m.IsSecondInnings())

	m.Phase = model.PhaseCompleted
	require.True(t, m.Completed())
}

func TestMatchBattingBowling(t *testing.T) {
	m := model.Match{
		Teams:      [2]model.TeamInnings{{Name: "Lions"}, {Name: "Tigers"}},
		BattingIdx: 1,
	}
	require.Equal(t, "Tigers", m.Batting().Name)
	require.Equal(t, "Lions", m.Bowling().Name)

	// Batting returns a live pointer into the match.
	m.Batting().Score = 10
	require.Equal(t, 10, m.Teams[1].Score)
}
