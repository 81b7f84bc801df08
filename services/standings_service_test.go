package services

import (
	"context"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

func scoredMatch(home, away, homeScore, awayScore int) *models.Match {
	return &models.Match{
		SeasonID:   10,
		HomeTeamID: home,
		AwayTeamID: away,
		Status:     models.MatchStatusCompleted,
		HomeScore:  &homeScore,
		AwayScore:  &awayScore,
	}
}

func newStandingsFixture(matches []*models.Match, teamIDs []int) (*stubStandingRepo, StandingsService) {
	matchRepo := &stubMatchRepo{
		listCompleted: func(int) ([]*models.Match, error) { return matches, nil },
	}
	teamRepo := &stubTeamRepo{
		listSeasonTeams: func(seasonID int) ([]*models.SeasonTeam, error) {
			out := make([]*models.SeasonTeam, 0, len(teamIDs))
			for _, id := range teamIDs {
				out = append(out, &models.SeasonTeam{ID: id, SeasonID: seasonID})
			}
			return out, nil
		},
	}
	standingRepo := &stubStandingRepo{}
	service := NewStandingsService(&stubTxManager{}, matchRepo, teamRepo, standingRepo, testLogger())
	return standingRepo, service
}

func TestRecomputeAwardsPoints(t *testing.T) {
	// 21 обыгрывает 22, 22 и 23 играют вничью, 23 обыгрывает 21.
	matches := []*models.Match{
		scoredMatch(21, 22, 3, 1),
		scoredMatch(22, 23, 2, 2),
		scoredMatch(23, 21, 1, 0),
	}
	standingRepo, service := newStandingsFixture(matches, []int{21, 22, 23})

	if err := service.Recompute(context.Background(), 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if standingRepo.deleted != 1 {
		t.Fatalf("old standings deleted %d times, want 1", standingRepo.deleted)
	}

	byTeam := make(map[int]*models.SeasonStanding, len(standingRepo.created))
	for _, s := range standingRepo.created {
		byTeam[s.SeasonTeamID] = s
	}
	if len(byTeam) != 3 {
		t.Fatalf("standings created for %d teams, want 3", len(byTeam))
	}

	checks := []struct {
		team         int
		points       int
		wins, draws  int
		losses       int
		goalsFor     int
		goalsAgainst int
		goalDiff     int
	}{
		{team: 21, points: 3, wins: 1, draws: 0, losses: 1, goalsFor: 3, goalsAgainst: 2, goalDiff: 1},
		{team: 22, points: 1, wins: 0, draws: 1, losses: 1, goalsFor: 3, goalsAgainst: 5, goalDiff: -2},
		{team: 23, points: 4, wins: 1, draws: 1, losses: 0, goalsFor: 3, goalsAgainst: 2, goalDiff: 1},
	}
	for _, c := range checks {
		s := byTeam[c.team]
		if s == nil {
			t.Fatalf("no standing for team %d", c.team)
		}
		if s.Points != c.points || s.Wins != c.wins || s.Draws != c.draws || s.Losses != c.losses {
			t.Fatalf("team %d: P=%d W=%d D=%d L=%d, want P=%d W=%d D=%d L=%d",
				c.team, s.Points, s.Wins, s.Draws, s.Losses, c.points, c.wins, c.draws, c.losses)
		}
		if s.GoalsFor != c.goalsFor || s.GoalsAgainst != c.goalsAgainst || s.GoalDifference != c.goalDiff {
			t.Fatalf("team %d: GF=%d GA=%d GD=%d, want GF=%d GA=%d GD=%d",
				c.team, s.GoalsFor, s.GoalsAgainst, s.GoalDifference, c.goalsFor, c.goalsAgainst, c.goalDiff)
		}
	}
}

func TestRecomputeRanksByPointsThenGoalDifference(t *testing.T) {
	// У 21 и 22 по три очка; 21 выигрывает крупнее и ранжируется выше.
	matches := []*models.Match{
		scoredMatch(21, 23, 4, 0),
		scoredMatch(22, 23, 1, 0),
	}
	standingRepo, service := newStandingsFixture(matches, []int{21, 22, 23})

	if err := service.Recompute(context.Background(), 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rankOf := make(map[int]int)
	for _, s := range standingRepo.created {
		if s.Rank == nil {
			t.Fatalf("team %d has no rank", s.SeasonTeamID)
		}
		rankOf[s.SeasonTeamID] = *s.Rank
	}
	if rankOf[21] != 1 || rankOf[22] != 2 || rankOf[23] != 3 {
		t.Fatalf("ranks are %v, want 21->1, 22->2, 23->3", rankOf)
	}
}

func TestRecomputeIncludesTeamsWithoutMatches(t *testing.T) {
	standingRepo, service := newStandingsFixture(nil, []int{21, 22})

	if err := service.Recompute(context.Background(), 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(standingRepo.created) != 2 {
		t.Fatalf("standings created for %d teams, want 2", len(standingRepo.created))
	}
	for _, s := range standingRepo.created {
		if s.Points != 0 || s.GamesPlayed != 0 {
			t.Fatalf("team %d has nonzero stats without matches: %+v", s.SeasonTeamID, s)
		}
	}
}

func TestRecomputeSkipsMatchesForUnregisteredTeams(t *testing.T) {
	// Матч против незаявленной команды 99 не должен попасть в таблицу.
	matches := []*models.Match{
		scoredMatch(21, 99, 2, 0),
		scoredMatch(21, 22, 1, 1),
	}
	standingRepo, service := newStandingsFixture(matches, []int{21, 22})

	if err := service.Recompute(context.Background(), 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range standingRepo.created {
		if s.SeasonTeamID == 21 && s.GamesPlayed != 1 {
			t.Fatalf("team 21 played %d counted matches, want 1", s.GamesPlayed)
		}
	}
}

func TestTableReturnsEmptySliceForSeasonWithoutStandings(t *testing.T) {
	standingRepo, service := newStandingsFixture(nil, nil)
	standingRepo.listFn = func(int, bool) ([]*models.SeasonStanding, error) {
		return nil, repositories.ErrSeasonStandingNotFound
	}

	table, err := service.Table(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table == nil || len(table) != 0 {
		t.Fatalf("table=%v, want empty slice", table)
	}
}
