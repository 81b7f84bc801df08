package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type completionFixture struct {
	matchRepo    *stubMatchRepo
	standingRepo *stubStandingRepo
	standings    *stubStandingsCalculator
	disciplinary *stubDisciplinary
	service      CompletionService
}

func newCompletionFixture(matches map[int]*models.Match) *completionFixture {
	f := &completionFixture{
		matchRepo: &stubMatchRepo{
			getByID: func(id int) (*models.Match, error) {
				match, ok := matches[id]
				if !ok {
					return nil, repositories.ErrMatchNotFound
				}
				return match, nil
			},
		},
		standingRepo: &stubStandingRepo{},
		standings:    &stubStandingsCalculator{},
		disciplinary: &stubDisciplinary{},
	}
	f.service = NewCompletionService(
		f.matchRepo,
		f.standingRepo,
		f.standings,
		f.disciplinary,
		testLogger(),
	)
	return f
}

func completedMatch(id, seasonID int) *models.Match {
	return &models.Match{
		ID:        id,
		SeasonID:  seasonID,
		Status:    models.MatchStatusCompleted,
		HomeScore: intPtr(2),
		AwayScore: intPtr(0),
	}
}

func TestProcessCompletionHappyPath(t *testing.T) {
	f := newCompletionFixture(map[int]*models.Match{1: completedMatch(1, 10)})

	result, err := f.service.ProcessCompletion(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || !result.StandingsUpdated || !result.DisciplinaryUpdated {
		t.Fatalf("result=%+v, want full success", result)
	}
	if f.standings.calls != 1 || f.disciplinary.calls != 1 {
		t.Fatalf("standings called %d times, disciplinary %d times, want 1 each", f.standings.calls, f.disciplinary.calls)
	}
	if f.standingRepo.repairs != 1 {
		t.Fatalf("goal difference repair ran %d times, want 1", f.standingRepo.repairs)
	}
}

func TestProcessCompletionMissingScoresFailsFast(t *testing.T) {
	match := completedMatch(1, 10)
	match.AwayScore = nil
	f := newCompletionFixture(map[int]*models.Match{1: match})

	result, err := f.service.ProcessCompletion(context.Background(), 1)
	if err != nil {
		t.Fatalf("missing scores must be reported in the result, not as an error: %v", err)
	}
	if result.Success {
		t.Fatalf("result marked successful despite incomplete scores")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "incomplete scores") {
		t.Fatalf("errors=%v, want a single incomplete-scores message", result.Errors)
	}
	// Ни один пересчёт не запускается: повторный прогон данные не вылечит.
	if f.standings.calls != 0 || f.disciplinary.calls != 0 || f.standingRepo.repairs != 0 {
		t.Fatalf("collaborators were called for a match with incomplete scores")
	}
}

func TestProcessCompletionStandingsFailureIsNonFatal(t *testing.T) {
	f := newCompletionFixture(map[int]*models.Match{1: completedMatch(1, 10)})
	f.standings.err = errors.New("db down")

	result, err := f.service.ProcessCompletion(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success {
		t.Fatalf("result marked successful despite standings failure")
	}
	if result.StandingsUpdated {
		t.Fatalf("standings flag set despite failure")
	}
	if !result.DisciplinaryUpdated {
		t.Fatalf("disciplinary recalculation must still run after standings failure")
	}
	if f.disciplinary.calls != 1 {
		t.Fatalf("disciplinary called %d times, want 1", f.disciplinary.calls)
	}
}

func TestProcessCompletionDisciplinaryFailureIsNonFatal(t *testing.T) {
	f := newCompletionFixture(map[int]*models.Match{1: completedMatch(1, 10)})
	f.disciplinary.err = errors.New("lock timeout")

	result, err := f.service.ProcessCompletion(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success || result.DisciplinaryUpdated {
		t.Fatalf("result=%+v, want degraded disciplinary flag", result)
	}
	if !result.StandingsUpdated {
		t.Fatalf("standings flag cleared by unrelated disciplinary failure")
	}
}

func TestProcessCompletionRepairFailureIsLogOnly(t *testing.T) {
	f := newCompletionFixture(map[int]*models.Match{1: completedMatch(1, 10)})
	f.standingRepo.repairErr = errors.New("column missing")

	result, err := f.service.ProcessCompletion(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("goal difference repair failure must not degrade the result: %+v", result)
	}
}

func TestProcessCompletionUnknownMatch(t *testing.T) {
	f := newCompletionFixture(map[int]*models.Match{})

	_, err := f.service.ProcessCompletion(context.Background(), 404)
	if !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestRollbackCompletionRerunsRecalculations(t *testing.T) {
	f := newCompletionFixture(map[int]*models.Match{1: completedMatch(1, 10)})

	result, err := f.service.RollbackCompletion(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("rollback result=%+v, want success", result)
	}
	if f.standings.calls != 1 || f.disciplinary.calls != 1 {
		t.Fatalf("rollback must rerun both recalculations, got standings=%d disciplinary=%d", f.standings.calls, f.disciplinary.calls)
	}
}

func TestBatchProcessSeason(t *testing.T) {
	matches := map[int]*models.Match{
		1: completedMatch(1, 10),
		2: completedMatch(2, 10),
	}
	f := newCompletionFixture(matches)
	f.matchRepo.listCompleted = func(seasonID int) ([]*models.Match, error) {
		return []*models.Match{matches[1], matches[2]}, nil
	}

	batch, err := f.service.BatchProcessSeason(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.MatchesProcessed != 2 {
		t.Fatalf("processed %d matches, want 2", batch.MatchesProcessed)
	}
	if len(batch.Errors) != 0 {
		t.Fatalf("errors=%v, want none", batch.Errors)
	}
	// Поматчевые прогоны плюс финальный общий.
	if f.standings.calls != 3 || f.disciplinary.calls != 3 {
		t.Fatalf("standings=%d disciplinary=%d, want 3 each", f.standings.calls, f.disciplinary.calls)
	}
}

func TestBatchProcessSeasonCollectsPerMatchErrors(t *testing.T) {
	broken := completedMatch(2, 10)
	broken.HomeScore = nil
	matches := map[int]*models.Match{
		1: completedMatch(1, 10),
		2: broken,
	}
	f := newCompletionFixture(matches)
	f.matchRepo.listCompleted = func(seasonID int) ([]*models.Match, error) {
		return []*models.Match{matches[1], matches[2]}, nil
	}

	batch, err := f.service.BatchProcessSeason(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.MatchesProcessed != 2 {
		t.Fatalf("processed %d matches, want 2", batch.MatchesProcessed)
	}
	if len(batch.Errors) != 1 || !strings.Contains(batch.Errors[0], "match 2") {
		t.Fatalf("errors=%v, want a single error naming match 2", batch.Errors)
	}
}
