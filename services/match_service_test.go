package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

func newMatchServiceFixture(match *models.Match) (*stubCardEventRepo, MatchService) {
	matchRepo := &stubMatchRepo{
		getByID: func(id int) (*models.Match, error) {
			if match == nil || id != match.ID {
				return nil, repositories.ErrMatchNotFound
			}
			return match, nil
		},
		create: func(m *models.Match) error {
			m.ID = 1
			return nil
		},
		updateScore: func(id, homeScore, awayScore int) error {
			match.HomeScore = &homeScore
			match.AwayScore = &awayScore
			return nil
		},
	}
	cardRepo := &stubCardEventRepo{
		create: func(event *models.CardEvent) error {
			event.ID = 77
			return nil
		},
	}
	teamRepo := &stubTeamRepo{
		getSeasonTeam: func(id int) (*models.SeasonTeam, error) {
			if id >= 90 {
				return nil, repositories.ErrSeasonTeamNotFound
			}
			return &models.SeasonTeam{ID: id, SeasonID: 10}, nil
		},
	}
	return cardRepo, NewMatchService(matchRepo, cardRepo, teamRepo)
}

func TestCreateMatchRejectsSameTeam(t *testing.T) {
	_, service := newMatchServiceFixture(nil)

	_, err := service.Create(context.Background(), &models.Match{SeasonID: 10, HomeTeamID: 21, AwayTeamID: 21})
	if !errors.Is(err, ErrMatchSameTeam) {
		t.Fatalf("expected ErrMatchSameTeam, got %v", err)
	}
}

func TestCreateMatchRejectsUnregisteredTeams(t *testing.T) {
	_, service := newMatchServiceFixture(nil)

	_, err := service.Create(context.Background(), &models.Match{SeasonID: 10, HomeTeamID: 21, AwayTeamID: 99})
	if !errors.Is(err, ErrMatchTeamsNotInSeason) {
		t.Fatalf("expected ErrMatchTeamsNotInSeason, got %v", err)
	}
}

func TestCreateMatchStartsScheduledWithPendingLineups(t *testing.T) {
	_, service := newMatchServiceFixture(nil)

	created, err := service.Create(context.Background(), &models.Match{SeasonID: 10, HomeTeamID: 21, AwayTeamID: 22})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != models.MatchStatusScheduled {
		t.Fatalf("new match status is %s, want scheduled", created.Status)
	}
	if created.HomeLineupStatus != models.LineupStatusPending || created.AwayLineupStatus != models.LineupStatusPending {
		t.Fatalf("new match lineups are %s/%s, want pending/pending", created.HomeLineupStatus, created.AwayLineupStatus)
	}
}

func TestRecordCardValidation(t *testing.T) {
	match := &models.Match{ID: 1, SeasonID: 10, HomeTeamID: 21, AwayTeamID: 22, Status: models.MatchStatusInProgress}
	_, service := newMatchServiceFixture(match)
	ctx := context.Background()

	if _, err := service.RecordCard(ctx, 1, RecordCardInput{PlayerID: 5, TeamID: 21, Type: "blue", Minute: 10}); !errors.Is(err, ErrCardTypeInvalid) {
		t.Fatalf("expected ErrCardTypeInvalid, got %v", err)
	}
	if _, err := service.RecordCard(ctx, 1, RecordCardInput{PlayerID: 5, TeamID: 21, Type: models.CardTypeYellow, Minute: 131}); !errors.Is(err, ErrCardMinuteInvalid) {
		t.Fatalf("expected ErrCardMinuteInvalid, got %v", err)
	}
	if _, err := service.RecordCard(ctx, 1, RecordCardInput{PlayerID: 5, TeamID: 23, Type: models.CardTypeYellow, Minute: 10}); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed for non-playing team, got %v", err)
	}
}

func TestRecordCardOnlyInProgress(t *testing.T) {
	match := &models.Match{ID: 1, SeasonID: 10, HomeTeamID: 21, AwayTeamID: 22, Status: models.MatchStatusFinished}
	_, service := newMatchServiceFixture(match)

	_, err := service.RecordCard(context.Background(), 1, RecordCardInput{PlayerID: 5, TeamID: 21, Type: models.CardTypeRed, Minute: 60})
	if !errors.Is(err, ErrCardNotAllowed) {
		t.Fatalf("expected ErrCardNotAllowed, got %v", err)
	}
}

func TestRecordCardPersistsSeasonScopedEvent(t *testing.T) {
	match := &models.Match{ID: 1, SeasonID: 10, HomeTeamID: 21, AwayTeamID: 22, Status: models.MatchStatusInProgress}
	_, service := newMatchServiceFixture(match)

	event, err := service.RecordCard(context.Background(), 1, RecordCardInput{
		PlayerID: 5,
		TeamID:   22,
		Type:     models.CardTypeSecondYellow,
		Minute:   88,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.SeasonID != 10 || event.MatchID != 1 {
		t.Fatalf("event scoped to season %d match %d, want 10/1", event.SeasonID, event.MatchID)
	}
	if !event.IsRedEquivalent() {
		t.Fatalf("second yellow must count as a red equivalent")
	}
}

func TestSetScoreStatusGate(t *testing.T) {
	match := &models.Match{ID: 1, SeasonID: 10, HomeTeamID: 21, AwayTeamID: 22, Status: models.MatchStatusInProgress}
	_, service := newMatchServiceFixture(match)
	ctx := context.Background()

	if _, err := service.SetScore(ctx, 1, 2, 1); !errors.Is(err, ErrScoreNotAllowed) {
		t.Fatalf("expected ErrScoreNotAllowed for in_progress, got %v", err)
	}
	if _, err := service.SetScore(ctx, 1, -1, 0); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed for negative score, got %v", err)
	}

	match.Status = models.MatchStatusFinished
	updated, err := service.SetScore(ctx, 1, 2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.HasBothScores() || *updated.HomeScore != 2 || *updated.AwayScore != 1 {
		t.Fatalf("score not persisted: %v/%v", updated.HomeScore, updated.AwayScore)
	}
}
