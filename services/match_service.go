package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type RecordCardInput struct {
	PlayerID int             `json:"player_id"`
	TeamID   int             `json:"team_id"`
	Type     models.CardType `json:"type"`
	Minute   int             `json:"minute"`
}

type MatchService interface {
	Create(ctx context.Context, match *models.Match) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListBySeason(ctx context.Context, seasonID int, round *int, status *models.MatchStatus) ([]*models.Match, error)
	// RecordCard фиксирует карточку. Допустимо только для идущего матча;
	// записи неизменяемы и позже читаются пересчётом дисквалификаций.
	RecordCard(ctx context.Context, matchID int, input RecordCardInput) (*models.CardEvent, error)
	ListCards(ctx context.Context, matchID int) ([]*models.CardEvent, error)
	// SetScore допустим только когда матч уже дошёл до finished (включая
	// правку до подтверждения в reported).
	SetScore(ctx context.Context, matchID, homeScore, awayScore int) (*models.Match, error)
}

type matchService struct {
	matchRepo     repositories.MatchRepository
	cardEventRepo repositories.CardEventRepository
	teamRepo      repositories.TeamRepository
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	cardEventRepo repositories.CardEventRepository,
	teamRepo repositories.TeamRepository,
) MatchService {
	return &matchService{
		matchRepo:     matchRepo,
		cardEventRepo: cardEventRepo,
		teamRepo:      teamRepo,
	}
}

func (s *matchService) Create(ctx context.Context, match *models.Match) (*models.Match, error) {
	if match.HomeTeamID == match.AwayTeamID {
		return nil, ErrMatchSameTeam
	}

	for _, seasonTeamID := range []int{match.HomeTeamID, match.AwayTeamID} {
		seasonTeam, err := s.teamRepo.GetSeasonTeamByID(ctx, seasonTeamID)
		if err != nil {
			if errors.Is(err, repositories.ErrSeasonTeamNotFound) {
				return nil, ErrMatchTeamsNotInSeason
			}
			return nil, err
		}
		if seasonTeam.SeasonID != match.SeasonID {
			return nil, ErrMatchTeamsNotInSeason
		}
	}

	match.Status = models.MatchStatusScheduled
	match.HomeLineupStatus = models.LineupStatusPending
	match.AwayLineupStatus = models.LineupStatusPending

	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListBySeason(ctx context.Context, seasonID int, round *int, status *models.MatchStatus) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListBySeason(ctx, nil, seasonID, round, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for season %d: %w", seasonID, err)
	}
	return matches, nil
}

func (s *matchService) RecordCard(ctx context.Context, matchID int, input RecordCardInput) (*models.CardEvent, error) {
	switch input.Type {
	case models.CardTypeYellow, models.CardTypeRed, models.CardTypeSecondYellow:
	default:
		return nil, ErrCardTypeInvalid
	}
	if input.Minute < 0 || input.Minute > 130 {
		return nil, ErrCardMinuteInvalid
	}

	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchStatusInProgress {
		return nil, fmt.Errorf("%w: current status %s", ErrCardNotAllowed, match.Status)
	}
	if input.TeamID != match.HomeTeamID && input.TeamID != match.AwayTeamID {
		return nil, fmt.Errorf("%w: team %d is not playing in match %d", ErrValidationFailed, input.TeamID, matchID)
	}

	event := &models.CardEvent{
		SeasonID: match.SeasonID,
		MatchID:  matchID,
		PlayerID: input.PlayerID,
		TeamID:   input.TeamID,
		Type:     input.Type,
		Minute:   input.Minute,
	}
	if err := s.cardEventRepo.Create(ctx, nil, event); err != nil {
		return nil, fmt.Errorf("failed to record card for match %d: %w", matchID, err)
	}
	return event, nil
}

func (s *matchService) ListCards(ctx context.Context, matchID int) ([]*models.CardEvent, error) {
	if _, err := s.GetByID(ctx, matchID); err != nil {
		return nil, err
	}
	return s.cardEventRepo.ListByMatch(ctx, nil, matchID)
}

func (s *matchService) SetScore(ctx context.Context, matchID, homeScore, awayScore int) (*models.Match, error) {
	if homeScore < 0 || awayScore < 0 {
		return nil, fmt.Errorf("%w: score cannot be negative", ErrValidationFailed)
	}

	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	// Счёт появляется не раньше завершения матча и замораживается после
	// подтверждения.
	if match.Status != models.MatchStatusFinished && match.Status != models.MatchStatusReported {
		return nil, fmt.Errorf("%w: current status %s", ErrScoreNotAllowed, match.Status)
	}

	if err := s.matchRepo.UpdateScore(ctx, nil, matchID, homeScore, awayScore); err != nil {
		return nil, fmt.Errorf("failed to set score for match %d: %w", matchID, err)
	}
	return s.GetByID(ctx, matchID)
}
