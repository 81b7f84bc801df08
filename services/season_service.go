package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type SeasonService interface {
	Create(ctx context.Context, season *models.Season) (*models.Season, error)
	GetByID(ctx context.Context, id int) (*models.Season, error)
	List(ctx context.Context) ([]*models.Season, error)
	UpdateStatus(ctx context.Context, id int, status models.SeasonStatus) (*models.Season, error)
	Delete(ctx context.Context, id int) error
}

type seasonService struct {
	seasonRepo repositories.SeasonRepository
}

func NewSeasonService(seasonRepo repositories.SeasonRepository) SeasonService {
	return &seasonService{seasonRepo: seasonRepo}
}

func (s *seasonService) Create(ctx context.Context, season *models.Season) (*models.Season, error) {
	season.Name = strings.TrimSpace(season.Name)
	if season.Name == "" {
		return nil, ErrSeasonNameRequired
	}
	if !season.StartDate.Before(season.EndDate) {
		return nil, ErrSeasonInvalidDateRange
	}
	if err := s.seasonRepo.Create(ctx, season); err != nil {
		if errors.Is(err, repositories.ErrSeasonNameConflict) {
			return nil, ErrSeasonNameConflict
		}
		return nil, err
	}
	return season, nil
}

func (s *seasonService) GetByID(ctx context.Context, id int) (*models.Season, error) {
	season, err := s.seasonRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	return season, nil
}

func (s *seasonService) List(ctx context.Context) ([]*models.Season, error) {
	return s.seasonRepo.List(ctx)
}

func (s *seasonService) UpdateStatus(ctx context.Context, id int, status models.SeasonStatus) (*models.Season, error) {
	switch status {
	case models.SeasonStatusDraft, models.SeasonStatusActive, models.SeasonStatusFinished:
	default:
		return nil, ErrValidationFailed
	}
	if err := s.seasonRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *seasonService) Delete(ctx context.Context, id int) error {
	if err := s.seasonRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return ErrSeasonNotFound
		}
		return err
	}
	return nil
}
