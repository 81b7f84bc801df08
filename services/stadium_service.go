package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type StadiumService interface {
	Create(ctx context.Context, stadium *models.Stadium) (*models.Stadium, error)
	GetByID(ctx context.Context, id int) (*models.Stadium, error)
	List(ctx context.Context) ([]*models.Stadium, error)
	Update(ctx context.Context, stadium *models.Stadium) (*models.Stadium, error)
	Delete(ctx context.Context, id int) error
}

type stadiumService struct {
	stadiumRepo repositories.StadiumRepository
}

func NewStadiumService(stadiumRepo repositories.StadiumRepository) StadiumService {
	return &stadiumService{stadiumRepo: stadiumRepo}
}

func (s *stadiumService) Create(ctx context.Context, stadium *models.Stadium) (*models.Stadium, error) {
	stadium.Name = strings.TrimSpace(stadium.Name)
	if stadium.Name == "" {
		return nil, ErrStadiumNameRequired
	}
	if err := s.stadiumRepo.Create(ctx, stadium); err != nil {
		return nil, err
	}
	return stadium, nil
}

func (s *stadiumService) GetByID(ctx context.Context, id int) (*models.Stadium, error) {
	stadium, err := s.stadiumRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrStadiumNotFound) {
			return nil, ErrStadiumNotFound
		}
		return nil, err
	}
	return stadium, nil
}

func (s *stadiumService) List(ctx context.Context) ([]*models.Stadium, error) {
	return s.stadiumRepo.List(ctx)
}

func (s *stadiumService) Update(ctx context.Context, stadium *models.Stadium) (*models.Stadium, error) {
	stadium.Name = strings.TrimSpace(stadium.Name)
	if stadium.Name == "" {
		return nil, ErrStadiumNameRequired
	}
	if err := s.stadiumRepo.Update(ctx, stadium); err != nil {
		if errors.Is(err, repositories.ErrStadiumNotFound) {
			return nil, ErrStadiumNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, stadium.ID)
}

func (s *stadiumService) Delete(ctx context.Context, id int) error {
	if err := s.stadiumRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrStadiumNotFound) {
			return ErrStadiumNotFound
		}
		return err
	}
	return nil
}
