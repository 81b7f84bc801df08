package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
)

type TeamService interface {
	Create(ctx context.Context, team *models.Team) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	Update(ctx context.Context, team *models.Team) (*models.Team, error)
	Delete(ctx context.Context, id int) error
	UploadLogo(ctx context.Context, teamID int, contentType string, reader io.Reader) (*models.Team, error)

	RegisterForSeason(ctx context.Context, seasonID, teamID int) (*models.SeasonTeam, error)
	ListSeasonTeams(ctx context.Context, seasonID int) ([]*models.SeasonTeam, error)
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	seasonRepo repositories.SeasonRepository
	uploader   storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	seasonRepo repositories.SeasonRepository,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		teamRepo:   teamRepo,
		seasonRepo: seasonRepo,
		uploader:   uploader,
	}
}

func (s *teamService) Create(ctx context.Context, team *models.Team) (*models.Team, error) {
	team.Name = strings.TrimSpace(team.Name)
	if team.Name == "" {
		return nil, ErrTeamNameRequired
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	populateTeamLogoURLFunc(team, s.uploader)
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, team := range teams {
		populateTeamLogoURLFunc(team, s.uploader)
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, team *models.Team) (*models.Team, error) {
	team.Name = strings.TrimSpace(team.Name)
	if team.Name == "" {
		return nil, ErrTeamNameRequired
	}
	if err := s.teamRepo.Update(ctx, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		}
		return nil, err
	}
	return s.GetByID(ctx, team.ID)
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}
	return nil
}

func (s *teamService) UploadLogo(ctx context.Context, teamID int, contentType string, reader io.Reader) (*models.Team, error) {
	team, err := s.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("logos/teams/%d", teamID)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, &result.Key); err != nil {
		return nil, err
	}
	team.LogoKey = &result.Key
	populateTeamLogoURLFunc(team, s.uploader)
	return team, nil
}

func (s *teamService) RegisterForSeason(ctx context.Context, seasonID, teamID int) (*models.SeasonTeam, error) {
	if _, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	if _, err := s.GetByID(ctx, teamID); err != nil {
		return nil, err
	}

	registration := &models.SeasonTeam{SeasonID: seasonID, TeamID: teamID}
	if err := s.teamRepo.RegisterForSeason(ctx, registration); err != nil {
		if errors.Is(err, repositories.ErrSeasonTeamConflict) {
			return nil, ErrRegistrationConflict
		}
		return nil, err
	}

	hydrated, err := s.teamRepo.GetSeasonTeamByID(ctx, registration.ID)
	if err != nil {
		return registration, nil
	}
	populateTeamLogoURLFunc(hydrated.Team, s.uploader)
	return hydrated, nil
}

func (s *teamService) ListSeasonTeams(ctx context.Context, seasonID int) ([]*models.SeasonTeam, error) {
	registrations, err := s.teamRepo.ListSeasonTeams(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	for _, reg := range registrations {
		populateTeamLogoURLFunc(reg.Team, s.uploader)
	}
	return registrations, nil
}
