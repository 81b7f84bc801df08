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

type PlayerService interface {
	Create(ctx context.Context, player *models.Player) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	Update(ctx context.Context, player *models.Player) (*models.Player, error)
	Delete(ctx context.Context, id int) error
	UploadPhoto(ctx context.Context, playerID int, contentType string, reader io.Reader) (*models.Player, error)

	RegisterForSeason(ctx context.Context, seasonTeamID, playerID int, shirtNumber *int) (*models.SeasonPlayer, error)
	ListSeasonPlayersByTeam(ctx context.Context, seasonTeamID int) ([]*models.SeasonPlayer, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
	uploader   storage.FileUploader
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		uploader:   uploader,
	}
}

func (s *playerService) Create(ctx context.Context, player *models.Player) (*models.Player, error) {
	player.FirstName = strings.TrimSpace(player.FirstName)
	player.LastName = strings.TrimSpace(player.LastName)
	if player.FirstName == "" || player.LastName == "" {
		return nil, fmt.Errorf("%w: player first and last name are required", ErrValidationFailed)
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	populatePlayerPhotoURLFunc(player, s.uploader)
	return player, nil
}

func (s *playerService) Update(ctx context.Context, player *models.Player) (*models.Player, error) {
	if err := s.playerRepo.Update(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, player.ID)
}

func (s *playerService) Delete(ctx context.Context, id int) error {
	if err := s.playerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}
	return nil
}

func (s *playerService) UploadPhoto(ctx context.Context, playerID int, contentType string, reader io.Reader) (*models.Player, error) {
	player, err := s.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("photos/players/%d", playerID)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload player photo: %w", err)
	}

	if err := s.playerRepo.UpdatePhotoKey(ctx, playerID, &result.Key); err != nil {
		return nil, err
	}
	player.PhotoKey = &result.Key
	populatePlayerPhotoURLFunc(player, s.uploader)
	return player, nil
}

func (s *playerService) RegisterForSeason(ctx context.Context, seasonTeamID, playerID int, shirtNumber *int) (*models.SeasonPlayer, error) {
	seasonTeam, err := s.teamRepo.GetSeasonTeamByID(ctx, seasonTeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonTeamNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.GetByID(ctx, playerID); err != nil {
		return nil, err
	}

	registration := &models.SeasonPlayer{
		SeasonID:     seasonTeam.SeasonID,
		SeasonTeamID: seasonTeamID,
		PlayerID:     playerID,
		ShirtNumber:  shirtNumber,
	}
	if err := s.playerRepo.RegisterForSeason(ctx, registration); err != nil {
		if errors.Is(err, repositories.ErrSeasonPlayerConflict) {
			return nil, ErrRegistrationConflict
		}
		return nil, err
	}

	// Отдаём заявку вместе с данными игрока одним ответом.
	hydrated, err := s.playerRepo.GetSeasonPlayerByID(ctx, registration.ID)
	if err != nil {
		return registration, nil
	}
	populatePlayerPhotoURLFunc(hydrated.Player, s.uploader)
	return hydrated, nil
}

func (s *playerService) ListSeasonPlayersByTeam(ctx context.Context, seasonTeamID int) ([]*models.SeasonPlayer, error) {
	players, err := s.playerRepo.ListSeasonPlayersByTeam(ctx, seasonTeamID)
	if err != nil {
		return nil, err
	}
	for _, sp := range players {
		populatePlayerPhotoURLFunc(sp.Player, s.uploader)
	}
	return players, nil
}
