package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound          = errors.New("player not found")
	ErrSeasonPlayerNotFound    = errors.New("season player registration not found")
	ErrSeasonPlayerConflict    = errors.New("player is already registered for this season team")
	ErrSeasonPlayerFKeyInvalid = errors.New("season player references invalid season, team or player")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error
	Delete(ctx context.Context, id int) error

	RegisterForSeason(ctx context.Context, registration *models.SeasonPlayer) error
	GetSeasonPlayerByID(ctx context.Context, id int) (*models.SeasonPlayer, error)
	ListSeasonPlayersByTeam(ctx context.Context, seasonTeamID int) ([]*models.SeasonPlayer, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (first_name, last_name, birth_date, position, photo_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		player.FirstName, player.LastName, player.BirthDate, player.Position, player.PhotoKey,
	).Scan(&player.ID, &player.CreatedAt)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT id, first_name, last_name, birth_date, position, photo_key, created_at FROM players WHERE id = $1`

	player := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&player.ID, &player.FirstName, &player.LastName, &player.BirthDate,
		&player.Position, &player.PhotoKey, &player.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players SET first_name = $1, last_name = $2, birth_date = $3, position = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		player.FirstName, player.LastName, player.BirthDate, player.Position, player.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE players SET photo_key = $1 WHERE id = $2`, photoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) RegisterForSeason(ctx context.Context, registration *models.SeasonPlayer) error {
	query := `
		INSERT INTO season_players (season_id, season_team_id, player_id, shirt_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		registration.SeasonID, registration.SeasonTeamID, registration.PlayerID, registration.ShirtNumber,
	).Scan(&registration.ID, &registration.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrSeasonPlayerConflict
			case "23503":
				return ErrSeasonPlayerFKeyInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresPlayerRepository) GetSeasonPlayerByID(ctx context.Context, id int) (*models.SeasonPlayer, error) {
	query := `
		SELECT sp.id, sp.season_id, sp.season_team_id, sp.player_id, sp.shirt_number, sp.created_at,
		       p.id, p.first_name, p.last_name, p.birth_date, p.position, p.photo_key, p.created_at
		FROM season_players sp
		JOIN players p ON p.id = sp.player_id
		WHERE sp.id = $1`

	sp := &models.SeasonPlayer{Player: &models.Player{}}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sp.ID, &sp.SeasonID, &sp.SeasonTeamID, &sp.PlayerID, &sp.ShirtNumber, &sp.CreatedAt,
		&sp.Player.ID, &sp.Player.FirstName, &sp.Player.LastName, &sp.Player.BirthDate,
		&sp.Player.Position, &sp.Player.PhotoKey, &sp.Player.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonPlayerNotFound
		}
		return nil, err
	}
	return sp, nil
}

func (r *postgresPlayerRepository) ListSeasonPlayersByTeam(ctx context.Context, seasonTeamID int) ([]*models.SeasonPlayer, error) {
	query := `
		SELECT sp.id, sp.season_id, sp.season_team_id, sp.player_id, sp.shirt_number, sp.created_at,
		       p.id, p.first_name, p.last_name, p.birth_date, p.position, p.photo_key, p.created_at
		FROM season_players sp
		JOIN players p ON p.id = sp.player_id
		WHERE sp.season_team_id = $1
		ORDER BY sp.shirt_number ASC NULLS LAST, p.last_name ASC`

	rows, err := r.db.QueryContext(ctx, query, seasonTeamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.SeasonPlayer, 0)
	for rows.Next() {
		sp := &models.SeasonPlayer{Player: &models.Player{}}
		if scanErr := rows.Scan(
			&sp.ID, &sp.SeasonID, &sp.SeasonTeamID, &sp.PlayerID, &sp.ShirtNumber, &sp.CreatedAt,
			&sp.Player.ID, &sp.Player.FirstName, &sp.Player.LastName, &sp.Player.BirthDate,
			&sp.Player.Position, &sp.Player.PhotoKey, &sp.Player.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, sp)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}
