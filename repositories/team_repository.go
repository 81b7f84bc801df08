package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamNameConflict      = errors.New("team name is already in use")
	ErrSeasonTeamNotFound    = errors.New("season team registration not found")
	ErrSeasonTeamConflict    = errors.New("team is already registered for this season")
	ErrSeasonTeamFKeyInvalid = errors.New("season team references invalid season or team")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error

	RegisterForSeason(ctx context.Context, registration *models.SeasonTeam) error
	GetSeasonTeamByID(ctx context.Context, id int) (*models.SeasonTeam, error)
	ListSeasonTeams(ctx context.Context, seasonID int) ([]*models.SeasonTeam, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, city, manager_id, logo_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.Name, team.City, team.ManagerID, team.LogoKey,
	).Scan(&team.ID, &team.CreatedAt)

	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT id, name, city, manager_id, logo_key, created_at FROM teams WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID, &team.Name, &team.City, &team.ManagerID, &team.LogoKey, &team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `SELECT id, name, city, manager_id, logo_key, created_at FROM teams ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var team models.Team
		if scanErr := rows.Scan(
			&team.ID, &team.Name, &team.City, &team.ManagerID, &team.LogoKey, &team.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, &team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `UPDATE teams SET name = $1, city = $2, manager_id = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, team.Name, team.City, team.ManagerID, team.ID)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) RegisterForSeason(ctx context.Context, registration *models.SeasonTeam) error {
	query := `
		INSERT INTO season_teams (season_id, team_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		registration.SeasonID, registration.TeamID,
	).Scan(&registration.ID, &registration.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrSeasonTeamConflict
			case "23503":
				return ErrSeasonTeamFKeyInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) GetSeasonTeamByID(ctx context.Context, id int) (*models.SeasonTeam, error) {
	query := `
		SELECT st.id, st.season_id, st.team_id, st.created_at,
		       t.id, t.name, t.city, t.manager_id, t.logo_key, t.created_at
		FROM season_teams st
		JOIN teams t ON t.id = st.team_id
		WHERE st.id = $1`

	st := &models.SeasonTeam{Team: &models.Team{}}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&st.ID, &st.SeasonID, &st.TeamID, &st.CreatedAt,
		&st.Team.ID, &st.Team.Name, &st.Team.City, &st.Team.ManagerID, &st.Team.LogoKey, &st.Team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonTeamNotFound
		}
		return nil, err
	}
	return st, nil
}

func (r *postgresTeamRepository) ListSeasonTeams(ctx context.Context, seasonID int) ([]*models.SeasonTeam, error) {
	query := `
		SELECT st.id, st.season_id, st.team_id, st.created_at,
		       t.id, t.name, t.city, t.manager_id, t.logo_key, t.created_at
		FROM season_teams st
		JOIN teams t ON t.id = st.team_id
		WHERE st.season_id = $1
		ORDER BY t.name ASC`

	rows, err := r.db.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registrations := make([]*models.SeasonTeam, 0)
	for rows.Next() {
		st := &models.SeasonTeam{Team: &models.Team{}}
		if scanErr := rows.Scan(
			&st.ID, &st.SeasonID, &st.TeamID, &st.CreatedAt,
			&st.Team.ID, &st.Team.Name, &st.Team.City, &st.Team.ManagerID, &st.Team.LogoKey, &st.Team.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		registrations = append(registrations, st)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return registrations, nil
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23505" && pqErr.Constraint == "teams_name_key" {
			return ErrTeamNameConflict
		}
	}
	return err
}
