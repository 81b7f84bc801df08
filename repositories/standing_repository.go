package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrSeasonStandingNotFound = errors.New("season standing not found")
	ErrStandingTeamInvalid    = errors.New("standing team conflict or invalid")
	ErrStandingSeasonInvalid  = errors.New("standing season conflict or invalid")
)

type StandingRepository interface {
	Create(ctx context.Context, exec SQLExecutor, standing *models.SeasonStanding) error
	GetBySeasonAndTeam(ctx context.Context, exec SQLExecutor, seasonID, seasonTeamID int) (*models.SeasonStanding, error)
	GetOrCreate(ctx context.Context, exec SQLExecutor, seasonID, seasonTeamID int) (*models.SeasonStanding, error)
	Update(ctx context.Context, exec SQLExecutor, standing *models.SeasonStanding) error
	ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int, sortByRank bool) ([]*models.SeasonStanding, error)
	DeleteBySeasonID(ctx context.Context, exec SQLExecutor, seasonID int) error
	// RepairGoalDifference пересчитывает сохранённую колонку goal_difference
	// из goals_for/goals_against одной командой SQL.
	RepairGoalDifference(ctx context.Context, exec SQLExecutor, seasonID int) error
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStandingRepository) Create(ctx context.Context, exec SQLExecutor, standing *models.SeasonStanding) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO season_standings
			(season_id, season_team_id, points, games_played, wins, draws, losses,
			 goals_for, goals_against, goal_difference, rank, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	if standing.UpdatedAt.IsZero() {
		standing.UpdatedAt = time.Now()
	}
	err := executor.QueryRowContext(ctx, query,
		standing.SeasonID, standing.SeasonTeamID, standing.Points, standing.GamesPlayed,
		standing.Wins, standing.Draws, standing.Losses, standing.GoalsFor, standing.GoalsAgainst,
		standing.GoalDifference, standing.Rank, standing.UpdatedAt,
	).Scan(&standing.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "season_standings_season_team_id_fkey":
				return ErrStandingTeamInvalid
			case "season_standings_season_id_fkey":
				return ErrStandingSeasonInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresStandingRepository) scanStanding(rowScanner interface{ Scan(...interface{}) error }) (*models.SeasonStanding, error) {
	var s models.SeasonStanding
	err := rowScanner.Scan(
		&s.ID, &s.SeasonID, &s.SeasonTeamID, &s.Points, &s.GamesPlayed,
		&s.Wins, &s.Draws, &s.Losses, &s.GoalsFor, &s.GoalsAgainst,
		&s.GoalDifference, &s.Rank, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonStandingNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresStandingRepository) GetBySeasonAndTeam(ctx context.Context, exec SQLExecutor, seasonID, seasonTeamID int) (*models.SeasonStanding, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, season_id, season_team_id, points, games_played, wins, draws, losses,
		       goals_for, goals_against, goal_difference, rank, updated_at
		FROM season_standings
		WHERE season_id = $1 AND season_team_id = $2`
	return r.scanStanding(executor.QueryRowContext(ctx, query, seasonID, seasonTeamID))
}

func (r *postgresStandingRepository) GetOrCreate(ctx context.Context, exec SQLExecutor, seasonID, seasonTeamID int) (*models.SeasonStanding, error) {
	executor := r.getExecutor(exec)
	standing, err := r.GetBySeasonAndTeam(ctx, executor, seasonID, seasonTeamID)
	if err != nil {
		if errors.Is(err, ErrSeasonStandingNotFound) {
			newStanding := &models.SeasonStanding{
				SeasonID:     seasonID,
				SeasonTeamID: seasonTeamID,
				UpdatedAt:    time.Now(),
			}
			if createErr := r.Create(ctx, executor, newStanding); createErr != nil {
				return nil, createErr
			}
			return newStanding, nil
		}
		return nil, err
	}
	return standing, nil
}

func (r *postgresStandingRepository) Update(ctx context.Context, exec SQLExecutor, standing *models.SeasonStanding) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE season_standings SET
			points = $1, games_played = $2, wins = $3, draws = $4, losses = $5,
			goals_for = $6, goals_against = $7, goal_difference = $8, rank = $9,
			updated_at = NOW()
		WHERE id = $10`

	result, err := executor.ExecContext(ctx, query,
		standing.Points, standing.GamesPlayed, standing.Wins, standing.Draws, standing.Losses,
		standing.GoalsFor, standing.GoalsAgainst, standing.GoalDifference, standing.Rank,
		standing.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSeasonStandingNotFound)
}

func (r *postgresStandingRepository) ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int, sortByRank bool) ([]*models.SeasonStanding, error) {
	executor := r.getExecutor(exec)
	queryBuilder := strings.Builder{}
	queryBuilder.WriteString(`
		SELECT id, season_id, season_team_id, points, games_played, wins, draws, losses,
		       goals_for, goals_against, goal_difference, rank, updated_at
		FROM season_standings
		WHERE season_id = $1`)

	if sortByRank {
		// Порядок совпадает с правилом ранжирования пересчёта таблицы.
		queryBuilder.WriteString(" ORDER BY points DESC, goal_difference DESC, goals_for DESC, season_team_id ASC")
	} else {
		queryBuilder.WriteString(" ORDER BY season_team_id ASC")
	}

	rows, err := executor.QueryContext(ctx, queryBuilder.String(), seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]*models.SeasonStanding, 0)
	for rows.Next() {
		s, errScan := r.scanStanding(rows)
		if errScan != nil {
			return nil, errScan
		}
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return standings, nil
}

func (r *postgresStandingRepository) DeleteBySeasonID(ctx context.Context, exec SQLExecutor, seasonID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM season_standings WHERE season_id = $1`, seasonID)
	return err
}

func (r *postgresStandingRepository) RepairGoalDifference(ctx context.Context, exec SQLExecutor, seasonID int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE season_standings
		SET goal_difference = goals_for - goals_against, updated_at = NOW()
		WHERE season_id = $1 AND goal_difference <> goals_for - goals_against`
	_, err := executor.ExecContext(ctx, query, seasonID)
	return err
}
