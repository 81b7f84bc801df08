package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrSeasonNotFound     = errors.New("season not found")
	ErrSeasonNameConflict = errors.New("season name already exists")
)

type SeasonRepository interface {
	Create(ctx context.Context, season *models.Season) error
	GetByID(ctx context.Context, id int) (*models.Season, error)
	List(ctx context.Context) ([]*models.Season, error)
	UpdateStatus(ctx context.Context, id int, status models.SeasonStatus) error
	Delete(ctx context.Context, id int) error
}

type postgresSeasonRepository struct {
	db *sql.DB
}

func NewPostgresSeasonRepository(db *sql.DB) SeasonRepository {
	return &postgresSeasonRepository{db: db}
}

func (r *postgresSeasonRepository) Create(ctx context.Context, season *models.Season) error {
	query := `
		INSERT INTO seasons (name, start_date, end_date, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	if season.Status == "" {
		season.Status = models.SeasonStatusDraft
	}
	err := r.db.QueryRowContext(ctx, query,
		season.Name, season.StartDate, season.EndDate, season.Status,
	).Scan(&season.ID, &season.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return ErrSeasonNameConflict
		}
		return err
	}
	return nil
}

func (r *postgresSeasonRepository) GetByID(ctx context.Context, id int) (*models.Season, error) {
	query := `SELECT id, name, start_date, end_date, status, created_at FROM seasons WHERE id = $1`

	season := &models.Season{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&season.ID, &season.Name, &season.StartDate, &season.EndDate, &season.Status, &season.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	return season, nil
}

func (r *postgresSeasonRepository) List(ctx context.Context) ([]*models.Season, error) {
	query := `SELECT id, name, start_date, end_date, status, created_at FROM seasons ORDER BY start_date DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seasons := make([]*models.Season, 0)
	for rows.Next() {
		var season models.Season
		if scanErr := rows.Scan(
			&season.ID, &season.Name, &season.StartDate, &season.EndDate, &season.Status, &season.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		seasons = append(seasons, &season)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return seasons, nil
}

func (r *postgresSeasonRepository) UpdateStatus(ctx context.Context, id int, status models.SeasonStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE seasons SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}

func (r *postgresSeasonRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM seasons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}
