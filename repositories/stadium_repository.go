package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
)

var ErrStadiumNotFound = errors.New("stadium not found")

type StadiumRepository interface {
	Create(ctx context.Context, stadium *models.Stadium) error
	GetByID(ctx context.Context, id int) (*models.Stadium, error)
	List(ctx context.Context) ([]*models.Stadium, error)
	Update(ctx context.Context, stadium *models.Stadium) error
	Delete(ctx context.Context, id int) error
}

type postgresStadiumRepository struct {
	db *sql.DB
}

func NewPostgresStadiumRepository(db *sql.DB) StadiumRepository {
	return &postgresStadiumRepository{db: db}
}

func (r *postgresStadiumRepository) Create(ctx context.Context, stadium *models.Stadium) error {
	query := `
		INSERT INTO stadiums (name, city, capacity, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		stadium.Name, stadium.City, stadium.Capacity, stadium.Address,
	).Scan(&stadium.ID, &stadium.CreatedAt)
}

func (r *postgresStadiumRepository) GetByID(ctx context.Context, id int) (*models.Stadium, error) {
	query := `SELECT id, name, city, capacity, address, created_at FROM stadiums WHERE id = $1`

	stadium := &models.Stadium{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&stadium.ID, &stadium.Name, &stadium.City, &stadium.Capacity, &stadium.Address, &stadium.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStadiumNotFound
		}
		return nil, err
	}
	return stadium, nil
}

func (r *postgresStadiumRepository) List(ctx context.Context) ([]*models.Stadium, error) {
	query := `SELECT id, name, city, capacity, address, created_at FROM stadiums ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stadiums := make([]*models.Stadium, 0)
	for rows.Next() {
		var stadium models.Stadium
		if scanErr := rows.Scan(
			&stadium.ID, &stadium.Name, &stadium.City, &stadium.Capacity, &stadium.Address, &stadium.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		stadiums = append(stadiums, &stadium)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return stadiums, nil
}

func (r *postgresStadiumRepository) Update(ctx context.Context, stadium *models.Stadium) error {
	query := `UPDATE stadiums SET name = $1, city = $2, capacity = $3, address = $4 WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		stadium.Name, stadium.City, stadium.Capacity, stadium.Address, stadium.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStadiumNotFound)
}

func (r *postgresStadiumRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stadiums WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStadiumNotFound)
}
