package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrSuspensionNotFound      = errors.New("suspension not found")
	ErrSuspensionPlayerInvalid = errors.New("suspension player conflict or invalid")
	ErrSuspensionMatchInvalid  = errors.New("suspension match conflict or invalid")
)

// Класс advisory-блокировок пересчёта дисквалификаций. Вторым ключом идёт
// season_id, так что пересчёты разных сезонов друг другу не мешают.
const disciplinaryLockClass = 7401

type SuspensionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, suspension *models.Suspension) error
	// ArchiveBySeason переводит все active/served дисквалификации сезона в archived.
	// Отсутствие строк не является ошибкой.
	ArchiveBySeason(ctx context.Context, exec SQLExecutor, seasonID int) (int, error)
	ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int, status *models.SuspensionStatus) ([]*models.Suspension, error)
	MarkServed(ctx context.Context, exec SQLExecutor, id int) error
	// AcquireSeasonLock берёт транзакционную advisory-блокировку на сезон.
	// Postgres по умолчанию даёт read committed, поэтому два одновременных
	// пересчёта одного сезона без неё заархивировали бы строки друг друга.
	AcquireSeasonLock(ctx context.Context, exec SQLExecutor, seasonID int) error
}

type postgresSuspensionRepository struct {
	db *sql.DB
}

func NewPostgresSuspensionRepository(db *sql.DB) SuspensionRepository {
	return &postgresSuspensionRepository{db: db}
}

func (r *postgresSuspensionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresSuspensionRepository) Create(ctx context.Context, exec SQLExecutor, suspension *models.Suspension) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO suspensions
			(season_id, player_id, team_id, reason, trigger_match_id, matches_banned,
			 start_match_id, served_matches, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	if suspension.Status == "" {
		suspension.Status = models.SuspensionStatusActive
	}

	err := executor.QueryRowContext(ctx, query,
		suspension.SeasonID,
		suspension.PlayerID,
		suspension.TeamID,
		suspension.Reason,
		suspension.TriggerMatchID,
		suspension.MatchesBanned,
		suspension.StartMatchID,
		suspension.ServedMatches,
		suspension.Status,
	).Scan(&suspension.ID, &suspension.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "suspensions_player_id_fkey", "suspensions_team_id_fkey":
				return ErrSuspensionPlayerInvalid
			case "suspensions_trigger_match_id_fkey", "suspensions_start_match_id_fkey":
				return ErrSuspensionMatchInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresSuspensionRepository) ArchiveBySeason(ctx context.Context, exec SQLExecutor, seasonID int) (int, error) {
	executor := r.getExecutor(exec)
	query := `
		UPDATE suspensions
		SET status = $1
		WHERE season_id = $2 AND status IN ($3, $4)`

	result, err := executor.ExecContext(ctx, query,
		models.SuspensionStatusArchived,
		seasonID,
		models.SuspensionStatusActive,
		models.SuspensionStatusServed,
	)
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rowsAffected), nil
}

func (r *postgresSuspensionRepository) ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int, statusFilter *models.SuspensionStatus) ([]*models.Suspension, error) {
	executor := r.getExecutor(exec)

	query := `
		SELECT id, season_id, player_id, team_id, reason, trigger_match_id, matches_banned,
		       start_match_id, served_matches, status, created_at
		FROM suspensions
		WHERE season_id = $1`
	args := []interface{}{seasonID}

	if statusFilter != nil {
		query += " AND status = $2"
		args = append(args, *statusFilter)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suspensions := make([]*models.Suspension, 0)
	for rows.Next() {
		var s models.Suspension
		if scanErr := rows.Scan(
			&s.ID,
			&s.SeasonID,
			&s.PlayerID,
			&s.TeamID,
			&s.Reason,
			&s.TriggerMatchID,
			&s.MatchesBanned,
			&s.StartMatchID,
			&s.ServedMatches,
			&s.Status,
			&s.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		suspensions = append(suspensions, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return suspensions, nil
}

func (r *postgresSuspensionRepository) MarkServed(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE suspensions
		SET status = $1, served_matches = matches_banned
		WHERE id = $2 AND status = $3`

	result, err := executor.ExecContext(ctx, query,
		models.SuspensionStatusServed,
		id,
		models.SuspensionStatusActive,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSuspensionNotFound)
}

func (r *postgresSuspensionRepository) AcquireSeasonLock(ctx context.Context, exec SQLExecutor, seasonID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, disciplinaryLockClass, seasonID)
	return err
}
