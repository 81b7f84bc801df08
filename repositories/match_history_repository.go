package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var ErrMatchHistoryMatchInvalid = errors.New("match history match conflict or invalid")

type MatchHistoryRepository interface {
	Create(ctx context.Context, exec SQLExecutor, entry *models.MatchStatusHistory) error
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.MatchStatusHistory, error)
}

type postgresMatchHistoryRepository struct {
	db *sql.DB
}

func NewPostgresMatchHistoryRepository(db *sql.DB) MatchHistoryRepository {
	return &postgresMatchHistoryRepository{db: db}
}

func (r *postgresMatchHistoryRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchHistoryRepository) Create(ctx context.Context, exec SQLExecutor, entry *models.MatchStatusHistory) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_status_history (match_id, from_status, to_status, actor_id, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		entry.MatchID,
		entry.FromStatus,
		entry.ToStatus,
		entry.ActorID,
		entry.Note,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" && pqErr.Constraint == "match_status_history_match_id_fkey" {
			return ErrMatchHistoryMatchInvalid
		}
		return err
	}
	return nil
}

func (r *postgresMatchHistoryRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.MatchStatusHistory, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, match_id, from_status, to_status, actor_id, note, created_at
		FROM match_status_history
		WHERE match_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := executor.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.MatchStatusHistory, 0)
	for rows.Next() {
		var entry models.MatchStatusHistory
		if scanErr := rows.Scan(
			&entry.ID,
			&entry.MatchID,
			&entry.FromStatus,
			&entry.ToStatus,
			&entry.ActorID,
			&entry.Note,
			&entry.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, &entry)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
