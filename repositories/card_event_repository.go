package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrCardEventNotFound      = errors.New("card event not found")
	ErrCardEventMatchInvalid  = errors.New("card event match conflict or invalid")
	ErrCardEventPlayerInvalid = errors.New("card event player conflict or invalid")
)

type CardEventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, event *models.CardEvent) error
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.CardEvent, error)
	// AggregateSeasonCandidates сворачивает карточки завершённых матчей сезона
	// по паре (игрок, команда) и возвращает только кандидатов на дисквалификацию:
	// есть удаление либо набрано две и более жёлтых.
	AggregateSeasonCandidates(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.CardAggregate, error)
}

type postgresCardEventRepository struct {
	db *sql.DB
}

func NewPostgresCardEventRepository(db *sql.DB) CardEventRepository {
	return &postgresCardEventRepository{db: db}
}

func (r *postgresCardEventRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresCardEventRepository) Create(ctx context.Context, exec SQLExecutor, event *models.CardEvent) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO card_events (season_id, match_id, player_id, team_id, type, minute)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		event.SeasonID,
		event.MatchID,
		event.PlayerID,
		event.TeamID,
		event.Type,
		event.Minute,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "card_events_match_id_fkey":
				return ErrCardEventMatchInvalid
			case "card_events_player_id_fkey", "card_events_team_id_fkey":
				return ErrCardEventPlayerInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresCardEventRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.CardEvent, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, season_id, match_id, player_id, team_id, type, minute, created_at
		FROM card_events
		WHERE match_id = $1
		ORDER BY minute ASC, id ASC`

	rows, err := executor.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*models.CardEvent, 0)
	for rows.Next() {
		var event models.CardEvent
		if scanErr := rows.Scan(
			&event.ID,
			&event.SeasonID,
			&event.MatchID,
			&event.PlayerID,
			&event.TeamID,
			&event.Type,
			&event.Minute,
			&event.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		events = append(events, &event)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *postgresCardEventRepository) AggregateSeasonCandidates(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.CardAggregate, error) {
	executor := r.getExecutor(exec)

	// Вторая жёлтая считается удалением, а не жёлтой: она уже стоила игроку
	// красной в том же матче. "Последний" матч определяется по времени начала,
	// а не по id.
	query := `
		SELECT
			ce.player_id,
			ce.team_id,
			COUNT(*) FILTER (WHERE ce.type = 'yellow') AS yellow_count,
			COUNT(*) FILTER (WHERE ce.type IN ('red', 'second_yellow')) AS red_count,
			(ARRAY_AGG(ce.match_id ORDER BY m.kickoff DESC, ce.id DESC)
				FILTER (WHERE ce.type = 'yellow'))[1] AS last_yellow_match_id,
			(ARRAY_AGG(ce.match_id ORDER BY m.kickoff DESC, ce.id DESC)
				FILTER (WHERE ce.type IN ('red', 'second_yellow')))[1] AS last_red_match_id
		FROM card_events ce
		JOIN matches m ON m.id = ce.match_id
		WHERE ce.season_id = $1
		  AND m.status = $2
		GROUP BY ce.player_id, ce.team_id
		HAVING COUNT(*) FILTER (WHERE ce.type IN ('red', 'second_yellow')) >= 1
		    OR COUNT(*) FILTER (WHERE ce.type = 'yellow') >= 2
		ORDER BY ce.player_id ASC, ce.team_id ASC`

	rows, err := executor.QueryContext(ctx, query, seasonID, models.MatchStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	aggregates := make([]*models.CardAggregate, 0)
	for rows.Next() {
		var agg models.CardAggregate
		if scanErr := rows.Scan(
			&agg.PlayerID,
			&agg.TeamID,
			&agg.YellowCount,
			&agg.RedCount,
			&agg.LastYellowMatchID,
			&agg.LastRedMatchID,
		); scanErr != nil {
			return nil, scanErr
		}
		aggregates = append(aggregates, &agg)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return aggregates, nil
}
