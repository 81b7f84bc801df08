package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchSeasonInvalid  = errors.New("match season conflict or invalid")
	ErrMatchTeamInvalid    = errors.New("match team conflict or invalid")
	ErrMatchStadiumInvalid = errors.New("match stadium conflict or invalid")
	// Статус изменился между чтением и записью (CAS по старому статусу).
	ErrMatchStatusConflict = errors.New("match status was changed concurrently")
)

const matchColumns = `
	id, season_id, round, home_team_id, away_team_id, stadium_id, kickoff, status,
	main_referee_id, assistant_one_id, assistant_two_id, fourth_official_id, supervisor_id,
	home_lineup_status, away_lineup_status,
	referee_report_submitted, supervisor_report_submitted,
	home_score, away_score, created_at`

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int, round *int, status *models.MatchStatus) ([]*models.Match, error)
	ListCompletedWithScores(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.Match, error)
	// UpdateStatus выполняет compare-and-set по предыдущему статусу:
	// ноль затронутых строк означает гонку двух вызовов changeStatus.
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, from, to models.MatchStatus) error
	UpdateOfficials(ctx context.Context, exec SQLExecutor, id int, officials models.OfficialAssignments) error
	UpdateLineupStatus(ctx context.Context, exec SQLExecutor, id int, side models.MatchSide, status models.LineupStatus) error
	SetReportSubmitted(ctx context.Context, exec SQLExecutor, id int, supervisor bool) error
	UpdateScore(ctx context.Context, exec SQLExecutor, id int, homeScore, awayScore int) error
	// FindNextForTeam ищет хронологически ближайший матч команды после
	// указанного матча со статусом scheduled или in_progress.
	FindNextForTeam(ctx context.Context, exec SQLExecutor, seasonID, seasonTeamID, afterMatchID int) (*models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(season_id, round, home_team_id, away_team_id, stadium_id, kickoff, status,
			 home_lineup_status, away_lineup_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	if match.Status == "" {
		match.Status = models.MatchStatusScheduled
	}
	if match.HomeLineupStatus == "" {
		match.HomeLineupStatus = models.LineupStatusPending
	}
	if match.AwayLineupStatus == "" {
		match.AwayLineupStatus = models.LineupStatusPending
	}

	err := executor.QueryRowContext(ctx, query,
		match.SeasonID,
		match.Round,
		match.HomeTeamID,
		match.AwayTeamID,
		match.StadiumID,
		match.Kickoff,
		match.Status,
		match.HomeLineupStatus,
		match.AwayLineupStatus,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	match := &models.Match{}
	err := rowScanner.Scan(
		&match.ID,
		&match.SeasonID,
		&match.Round,
		&match.HomeTeamID,
		&match.AwayTeamID,
		&match.StadiumID,
		&match.Kickoff,
		&match.Status,
		&match.MainRefereeID,
		&match.AssistantOneID,
		&match.AssistantTwoID,
		&match.FourthOfficialID,
		&match.SupervisorID,
		&match.HomeLineupStatus,
		&match.AwayLineupStatus,
		&match.RefereeReportSubmitted,
		&match.SupervisorReportSubmitted,
		&match.HomeScore,
		&match.AwayScore,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int, roundFilter *int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	executor := r.getExecutor(exec)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE season_id = $1`)

	args := []interface{}{seasonID}
	placeholderIndex := 2

	if roundFilter != nil {
		queryBuilder.WriteString(" AND round = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *roundFilter)
		placeholderIndex++
	}

	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *statusFilter)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY round ASC, kickoff ASC")

	rows, err := executor.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectMatches(rows)
}

func (r *postgresMatchRepository) ListCompletedWithScores(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE season_id = $1
		  AND status = $2
		  AND home_score IS NOT NULL
		  AND away_score IS NOT NULL
		ORDER BY kickoff ASC`

	rows, err := executor.QueryContext(ctx, query, seasonID, models.MatchStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectMatches(rows)
}

func (r *postgresMatchRepository) collectMatches(rows *sql.Rows) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, from, to models.MatchStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET status = $1 WHERE id = $2 AND status = $3`

	result, err := executor.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// Либо матча нет, либо его статус уже не from. Различаем отдельным чтением.
		if _, getErr := r.GetByID(ctx, executor, id); getErr != nil {
			return getErr
		}
		return ErrMatchStatusConflict
	}
	return nil
}

func (r *postgresMatchRepository) UpdateOfficials(ctx context.Context, exec SQLExecutor, id int, officials models.OfficialAssignments) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches SET
			main_referee_id = $1,
			assistant_one_id = $2,
			assistant_two_id = $3,
			fourth_official_id = $4,
			supervisor_id = $5
		WHERE id = $6`

	result, err := executor.ExecContext(ctx, query,
		officials.MainRefereeID,
		officials.AssistantOneID,
		officials.AssistantTwoID,
		officials.FourthOfficialID,
		officials.SupervisorID,
		id,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateLineupStatus(ctx context.Context, exec SQLExecutor, id int, side models.MatchSide, status models.LineupStatus) error {
	executor := r.getExecutor(exec)

	column := "home_lineup_status"
	if side == models.MatchSideAway {
		column = "away_lineup_status"
	}
	query := `UPDATE matches SET ` + column + ` = $1 WHERE id = $2`

	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetReportSubmitted(ctx context.Context, exec SQLExecutor, id int, supervisor bool) error {
	executor := r.getExecutor(exec)

	column := "referee_report_submitted"
	if supervisor {
		column = "supervisor_report_submitted"
	}
	query := `UPDATE matches SET ` + column + ` = TRUE WHERE id = $1`

	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateScore(ctx context.Context, exec SQLExecutor, id int, homeScore, awayScore int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET home_score = $1, away_score = $2 WHERE id = $3`

	result, err := executor.ExecContext(ctx, query, homeScore, awayScore, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) FindNextForTeam(ctx context.Context, exec SQLExecutor, seasonID, seasonTeamID, afterMatchID int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE season_id = $1
		  AND (home_team_id = $2 OR away_team_id = $2)
		  AND status IN ($3, $4)
		  AND kickoff > (SELECT kickoff FROM matches WHERE id = $5)
		ORDER BY kickoff ASC
		LIMIT 1`

	return r.scanMatch(executor.QueryRowContext(ctx, query,
		seasonID,
		seasonTeamID,
		models.MatchStatusScheduled,
		models.MatchStatusInProgress,
		afterMatchID,
	))
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" { // foreign_key_violation
			switch pqErr.Constraint {
			case "matches_season_id_fkey":
				return ErrMatchSeasonInvalid
			case "matches_home_team_id_fkey", "matches_away_team_id_fkey":
				return ErrMatchTeamInvalid
			case "matches_stadium_id_fkey":
				return ErrMatchStadiumInvalid
			}
		}
	}
	return err
}
