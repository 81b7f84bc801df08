package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// Общие заглушки репозиториев для тестов сервисного слоя. Поведение задаётся
// функциональными полями; не заданное поле означает "вызов не ожидался".

var errUnexpectedCall = errors.New("unexpected repository call in test")

type stubResult struct{}

func (stubResult) LastInsertId() (int64, error) { return 1, nil }
func (stubResult) RowsAffected() (int64, error) { return 1, nil }

// recordingExecutor пишет все выполненные команды, чтобы тесты могли проверить
// работу с savepoint.
type recordingExecutor struct {
	log *[]string
}

func (e *recordingExecutor) ExecContext(_ context.Context, query string, _ ...interface{}) (sql.Result, error) {
	if e.log != nil {
		*e.log = append(*e.log, query)
	}
	return stubResult{}, nil
}

func (e *recordingExecutor) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errUnexpectedCall
}

func (e *recordingExecutor) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (e *recordingExecutor) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, errUnexpectedCall
}

// stubTxManager выполняет замыкание без настоящей транзакции.
type stubTxManager struct {
	beginErr error
	execLog  []string
}

func (m *stubTxManager) WithinTx(_ context.Context, fn func(tx repositories.SQLExecutor) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	return fn(&recordingExecutor{log: &m.execLog})
}

type stubMatchRepo struct {
	create          func(match *models.Match) error
	getByID         func(id int) (*models.Match, error)
	listBySeason    func(seasonID int, round *int, status *models.MatchStatus) ([]*models.Match, error)
	listCompleted   func(seasonID int) ([]*models.Match, error)
	updateStatus    func(id int, from, to models.MatchStatus) error
	updateOfficials func(id int, officials models.OfficialAssignments) error
	updateLineup    func(id int, side models.MatchSide, status models.LineupStatus) error
	setReport       func(id int, supervisor bool) error
	updateScore     func(id, homeScore, awayScore int) error
	findNext        func(seasonID, seasonTeamID, afterMatchID int) (*models.Match, error)
}

func (r *stubMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	if r.create == nil {
		return errUnexpectedCall
	}
	return r.create(match)
}

func (r *stubMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	if r.getByID == nil {
		return nil, errUnexpectedCall
	}
	return r.getByID(id)
}

func (r *stubMatchRepo) ListBySeason(_ context.Context, _ repositories.SQLExecutor, seasonID int, round *int, status *models.MatchStatus) ([]*models.Match, error) {
	if r.listBySeason == nil {
		return nil, errUnexpectedCall
	}
	return r.listBySeason(seasonID, round, status)
}

func (r *stubMatchRepo) ListCompletedWithScores(_ context.Context, _ repositories.SQLExecutor, seasonID int) ([]*models.Match, error) {
	if r.listCompleted == nil {
		return nil, errUnexpectedCall
	}
	return r.listCompleted(seasonID)
}

func (r *stubMatchRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, from, to models.MatchStatus) error {
	if r.updateStatus == nil {
		return errUnexpectedCall
	}
	return r.updateStatus(id, from, to)
}

func (r *stubMatchRepo) UpdateOfficials(_ context.Context, _ repositories.SQLExecutor, id int, officials models.OfficialAssignments) error {
	if r.updateOfficials == nil {
		return errUnexpectedCall
	}
	return r.updateOfficials(id, officials)
}

func (r *stubMatchRepo) UpdateLineupStatus(_ context.Context, _ repositories.SQLExecutor, id int, side models.MatchSide, status models.LineupStatus) error {
	if r.updateLineup == nil {
		return errUnexpectedCall
	}
	return r.updateLineup(id, side, status)
}

func (r *stubMatchRepo) SetReportSubmitted(_ context.Context, _ repositories.SQLExecutor, id int, supervisor bool) error {
	if r.setReport == nil {
		return errUnexpectedCall
	}
	return r.setReport(id, supervisor)
}

func (r *stubMatchRepo) UpdateScore(_ context.Context, _ repositories.SQLExecutor, id, homeScore, awayScore int) error {
	if r.updateScore == nil {
		return errUnexpectedCall
	}
	return r.updateScore(id, homeScore, awayScore)
}

func (r *stubMatchRepo) FindNextForTeam(_ context.Context, _ repositories.SQLExecutor, seasonID, seasonTeamID, afterMatchID int) (*models.Match, error) {
	if r.findNext == nil {
		return nil, repositories.ErrMatchNotFound
	}
	return r.findNext(seasonID, seasonTeamID, afterMatchID)
}

type stubHistoryRepo struct {
	entries []*models.MatchStatusHistory
	err     error
}

func (r *stubHistoryRepo) Create(_ context.Context, _ repositories.SQLExecutor, entry *models.MatchStatusHistory) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *stubHistoryRepo) ListByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) ([]*models.MatchStatusHistory, error) {
	out := make([]*models.MatchStatusHistory, 0, len(r.entries))
	for _, entry := range r.entries {
		if entry.MatchID == matchID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type stubTeamRepo struct {
	getSeasonTeam   func(id int) (*models.SeasonTeam, error)
	listSeasonTeams func(seasonID int) ([]*models.SeasonTeam, error)
}

func (r *stubTeamRepo) Create(context.Context, *models.Team) error { return errUnexpectedCall }
func (r *stubTeamRepo) GetByID(context.Context, int) (*models.Team, error) {
	return nil, errUnexpectedCall
}
func (r *stubTeamRepo) List(context.Context) ([]*models.Team, error) { return nil, errUnexpectedCall }
func (r *stubTeamRepo) Update(context.Context, *models.Team) error   { return errUnexpectedCall }
func (r *stubTeamRepo) UpdateLogoKey(context.Context, int, *string) error {
	return errUnexpectedCall
}
func (r *stubTeamRepo) Delete(context.Context, int) error { return errUnexpectedCall }
func (r *stubTeamRepo) RegisterForSeason(context.Context, *models.SeasonTeam) error {
	return errUnexpectedCall
}

func (r *stubTeamRepo) GetSeasonTeamByID(_ context.Context, id int) (*models.SeasonTeam, error) {
	if r.getSeasonTeam == nil {
		return nil, repositories.ErrSeasonTeamNotFound
	}
	return r.getSeasonTeam(id)
}

func (r *stubTeamRepo) ListSeasonTeams(_ context.Context, seasonID int) ([]*models.SeasonTeam, error) {
	if r.listSeasonTeams == nil {
		return nil, errUnexpectedCall
	}
	return r.listSeasonTeams(seasonID)
}

type stubSeasonRepo struct {
	getByID func(id int) (*models.Season, error)
}

func (r *stubSeasonRepo) Create(context.Context, *models.Season) error { return errUnexpectedCall }

func (r *stubSeasonRepo) GetByID(_ context.Context, id int) (*models.Season, error) {
	if r.getByID == nil {
		return &models.Season{ID: id, Status: models.SeasonStatusActive}, nil
	}
	return r.getByID(id)
}

func (r *stubSeasonRepo) List(context.Context) ([]*models.Season, error) {
	return nil, errUnexpectedCall
}
func (r *stubSeasonRepo) UpdateStatus(context.Context, int, models.SeasonStatus) error {
	return errUnexpectedCall
}
func (r *stubSeasonRepo) Delete(context.Context, int) error { return errUnexpectedCall }

type stubCardEventRepo struct {
	aggregate func(seasonID int) ([]*models.CardAggregate, error)
	create    func(event *models.CardEvent) error
}

func (r *stubCardEventRepo) Create(_ context.Context, _ repositories.SQLExecutor, event *models.CardEvent) error {
	if r.create == nil {
		return errUnexpectedCall
	}
	return r.create(event)
}

func (r *stubCardEventRepo) ListByMatch(context.Context, repositories.SQLExecutor, int) ([]*models.CardEvent, error) {
	return nil, errUnexpectedCall
}

func (r *stubCardEventRepo) AggregateSeasonCandidates(_ context.Context, _ repositories.SQLExecutor, seasonID int) ([]*models.CardAggregate, error) {
	if r.aggregate == nil {
		return nil, errUnexpectedCall
	}
	return r.aggregate(seasonID)
}

type stubSuspensionRepo struct {
	created  []*models.Suspension
	createFn func(suspension *models.Suspension) error
	archived int
	archErr  error
	listFn   func(seasonID int, status *models.SuspensionStatus) ([]*models.Suspension, error)
	servedFn func(id int) error
	lockErr  error
	locks    int
}

func (r *stubSuspensionRepo) Create(_ context.Context, _ repositories.SQLExecutor, suspension *models.Suspension) error {
	if r.createFn != nil {
		if err := r.createFn(suspension); err != nil {
			return err
		}
	}
	r.created = append(r.created, suspension)
	return nil
}

func (r *stubSuspensionRepo) ArchiveBySeason(_ context.Context, _ repositories.SQLExecutor, _ int) (int, error) {
	if r.archErr != nil {
		return 0, r.archErr
	}
	return r.archived, nil
}

func (r *stubSuspensionRepo) ListBySeason(_ context.Context, _ repositories.SQLExecutor, seasonID int, status *models.SuspensionStatus) ([]*models.Suspension, error) {
	if r.listFn == nil {
		return nil, errUnexpectedCall
	}
	return r.listFn(seasonID, status)
}

func (r *stubSuspensionRepo) MarkServed(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if r.servedFn == nil {
		return errUnexpectedCall
	}
	return r.servedFn(id)
}

func (r *stubSuspensionRepo) AcquireSeasonLock(_ context.Context, _ repositories.SQLExecutor, _ int) error {
	r.locks++
	return r.lockErr
}

type stubStandingRepo struct {
	created   []*models.SeasonStanding
	createErr func(standing *models.SeasonStanding) error
	deleted   int
	deleteErr error
	listFn    func(seasonID int, sortByRank bool) ([]*models.SeasonStanding, error)
	repairs   int
	repairErr error
}

func (r *stubStandingRepo) Create(_ context.Context, _ repositories.SQLExecutor, standing *models.SeasonStanding) error {
	if r.createErr != nil {
		if err := r.createErr(standing); err != nil {
			return err
		}
	}
	r.created = append(r.created, standing)
	return nil
}

func (r *stubStandingRepo) GetBySeasonAndTeam(context.Context, repositories.SQLExecutor, int, int) (*models.SeasonStanding, error) {
	return nil, errUnexpectedCall
}

func (r *stubStandingRepo) GetOrCreate(context.Context, repositories.SQLExecutor, int, int) (*models.SeasonStanding, error) {
	return nil, errUnexpectedCall
}

func (r *stubStandingRepo) Update(context.Context, repositories.SQLExecutor, *models.SeasonStanding) error {
	return errUnexpectedCall
}

func (r *stubStandingRepo) ListBySeason(_ context.Context, _ repositories.SQLExecutor, seasonID int, sortByRank bool) ([]*models.SeasonStanding, error) {
	if r.listFn == nil {
		return nil, errUnexpectedCall
	}
	return r.listFn(seasonID, sortByRank)
}

func (r *stubStandingRepo) DeleteBySeasonID(_ context.Context, _ repositories.SQLExecutor, _ int) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted++
	return nil
}

func (r *stubStandingRepo) RepairGoalDifference(_ context.Context, _ repositories.SQLExecutor, _ int) error {
	r.repairs++
	return r.repairErr
}

// --- Заглушки контрактов сервисного слоя ---

type stubNotifier struct {
	sent []NotificationInput
}

func (n *stubNotifier) Notify(_ context.Context, input NotificationInput) {
	n.sent = append(n.sent, input)
}

type stubBroadcaster struct {
	events []string
}

func (b *stubBroadcaster) BroadcastToSeason(_ int, messageType string, _ interface{}) {
	b.events = append(b.events, messageType)
}

type stubCompletionRunner struct {
	calls  int
	result *CompletionResult
	err    error
}

func (c *stubCompletionRunner) ProcessCompletion(context.Context, int) (*CompletionResult, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	if c.result != nil {
		return c.result, nil
	}
	return &CompletionResult{Success: true, StandingsUpdated: true, DisciplinaryUpdated: true, Errors: []string{}}, nil
}

type stubStandingsCalculator struct {
	calls int
	err   error
}

func (s *stubStandingsCalculator) Recompute(context.Context, int) error {
	s.calls++
	return s.err
}

type stubDisciplinary struct {
	calls  int
	result *DisciplinaryRecalcResult
	err    error
}

func (d *stubDisciplinary) Recalculate(context.Context, int) (*DisciplinaryRecalcResult, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	if d.result != nil {
		return d.result, nil
	}
	return &DisciplinaryRecalcResult{Errors: []string{}}, nil
}

func (d *stubDisciplinary) ListSeasonSuspensions(context.Context, int, *models.SuspensionStatus) ([]*models.Suspension, error) {
	return nil, errUnexpectedCall
}

func (d *stubDisciplinary) MarkSuspensionServed(context.Context, int) error {
	return errUnexpectedCall
}
