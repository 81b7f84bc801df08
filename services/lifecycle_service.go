package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// StatusChangeOptions — необязательные детали перехода для журнала.
type StatusChangeOptions struct {
	Note    *string
	ActorID *int
}

type MatchLifecycleService interface {
	// ChangeStatus проверяет переход по таблице рёбер и предусловия целевого
	// статуса, пишет новый статус вместе со строкой журнала в одной транзакции
	// и возвращает обновлённый матч. При переходе в completed запускает
	// оркестрацию завершения; её ошибки логируются и не откатывают переход.
	ChangeStatus(ctx context.Context, matchID int, target models.MatchStatus, opts StatusChangeOptions) (*models.Match, error)

	// AssignOfficials допустим только для scheduled-матча; успешное назначение
	// автоматически переводит матч в preparing.
	AssignOfficials(ctx context.Context, matchID int, officials models.OfficialAssignments, assignedBy int) (*models.Match, error)

	// UpdateLineupStatus меняет статус заявки одной стороны. Если после этого
	// обе заявки approved и матч в preparing, матч переводится в ready.
	UpdateLineupStatus(ctx context.Context, matchID int, side models.MatchSide, status models.LineupStatus, reviewerID int, rejectionReason *string) (*models.Match, error)

	// MarkReportSubmitted выставляет флаг сданного рапорта. Когда сданы оба и
	// матч в finished, матч переводится в reported.
	MarkReportSubmitted(ctx context.Context, matchID int, role models.UserRole, actorID int) error

	History(ctx context.Context, matchID int) ([]*models.MatchStatusHistory, error)
}

// CompletionRunner — узкий контракт оркестратора завершения, от которого
// зависит машина состояний. Обратной зависимости нет: оркестратор про машину
// состояний ничего не знает.
type CompletionRunner interface {
	ProcessCompletion(ctx context.Context, matchID int) (*CompletionResult, error)
}

type matchLifecycleService struct {
	txManager   repositories.TxManager
	matchRepo   repositories.MatchRepository
	historyRepo repositories.MatchHistoryRepository
	teamRepo    repositories.TeamRepository
	completion  CompletionRunner
	notifier    NotificationGateway
	hub         LiveBroadcaster
	logger      *slog.Logger
}

func NewMatchLifecycleService(
	txManager repositories.TxManager,
	matchRepo repositories.MatchRepository,
	historyRepo repositories.MatchHistoryRepository,
	teamRepo repositories.TeamRepository,
	completion CompletionRunner,
	notifier NotificationGateway,
	hub LiveBroadcaster,
	logger *slog.Logger,
) MatchLifecycleService {
	return &matchLifecycleService{
		txManager:   txManager,
		matchRepo:   matchRepo,
		historyRepo: historyRepo,
		teamRepo:    teamRepo,
		completion:  completion,
		notifier:    notifier,
		hub:         hub,
		logger:      logger,
	}
}

func (s *matchLifecycleService) ChangeStatus(ctx context.Context, matchID int, target models.MatchStatus, opts StatusChangeOptions) (*models.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if !isAllowedMatchTransition(match.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidMatchTransition, match.Status, target)
	}

	if err := checkTransitionPreconditions(match, target); err != nil {
		return nil, err
	}

	from := match.Status
	err = s.txManager.WithinTx(ctx, func(tx repositories.SQLExecutor) error {
		// CAS по прочитанному статусу: второй конкурентный вызов, прошедший
		// проверку по тому же снимку, здесь получит ноль строк и откатится.
		if updErr := s.matchRepo.UpdateStatus(ctx, tx, matchID, from, target); updErr != nil {
			return updErr
		}
		entry := &models.MatchStatusHistory{
			MatchID:    matchID,
			FromStatus: from,
			ToStatus:   target,
			ActorID:    opts.ActorID,
			Note:       opts.Note,
		}
		return s.historyRepo.Create(ctx, tx, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to change match %d status to %s: %w", matchID, target, err)
	}

	refreshed, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}

	// Переход уже закоммичен: ошибки оркестрации завершения не откатывают
	// статус, оператор перезапускает пересчёт вручную.
	if target == models.MatchStatusCompleted && s.completion != nil {
		if result, procErr := s.completion.ProcessCompletion(ctx, matchID); procErr != nil {
			s.logger.Error("completion processing failed",
				slog.Int("match_id", matchID),
				slog.Any("error", procErr),
			)
		} else if !result.Success {
			s.logger.Warn("completion processing degraded",
				slog.Int("match_id", matchID),
				slog.Bool("standings_updated", result.StandingsUpdated),
				slog.Bool("disciplinary_updated", result.DisciplinaryUpdated),
				slog.Any("errors", result.Errors),
			)
		}
	}

	s.notifyStatusChange(ctx, refreshed, target)

	if s.hub != nil {
		s.hub.BroadcastToSeason(refreshed.SeasonID, "MATCH_STATUS_UPDATED", refreshed)
	}

	return refreshed, nil
}

func (s *matchLifecycleService) AssignOfficials(ctx context.Context, matchID int, officials models.OfficialAssignments, assignedBy int) (*models.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchStatusScheduled {
		return nil, fmt.Errorf("%w: current status %s", ErrOfficialsAssignNotAllowed, match.Status)
	}
	if officials.MainRefereeID <= 0 {
		return nil, fmt.Errorf("%w: main referee is required", ErrValidationFailed)
	}

	if err := s.matchRepo.UpdateOfficials(ctx, nil, matchID, officials); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to assign officials for match %d: %w", matchID, err)
	}

	s.notifyOfficials(ctx, matchID, officials)

	// Назначение бригады сразу двигает матч в подготовку.
	note := "officials assigned"
	return s.ChangeStatus(ctx, matchID, models.MatchStatusPreparing, StatusChangeOptions{
		Note:    &note,
		ActorID: &assignedBy,
	})
}

func (s *matchLifecycleService) UpdateLineupStatus(ctx context.Context, matchID int, side models.MatchSide, status models.LineupStatus, reviewerID int, rejectionReason *string) (*models.Match, error) {
	if status != models.LineupStatusApproved && status != models.LineupStatusRejected {
		return nil, ErrLineupStatusInvalid
	}
	if status == models.LineupStatusRejected && derefString(rejectionReason) == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrValidationFailed)
	}

	if _, err := s.getMatch(ctx, matchID); err != nil {
		return nil, err
	}

	if err := s.matchRepo.UpdateLineupStatus(ctx, nil, matchID, side, status); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to update %s lineup status for match %d: %w", side, matchID, err)
	}

	refreshed, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}

	s.notifyLineupReviewed(ctx, refreshed, side, status, rejectionReason)

	// Отклонение перехода не вызывает. Автопереход в ready возможен только
	// из preparing: обе заявки утверждены и бригада уже назначена.
	bothApproved := refreshed.HomeLineupStatus == models.LineupStatusApproved &&
		refreshed.AwayLineupStatus == models.LineupStatusApproved
	if bothApproved && refreshed.Status == models.MatchStatusPreparing {
		note := "both lineups approved"
		return s.ChangeStatus(ctx, matchID, models.MatchStatusReady, StatusChangeOptions{
			Note:    &note,
			ActorID: &reviewerID,
		})
	}

	return refreshed, nil
}

func (s *matchLifecycleService) MarkReportSubmitted(ctx context.Context, matchID int, role models.UserRole, actorID int) error {
	var supervisor bool
	switch role {
	case models.RoleReferee:
		supervisor = false
	case models.RoleSupervisor:
		supervisor = true
	default:
		return ErrReportRoleInvalid
	}

	if _, err := s.getMatch(ctx, matchID); err != nil {
		return err
	}

	if err := s.matchRepo.SetReportSubmitted(ctx, nil, matchID, supervisor); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to mark report submitted for match %d: %w", matchID, err)
	}

	refreshed, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return err
	}

	if refreshed.RefereeReportSubmitted && refreshed.SupervisorReportSubmitted &&
		refreshed.Status == models.MatchStatusFinished {
		note := "both reports submitted"
		if _, chErr := s.ChangeStatus(ctx, matchID, models.MatchStatusReported, StatusChangeOptions{
			Note:    &note,
			ActorID: &actorID,
		}); chErr != nil {
			return chErr
		}
	}
	return nil
}

func (s *matchLifecycleService) History(ctx context.Context, matchID int) ([]*models.MatchStatusHistory, error) {
	if _, err := s.getMatch(ctx, matchID); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByMatch(ctx, nil, matchID)
}

func (s *matchLifecycleService) getMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

// checkTransitionPreconditions проверяет дополнительные требования целевого
// статуса. Сама допустимость ребра проверяется отдельно.
func checkTransitionPreconditions(match *models.Match, target models.MatchStatus) error {
	switch target {
	case models.MatchStatusPreparing:
		if match.MainRefereeID == nil {
			return fmt.Errorf("%w: main referee must be assigned before preparing", ErrMatchPreconditionFailed)
		}
	case models.MatchStatusReady:
		if match.HomeLineupStatus != models.LineupStatusApproved {
			return fmt.Errorf("%w: home lineup must be approved before ready", ErrMatchPreconditionFailed)
		}
		if match.AwayLineupStatus != models.LineupStatusApproved {
			return fmt.Errorf("%w: away lineup must be approved before ready", ErrMatchPreconditionFailed)
		}
	case models.MatchStatusReported:
		if !match.RefereeReportSubmitted {
			return fmt.Errorf("%w: referee report must be submitted before reported", ErrMatchPreconditionFailed)
		}
		if !match.SupervisorReportSubmitted {
			return fmt.Errorf("%w: supervisor report must be submitted before reported", ErrMatchPreconditionFailed)
		}
	}
	return nil
}

// --- Уведомления. Всегда best-effort: шлюз сам глотает ошибки доставки. ---

var statusNotificationText = map[models.MatchStatus]struct {
	nType   models.NotificationType
	title   string
	message string
}{
	models.MatchStatusPreparing:  {models.NotificationMatchPreparing, "Подготовка матча", "Матч переведён в подготовку, назначена судейская бригада."},
	models.MatchStatusReady:      {models.NotificationMatchReady, "Матч готов", "Обе заявки утверждены, матч готов к проведению."},
	models.MatchStatusInProgress: {models.NotificationMatchStarted, "Матч начался", "Матч переведён в статус «идёт»."},
	models.MatchStatusFinished:   {models.NotificationMatchFinished, "Матч завершён", "Матч завершён, ожидаются рапорты судьи и инспектора."},
	models.MatchStatusReported:   {models.NotificationMatchReported, "Рапорты сданы", "Оба рапорта сданы, матч ожидает подтверждения."},
	models.MatchStatusCompleted:  {models.NotificationMatchCompleted, "Матч подтверждён", "Результат матча подтверждён, таблица и дисквалификации пересчитаны."},
	models.MatchStatusScheduled:  {models.NotificationMatchRescheduled, "Матч возвращён в расписание", "Матч возвращён в статус «запланирован»."},
}

func (s *matchLifecycleService) notifyStatusChange(ctx context.Context, match *models.Match, target models.MatchStatus) {
	text, ok := statusNotificationText[target]
	if !ok || s.notifier == nil {
		return
	}

	recipients := make([]int, 0, 4)
	if match.MainRefereeID != nil {
		recipients = append(recipients, *match.MainRefereeID)
	}
	if match.SupervisorID != nil {
		recipients = append(recipients, *match.SupervisorID)
	}
	recipients = append(recipients, s.teamManagerIDs(ctx, match)...)

	for _, userID := range recipients {
		s.notifier.Notify(ctx, NotificationInput{
			UserID:            userID,
			Type:              text.nType,
			Title:             text.title,
			Message:           text.message,
			RelatedEntityKind: "match",
			RelatedEntityID:   match.ID,
		})
	}
}

func (s *matchLifecycleService) notifyOfficials(ctx context.Context, matchID int, officials models.OfficialAssignments) {
	if s.notifier == nil {
		return
	}
	ids := []int{officials.MainRefereeID}
	for _, optional := range []*int{officials.AssistantOneID, officials.AssistantTwoID, officials.FourthOfficialID, officials.SupervisorID} {
		if optional != nil {
			ids = append(ids, *optional)
		}
	}
	for _, userID := range ids {
		s.notifier.Notify(ctx, NotificationInput{
			UserID:            userID,
			Type:              models.NotificationOfficialAssignment,
			Title:             "Назначение на матч",
			Message:           "Вы назначены на матч.",
			RelatedEntityKind: "match",
			RelatedEntityID:   matchID,
		})
	}
}

func (s *matchLifecycleService) notifyLineupReviewed(ctx context.Context, match *models.Match, side models.MatchSide, status models.LineupStatus, rejectionReason *string) {
	if s.notifier == nil {
		return
	}

	seasonTeamID := match.HomeTeamID
	if side == models.MatchSideAway {
		seasonTeamID = match.AwayTeamID
	}
	managerID := s.teamManagerID(ctx, seasonTeamID)
	if managerID == 0 {
		return
	}

	message := "Заявка на матч утверждена."
	if status == models.LineupStatusRejected {
		message = "Заявка на матч отклонена: " + derefString(rejectionReason)
	}
	s.notifier.Notify(ctx, NotificationInput{
		UserID:            managerID,
		Type:              models.NotificationLineupReviewed,
		Title:             "Проверка заявки",
		Message:           message,
		RelatedEntityKind: "match",
		RelatedEntityID:   match.ID,
	})
}

func (s *matchLifecycleService) teamManagerIDs(ctx context.Context, match *models.Match) []int {
	ids := make([]int, 0, 2)
	for _, seasonTeamID := range []int{match.HomeTeamID, match.AwayTeamID} {
		if id := s.teamManagerID(ctx, seasonTeamID); id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *matchLifecycleService) teamManagerID(ctx context.Context, seasonTeamID int) int {
	seasonTeam, err := s.teamRepo.GetSeasonTeamByID(ctx, seasonTeamID)
	if err != nil {
		s.logger.Warn("failed to load season team for notification",
			slog.Int("season_team_id", seasonTeamID),
			slog.Any("error", err),
		)
		return 0
	}
	if seasonTeam.Team == nil || seasonTeam.Team.ManagerID == nil {
		return 0
	}
	return *seasonTeam.Team.ManagerID
}
