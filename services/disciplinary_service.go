package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// DisciplinaryRecalcResult — итог одного пересчёта дисквалификаций сезона.
// Errors заполняется по кандидатам, не прошедшим вставку: один сбойный
// кандидат не отменяет ни транзакцию, ни остальных.
type DisciplinaryRecalcResult struct {
	Archived int      `json:"archived"`
	Created  int      `json:"created"`
	Errors   []string `json:"errors"`
}

type DisciplinaryService interface {
	// Recalculate полностью перестраивает набор дисквалификаций сезона по
	// текущим карточкам завершённых матчей внутри одной транзакции:
	// архив старых -> свёртка карточек -> последовательная вставка новых.
	// Повторный запуск при неизменных карточках даёт тот же активный набор.
	Recalculate(ctx context.Context, seasonID int) (*DisciplinaryRecalcResult, error)
	ListSeasonSuspensions(ctx context.Context, seasonID int, status *models.SuspensionStatus) ([]*models.Suspension, error)
	// MarkSuspensionServed закрывает активную дисквалификацию вручную.
	MarkSuspensionServed(ctx context.Context, suspensionID int) error
}

type disciplinaryService struct {
	txManager      repositories.TxManager
	seasonRepo     repositories.SeasonRepository
	matchRepo      repositories.MatchRepository
	cardEventRepo  repositories.CardEventRepository
	suspensionRepo repositories.SuspensionRepository
	hub            LiveBroadcaster
	logger         *slog.Logger
}

func NewDisciplinaryService(
	txManager repositories.TxManager,
	seasonRepo repositories.SeasonRepository,
	matchRepo repositories.MatchRepository,
	cardEventRepo repositories.CardEventRepository,
	suspensionRepo repositories.SuspensionRepository,
	hub LiveBroadcaster,
	logger *slog.Logger,
) DisciplinaryService {
	return &disciplinaryService{
		txManager:      txManager,
		seasonRepo:     seasonRepo,
		matchRepo:      matchRepo,
		cardEventRepo:  cardEventRepo,
		suspensionRepo: suspensionRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *disciplinaryService) Recalculate(ctx context.Context, seasonID int) (*DisciplinaryRecalcResult, error) {
	if _, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}

	result := &DisciplinaryRecalcResult{Errors: []string{}}

	err := s.txManager.WithinTx(ctx, func(tx repositories.SQLExecutor) error {
		// Advisory-блокировка сезона: два конкурентных пересчёта иначе
		// заархивировали бы свежесозданные строки друг друга.
		if lockErr := s.suspensionRepo.AcquireSeasonLock(ctx, tx, seasonID); lockErr != nil {
			return fmt.Errorf("failed to acquire season lock: %w", lockErr)
		}

		archived, archiveErr := s.suspensionRepo.ArchiveBySeason(ctx, tx, seasonID)
		if archiveErr != nil {
			return fmt.Errorf("failed to archive season suspensions: %w", archiveErr)
		}
		result.Archived = archived

		candidates, aggErr := s.cardEventRepo.AggregateSeasonCandidates(ctx, tx, seasonID)
		if aggErr != nil {
			return fmt.Errorf("failed to aggregate season card events: %w", aggErr)
		}

		// Кандидаты обрабатываются строго последовательно: проверка "красная
		// уже выписана в этом проходе" должна видеть предыдущие вставки.
		redCardedPlayers := make(map[int]bool)

		for _, candidate := range candidates {
			if candidate.RedCount >= 1 && candidate.LastRedMatchID != nil {
				createErr := s.createSuspension(ctx, tx, seasonID, candidate,
					models.SuspensionReasonRedCard, *candidate.LastRedMatchID)
				if createErr != nil {
					result.Errors = append(result.Errors,
						fmt.Sprintf("player %d: red card suspension: %v", candidate.PlayerID, createErr))
				} else {
					result.Created++
					redCardedPlayers[candidate.PlayerID] = true
				}
			}

			if candidate.YellowCount >= 2 && candidate.LastYellowMatchID != nil {
				// Красная перекрывает бан за две жёлтые: вторую дисквалификацию
				// за один триггерный период не создаём.
				if redCardedPlayers[candidate.PlayerID] {
					continue
				}
				createErr := s.createSuspension(ctx, tx, seasonID, candidate,
					models.SuspensionReasonTwoYellowCards, *candidate.LastYellowMatchID)
				if createErr != nil {
					result.Errors = append(result.Errors,
						fmt.Sprintf("player %d: two yellow cards suspension: %v", candidate.PlayerID, createErr))
				} else {
					result.Created++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastToSeason(seasonID, "DISCIPLINARY_RECALCULATED", result)
	}
	s.logger.Info("disciplinary recalculation finished",
		slog.Int("season_id", seasonID),
		slog.Int("archived", result.Archived),
		slog.Int("created", result.Created),
		slog.Int("failed_candidates", len(result.Errors)),
	)
	return result, nil
}

// createSuspension вставляет одну дисквалификацию, предварительно найдя
// ближайший будущий матч команды после триггерного. Если такого матча ещё
// нет, бан записывается со start_match_id = NULL и привяжется к матчу при
// следующем пересчёте. Вставка обёрнута в savepoint: в Postgres упавший
// statement иначе отравил бы всю транзакцию, а сбой одного кандидата не
// должен отменять остальных.
func (s *disciplinaryService) createSuspension(
	ctx context.Context,
	tx repositories.SQLExecutor,
	seasonID int,
	candidate *models.CardAggregate,
	reason models.SuspensionReason,
	triggerMatchID int,
) error {
	if _, err := tx.ExecContext(ctx, "SAVEPOINT suspension_candidate"); err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	err := func() error {
		var startMatchID *int
		nextMatch, findErr := s.matchRepo.FindNextForTeam(ctx, tx, seasonID, candidate.TeamID, triggerMatchID)
		if findErr != nil && !errors.Is(findErr, repositories.ErrMatchNotFound) {
			return findErr
		}
		if nextMatch != nil {
			startMatchID = &nextMatch.ID
		}

		suspension := &models.Suspension{
			SeasonID:       seasonID,
			PlayerID:       candidate.PlayerID,
			TeamID:         candidate.TeamID,
			Reason:         reason,
			TriggerMatchID: triggerMatchID,
			MatchesBanned:  1,
			StartMatchID:   startMatchID,
			Status:         models.SuspensionStatusActive,
		}
		return s.suspensionRepo.Create(ctx, tx, suspension)
	}()

	if err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT suspension_candidate"); rbErr != nil {
			return fmt.Errorf("%v (savepoint rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if _, relErr := tx.ExecContext(ctx, "RELEASE SAVEPOINT suspension_candidate"); relErr != nil {
		return fmt.Errorf("failed to release savepoint: %w", relErr)
	}
	return nil
}

func (s *disciplinaryService) ListSeasonSuspensions(ctx context.Context, seasonID int, status *models.SuspensionStatus) ([]*models.Suspension, error) {
	if _, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	return s.suspensionRepo.ListBySeason(ctx, nil, seasonID, status)
}

func (s *disciplinaryService) MarkSuspensionServed(ctx context.Context, suspensionID int) error {
	if err := s.suspensionRepo.MarkServed(ctx, nil, suspensionID); err != nil {
		if errors.Is(err, repositories.ErrSuspensionNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
