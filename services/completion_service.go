package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-system/repositories"
)

// CompletionResult — структурный итог оркестрации завершения матча.
// Сбои пересчётов не выбрасываются, а возвращаются: статус матча к этому
// моменту уже закоммичен и не откатывается.
type CompletionResult struct {
	Success             bool     `json:"success"`
	StandingsUpdated    bool     `json:"standings_updated"`
	DisciplinaryUpdated bool     `json:"disciplinary_updated"`
	Errors              []string `json:"errors"`
}

// SeasonBatchResult — итог пакетной дообработки сезона.
type SeasonBatchResult struct {
	MatchesProcessed int      `json:"matches_processed"`
	Errors           []string `json:"errors"`
}

// StandingsCalculator — внешний для оркестратора контракт пересчёта таблицы.
// Используется только ради побочного эффекта.
type StandingsCalculator interface {
	Recompute(ctx context.Context, seasonID int) error
}

type CompletionService interface {
	CompletionRunner
	// RollbackCompletion перезапускает пересчёты после отмены завершения
	// матча. Отдельных обратных дельт нет: калькулятор таблицы сам исключает
	// незавершённые матчи, а дисциплинарный пересчёт строит набор с нуля.
	RollbackCompletion(ctx context.Context, matchID int) (*CompletionResult, error)
	// BatchProcessSeason прогоняет оркестрацию по всем завершённым матчам
	// сезона со счётом и заканчивает одним общим пересчётом. Используется для
	// бэкофилов и ремонта данных.
	BatchProcessSeason(ctx context.Context, seasonID int) (*SeasonBatchResult, error)
}

type completionService struct {
	matchRepo    repositories.MatchRepository
	standingRepo repositories.StandingRepository
	standings    StandingsCalculator
	disciplinary DisciplinaryService
	logger       *slog.Logger
}

func NewCompletionService(
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	standings StandingsCalculator,
	disciplinary DisciplinaryService,
	logger *slog.Logger,
) CompletionService {
	return &completionService{
		matchRepo:    matchRepo,
		standingRepo: standingRepo,
		standings:    standings,
		disciplinary: disciplinary,
		logger:       logger,
	}
}

func (s *completionService) ProcessCompletion(ctx context.Context, matchID int) (*CompletionResult, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	result := &CompletionResult{Errors: []string{}}

	// Завершённый матч без полного счёта — нарушение целостности данных,
	// повторный запуск его не вылечит. Пересчёты не вызываем вовсе.
	if !match.HasBothScores() {
		result.Errors = append(result.Errors,
			fmt.Sprintf("match %d has incomplete scores, completion cannot be processed", matchID))
		return result, nil
	}

	s.runRecalculations(ctx, match.SeasonID, result)

	result.Success = len(result.Errors) == 0
	return result, nil
}

func (s *completionService) RollbackCompletion(ctx context.Context, matchID int) (*CompletionResult, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	// Пересчёты идемпотентны и исходят только из текущего состояния базы,
	// поэтому отмена завершения — это просто повторный прогон.
	result := &CompletionResult{Errors: []string{}}
	s.runRecalculations(ctx, match.SeasonID, result)
	result.Success = len(result.Errors) == 0
	return result, nil
}

func (s *completionService) runRecalculations(ctx context.Context, seasonID int, result *CompletionResult) {
	result.StandingsUpdated = true
	if err := s.standings.Recompute(ctx, seasonID); err != nil {
		result.StandingsUpdated = false
		result.Errors = append(result.Errors, fmt.Sprintf("standings recomputation failed: %v", err))
		s.logger.Error("standings recomputation failed",
			slog.Int("season_id", seasonID),
			slog.Any("error", err),
		)
	}

	result.DisciplinaryUpdated = true
	if _, err := s.disciplinary.Recalculate(ctx, seasonID); err != nil {
		result.DisciplinaryUpdated = false
		result.Errors = append(result.Errors, fmt.Sprintf("disciplinary recalculation failed: %v", err))
		s.logger.Error("disciplinary recalculation failed",
			slog.Int("season_id", seasonID),
			slog.Any("error", err),
		)
	}

	// Ремонт сохранённой разницы мячей best-effort, только логируем.
	if err := s.standingRepo.RepairGoalDifference(ctx, nil, seasonID); err != nil {
		s.logger.Warn("goal difference repair failed",
			slog.Int("season_id", seasonID),
			slog.Any("error", err),
		)
	}
}

func (s *completionService) BatchProcessSeason(ctx context.Context, seasonID int) (*SeasonBatchResult, error) {
	matches, err := s.matchRepo.ListCompletedWithScores(ctx, nil, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed matches for season %d: %w", seasonID, err)
	}

	batch := &SeasonBatchResult{Errors: []string{}}
	for _, match := range matches {
		result, procErr := s.ProcessCompletion(ctx, match.ID)
		if procErr != nil {
			batch.Errors = append(batch.Errors, fmt.Sprintf("match %d: %v", match.ID, procErr))
			continue
		}
		batch.MatchesProcessed++
		if !result.Success {
			for _, msg := range result.Errors {
				batch.Errors = append(batch.Errors, fmt.Sprintf("match %d: %s", match.ID, msg))
			}
		}
	}

	// Финальный общий прогон выравнивает сезон после поматчевых пересчётов.
	finalResult := &CompletionResult{Errors: []string{}}
	s.runRecalculations(ctx, seasonID, finalResult)
	batch.Errors = append(batch.Errors, finalResult.Errors...)

	return batch, nil
}
