package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"golang.org/x/sync/errgroup"
)

const (
	pointsForWin  = 3
	pointsForDraw = 1
)

type StandingsService interface {
	StandingsCalculator
	Table(ctx context.Context, seasonID int) ([]*models.SeasonStanding, error)
}

type standingsService struct {
	txManager    repositories.TxManager
	matchRepo    repositories.MatchRepository
	teamRepo     repositories.TeamRepository
	standingRepo repositories.StandingRepository
	logger       *slog.Logger
}

func NewStandingsService(
	txManager repositories.TxManager,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	standingRepo repositories.StandingRepository,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		txManager:    txManager,
		matchRepo:    matchRepo,
		teamRepo:     teamRepo,
		standingRepo: standingRepo,
		logger:       logger,
	}
}

// Recompute строит таблицу сезона заново по завершённым матчам со счётом.
// Матчи других статусов не учитываются, поэтому отмена завершения матча
// корректно отражается обычным повторным пересчётом.
func (s *standingsService) Recompute(ctx context.Context, seasonID int) error {
	var (
		matches       []*models.Match
		registrations []*models.SeasonTeam
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListCompletedWithScores(gctx, nil, seasonID)
		return err
	})
	g.Go(func() error {
		var err error
		registrations, err = s.teamRepo.ListSeasonTeams(gctx, seasonID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load season %d data for standings: %w", seasonID, err)
	}

	table := make(map[int]*models.SeasonStanding, len(registrations))
	for _, reg := range registrations {
		table[reg.ID] = &models.SeasonStanding{
			SeasonID:     seasonID,
			SeasonTeamID: reg.ID,
		}
	}

	for _, match := range matches {
		home, homeOK := table[match.HomeTeamID]
		away, awayOK := table[match.AwayTeamID]
		if !homeOK || !awayOK || !match.HasBothScores() {
			continue
		}
		applyMatchResult(home, away, *match.HomeScore, *match.AwayScore)
	}

	ranked := make([]*models.SeasonStanding, 0, len(table))
	for _, standing := range table {
		ranked = append(ranked, standing)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.SeasonTeamID < b.SeasonTeamID
	})
	for i, standing := range ranked {
		rank := i + 1
		standing.Rank = &rank
	}

	// Замена таблицы целиком в одной транзакции: частично обновлённая
	// таблица хуже устаревшей.
	err := s.txManager.WithinTx(ctx, func(tx repositories.SQLExecutor) error {
		if delErr := s.standingRepo.DeleteBySeasonID(ctx, tx, seasonID); delErr != nil {
			return delErr
		}
		for _, standing := range ranked {
			if createErr := s.standingRepo.Create(ctx, tx, standing); createErr != nil {
				return createErr
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist standings for season %d: %w", seasonID, err)
	}

	s.logger.Info("standings recomputed",
		slog.Int("season_id", seasonID),
		slog.Int("teams", len(ranked)),
		slog.Int("matches", len(matches)),
	)
	return nil
}

func applyMatchResult(home, away *models.SeasonStanding, homeScore, awayScore int) {
	home.GamesPlayed++
	away.GamesPlayed++
	home.GoalsFor += homeScore
	home.GoalsAgainst += awayScore
	away.GoalsFor += awayScore
	away.GoalsAgainst += homeScore
	home.GoalDifference = home.GoalsFor - home.GoalsAgainst
	away.GoalDifference = away.GoalsFor - away.GoalsAgainst

	switch {
	case homeScore > awayScore:
		home.Wins++
		home.Points += pointsForWin
		away.Losses++
	case homeScore < awayScore:
		away.Wins++
		away.Points += pointsForWin
		home.Losses++
	default:
		home.Draws++
		away.Draws++
		home.Points += pointsForDraw
		away.Points += pointsForDraw
	}
}

func (s *standingsService) Table(ctx context.Context, seasonID int) ([]*models.SeasonStanding, error) {
	standings, err := s.standingRepo.ListBySeason(ctx, nil, seasonID, true)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonStandingNotFound) {
			return []*models.SeasonStanding{}, nil
		}
		return nil, err
	}
	return standings, nil
}
