package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

// lifecycleFixture собирает сервис жизненного цикла на заглушках с одним
// мутабельным матчем: запись статуса меняет его на месте, как это делала бы база.
type lifecycleFixture struct {
	match       *models.Match
	matchRepo   *stubMatchRepo
	historyRepo *stubHistoryRepo
	teamRepo    *stubTeamRepo
	completion  *stubCompletionRunner
	notifier    *stubNotifier
	hub         *stubBroadcaster
	service     MatchLifecycleService
}

func newLifecycleFixture(match *models.Match) *lifecycleFixture {
	f := &lifecycleFixture{
		match:       match,
		historyRepo: &stubHistoryRepo{},
		completion:  &stubCompletionRunner{},
		notifier:    &stubNotifier{},
		hub:         &stubBroadcaster{},
	}
	f.matchRepo = &stubMatchRepo{
		getByID: func(id int) (*models.Match, error) {
			if id != match.ID {
				return nil, repositories.ErrMatchNotFound
			}
			copied := *match
			return &copied, nil
		},
		updateStatus: func(id int, from, to models.MatchStatus) error {
			if match.Status != from {
				return repositories.ErrMatchStatusConflict
			}
			match.Status = to
			return nil
		},
		updateOfficials: func(id int, officials models.OfficialAssignments) error {
			match.MainRefereeID = &officials.MainRefereeID
			match.AssistantOneID = officials.AssistantOneID
			match.AssistantTwoID = officials.AssistantTwoID
			match.FourthOfficialID = officials.FourthOfficialID
			match.SupervisorID = officials.SupervisorID
			return nil
		},
		updateLineup: func(id int, side models.MatchSide, status models.LineupStatus) error {
			if side == models.MatchSideHome {
				match.HomeLineupStatus = status
			} else {
				match.AwayLineupStatus = status
			}
			return nil
		},
		setReport: func(id int, supervisor bool) error {
			if supervisor {
				match.SupervisorReportSubmitted = true
			} else {
				match.RefereeReportSubmitted = true
			}
			return nil
		},
	}
	f.teamRepo = &stubTeamRepo{
		getSeasonTeam: func(id int) (*models.SeasonTeam, error) {
			return &models.SeasonTeam{
				ID:   id,
				Team: &models.Team{ID: id, ManagerID: intPtr(100 + id)},
			}, nil
		},
	}
	f.service = NewMatchLifecycleService(
		&stubTxManager{},
		f.matchRepo,
		f.historyRepo,
		f.teamRepo,
		f.completion,
		f.notifier,
		f.hub,
		testLogger(),
	)
	return f
}

// eligibleMatch удовлетворяет предусловиям всех целевых статусов, поэтому
// исход перехода определяется только таблицей рёбер.
func eligibleMatch(status models.MatchStatus) *models.Match {
	return &models.Match{
		ID:                        1,
		SeasonID:                  10,
		HomeTeamID:                21,
		AwayTeamID:                22,
		Status:                    status,
		MainRefereeID:             intPtr(7),
		SupervisorID:              intPtr(8),
		HomeLineupStatus:          models.LineupStatusApproved,
		AwayLineupStatus:          models.LineupStatusApproved,
		RefereeReportSubmitted:    true,
		SupervisorReportSubmitted: true,
		HomeScore:                 intPtr(2),
		AwayScore:                 intPtr(1),
	}
}

func TestChangeStatusTransitionTable(t *testing.T) {
	all := []models.MatchStatus{
		models.MatchStatusScheduled,
		models.MatchStatusPreparing,
		models.MatchStatusReady,
		models.MatchStatusInProgress,
		models.MatchStatusFinished,
		models.MatchStatusReported,
		models.MatchStatusCompleted,
	}
	allowed := map[models.MatchStatus]map[models.MatchStatus]bool{
		models.MatchStatusScheduled:  {models.MatchStatusPreparing: true},
		models.MatchStatusPreparing:  {models.MatchStatusReady: true, models.MatchStatusScheduled: true},
		models.MatchStatusReady:      {models.MatchStatusInProgress: true, models.MatchStatusFinished: true},
		models.MatchStatusInProgress: {models.MatchStatusFinished: true},
		models.MatchStatusFinished:   {models.MatchStatusReported: true},
		models.MatchStatusReported:   {models.MatchStatusCompleted: true, models.MatchStatusFinished: true},
		models.MatchStatusCompleted:  {},
	}

	for _, from := range all {
		for _, to := range all {
			f := newLifecycleFixture(eligibleMatch(from))
			updated, err := f.service.ChangeStatus(context.Background(), 1, to, StatusChangeOptions{})

			if allowed[from][to] {
				if err != nil {
					t.Fatalf("transition %s -> %s: expected success, got %v", from, to, err)
				}
				if updated.Status != to {
					t.Fatalf("transition %s -> %s: match status is %s", from, to, updated.Status)
				}
				if len(f.historyRepo.entries) != 1 {
					t.Fatalf("transition %s -> %s: expected 1 history entry, got %d", from, to, len(f.historyRepo.entries))
				}
			} else {
				if !errors.Is(err, ErrInvalidMatchTransition) {
					t.Fatalf("transition %s -> %s: expected ErrInvalidMatchTransition, got %v", from, to, err)
				}
				if len(f.historyRepo.entries) != 0 {
					t.Fatalf("transition %s -> %s: history written for rejected transition", from, to)
				}
			}
		}
	}
}

func TestChangeStatusPreconditions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *models.Match)
		from   models.MatchStatus
		to     models.MatchStatus
	}{
		{
			name:   "preparing requires main referee",
			mutate: func(m *models.Match) { m.MainRefereeID = nil },
			from:   models.MatchStatusScheduled,
			to:     models.MatchStatusPreparing,
		},
		{
			name:   "ready requires home lineup approved",
			mutate: func(m *models.Match) { m.HomeLineupStatus = models.LineupStatusPending },
			from:   models.MatchStatusPreparing,
			to:     models.MatchStatusReady,
		},
		{
			name:   "ready requires away lineup approved",
			mutate: func(m *models.Match) { m.AwayLineupStatus = models.LineupStatusRejected },
			from:   models.MatchStatusPreparing,
			to:     models.MatchStatusReady,
		},
		{
			name:   "reported requires referee report",
			mutate: func(m *models.Match) { m.RefereeReportSubmitted = false },
			from:   models.MatchStatusFinished,
			to:     models.MatchStatusReported,
		},
		{
			name:   "reported requires supervisor report",
			mutate: func(m *models.Match) { m.SupervisorReportSubmitted = false },
			from:   models.MatchStatusFinished,
			to:     models.MatchStatusReported,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			match := eligibleMatch(tc.from)
			tc.mutate(match)
			f := newLifecycleFixture(match)

			_, err := f.service.ChangeStatus(context.Background(), 1, tc.to, StatusChangeOptions{})
			if !errors.Is(err, ErrMatchPreconditionFailed) {
				t.Fatalf("expected ErrMatchPreconditionFailed, got %v", err)
			}
			if match.Status != tc.from {
				t.Fatalf("match status changed to %s despite failed precondition", match.Status)
			}
		})
	}
}

func TestChangeStatusConcurrentConflict(t *testing.T) {
	f := newLifecycleFixture(eligibleMatch(models.MatchStatusReady))
	f.matchRepo.updateStatus = func(int, models.MatchStatus, models.MatchStatus) error {
		return repositories.ErrMatchStatusConflict
	}

	_, err := f.service.ChangeStatus(context.Background(), 1, models.MatchStatusInProgress, StatusChangeOptions{})
	if !errors.Is(err, repositories.ErrMatchStatusConflict) {
		t.Fatalf("expected ErrMatchStatusConflict, got %v", err)
	}
}

func TestChangeStatusRecordsActorAndNote(t *testing.T) {
	f := newLifecycleFixture(eligibleMatch(models.MatchStatusScheduled))
	note := "bootstrap"

	_, err := f.service.ChangeStatus(context.Background(), 1, models.MatchStatusPreparing, StatusChangeOptions{
		Note:    &note,
		ActorID: intPtr(42),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := f.historyRepo.entries[0]
	if entry.FromStatus != models.MatchStatusScheduled || entry.ToStatus != models.MatchStatusPreparing {
		t.Fatalf("history entry has wrong statuses: %s -> %s", entry.FromStatus, entry.ToStatus)
	}
	if entry.ActorID == nil || *entry.ActorID != 42 {
		t.Fatalf("history entry actor is %v, want 42", entry.ActorID)
	}
	if entry.Note == nil || *entry.Note != note {
		t.Fatalf("history entry note is %v, want %q", entry.Note, note)
	}
}

func TestChangeStatusToCompletedRunsCompletion(t *testing.T) {
	f := newLifecycleFixture(eligibleMatch(models.MatchStatusReported))

	_, err := f.service.ChangeStatus(context.Background(), 1, models.MatchStatusCompleted, StatusChangeOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.completion.calls != 1 {
		t.Fatalf("completion runner called %d times, want 1", f.completion.calls)
	}
}

func TestChangeStatusCompletionFailureDoesNotRevertTransition(t *testing.T) {
	f := newLifecycleFixture(eligibleMatch(models.MatchStatusReported))
	f.completion.err = errors.New("recalculation exploded")

	updated, err := f.service.ChangeStatus(context.Background(), 1, models.MatchStatusCompleted, StatusChangeOptions{})
	if err != nil {
		t.Fatalf("completion failure must not fail the transition, got %v", err)
	}
	if updated.Status != models.MatchStatusCompleted {
		t.Fatalf("match status is %s, want completed", updated.Status)
	}
	if len(f.historyRepo.entries) != 1 {
		t.Fatalf("expected history entry despite completion failure")
	}
}

func TestChangeStatusBroadcastsToSeasonRoom(t *testing.T) {
	f := newLifecycleFixture(eligibleMatch(models.MatchStatusReady))

	_, err := f.service.ChangeStatus(context.Background(), 1, models.MatchStatusInProgress, StatusChangeOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.hub.events) != 1 || f.hub.events[0] != "MATCH_STATUS_UPDATED" {
		t.Fatalf("expected MATCH_STATUS_UPDATED broadcast, got %v", f.hub.events)
	}
}

func TestChangeStatusNotFound(t *testing.T) {
	f := newLifecycleFixture(eligibleMatch(models.MatchStatusScheduled))

	_, err := f.service.ChangeStatus(context.Background(), 999, models.MatchStatusPreparing, StatusChangeOptions{})
	if !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestAssignOfficialsAdvancesToPreparing(t *testing.T) {
	match := eligibleMatch(models.MatchStatusScheduled)
	match.MainRefereeID = nil
	match.SupervisorID = nil
	f := newLifecycleFixture(match)

	updated, err := f.service.AssignOfficials(context.Background(), 1, models.OfficialAssignments{
		MainRefereeID: 7,
		SupervisorID:  intPtr(8),
	}, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != models.MatchStatusPreparing {
		t.Fatalf("match status is %s, want preparing", updated.Status)
	}
	if updated.MainRefereeID == nil || *updated.MainRefereeID != 7 {
		t.Fatalf("main referee not persisted: %v", updated.MainRefereeID)
	}

	// Уведомления о назначении получают оба члена бригады.
	assignments := 0
	for _, n := range f.notifier.sent {
		if n.Type == models.NotificationOfficialAssignment {
			assignments++
		}
	}
	if assignments != 2 {
		t.Fatalf("official assignment notifications sent to %d users, want 2", assignments)
	}
}

func TestAssignOfficialsRejectedOutsideScheduled(t *testing.T) {
	f := newLifecycleFixture(eligibleMatch(models.MatchStatusPreparing))

	_, err := f.service.AssignOfficials(context.Background(), 1, models.OfficialAssignments{MainRefereeID: 7}, 42)
	if !errors.Is(err, ErrOfficialsAssignNotAllowed) {
		t.Fatalf("expected ErrOfficialsAssignNotAllowed, got %v", err)
	}
}

func TestAssignOfficialsRequiresMainReferee(t *testing.T) {
	f := newLifecycleFixture(eligibleMatch(models.MatchStatusScheduled))

	_, err := f.service.AssignOfficials(context.Background(), 1, models.OfficialAssignments{}, 42)
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}

func TestUpdateLineupStatusAutoAdvancesToReady(t *testing.T) {
	match := eligibleMatch(models.MatchStatusPreparing)
	match.HomeLineupStatus = models.LineupStatusApproved
	match.AwayLineupStatus = models.LineupStatusPending
	f := newLifecycleFixture(match)

	updated, err := f.service.UpdateLineupStatus(context.Background(), 1, models.MatchSideAway, models.LineupStatusApproved, 42, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != models.MatchStatusReady {
		t.Fatalf("match status is %s, want ready after both approvals", updated.Status)
	}
}

func TestUpdateLineupStatusNoAdvanceOutsidePreparing(t *testing.T) {
	match := eligibleMatch(models.MatchStatusScheduled)
	match.HomeLineupStatus = models.LineupStatusApproved
	match.AwayLineupStatus = models.LineupStatusPending
	f := newLifecycleFixture(match)

	updated, err := f.service.UpdateLineupStatus(context.Background(), 1, models.MatchSideAway, models.LineupStatusApproved, 42, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != models.MatchStatusScheduled {
		t.Fatalf("match status is %s, auto-advance must only happen from preparing", updated.Status)
	}
}

func TestUpdateLineupStatusRejectionRequiresReason(t *testing.T) {
	f := newLifecycleFixture(eligibleMatch(models.MatchStatusPreparing))

	_, err := f.service.UpdateLineupStatus(context.Background(), 1, models.MatchSideHome, models.LineupStatusRejected, 42, nil)
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}

func TestUpdateLineupStatusRejectsPending(t *testing.T) {
	f := newLifecycleFixture(eligibleMatch(models.MatchStatusPreparing))

	_, err := f.service.UpdateLineupStatus(context.Background(), 1, models.MatchSideHome, models.LineupStatusPending, 42, nil)
	if !errors.Is(err, ErrLineupStatusInvalid) {
		t.Fatalf("expected ErrLineupStatusInvalid, got %v", err)
	}
}

func TestUpdateLineupStatusNotifiesManagerOnRejection(t *testing.T) {
	match := eligibleMatch(models.MatchStatusPreparing)
	match.HomeLineupStatus = models.LineupStatusPending
	f := newLifecycleFixture(match)
	reason := "missing shirt numbers"

	_, err := f.service.UpdateLineupStatus(context.Background(), 1, models.MatchSideHome, models.LineupStatusRejected, 42, &reason)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.Status != models.MatchStatusPreparing {
		t.Fatalf("rejection must not change match status, got %s", match.Status)
	}

	var reviewed *NotificationInput
	for i := range f.notifier.sent {
		if f.notifier.sent[i].Type == models.NotificationLineupReviewed {
			reviewed = &f.notifier.sent[i]
		}
	}
	if reviewed == nil {
		t.Fatalf("manager was not notified about lineup rejection")
	}
	if reviewed.UserID != 100+match.HomeTeamID {
		t.Fatalf("notification sent to user %d, want home team manager %d", reviewed.UserID, 100+match.HomeTeamID)
	}
}

func TestMarkReportSubmittedAutoAdvancesToReported(t *testing.T) {
	match := eligibleMatch(models.MatchStatusFinished)
	match.RefereeReportSubmitted = false
	match.SupervisorReportSubmitted = false
	f := newLifecycleFixture(match)

	if err := f.service.MarkReportSubmitted(context.Background(), 1, models.RoleReferee, 7); err != nil {
		t.Fatalf("referee report: %v", err)
	}
	if match.Status != models.MatchStatusFinished {
		t.Fatalf("single report must not advance the match, got %s", match.Status)
	}

	if err := f.service.MarkReportSubmitted(context.Background(), 1, models.RoleSupervisor, 8); err != nil {
		t.Fatalf("supervisor report: %v", err)
	}
	if match.Status != models.MatchStatusReported {
		t.Fatalf("match status is %s, want reported after both reports", match.Status)
	}
}

func TestMarkReportSubmittedRejectsOtherRoles(t *testing.T) {
	f := newLifecycleFixture(eligibleMatch(models.MatchStatusFinished))

	err := f.service.MarkReportSubmitted(context.Background(), 1, models.RoleTeamManager, 42)
	if !errors.Is(err, ErrReportRoleInvalid) {
		t.Fatalf("expected ErrReportRoleInvalid, got %v", err)
	}
}

func TestHistoryAccumulatesAcrossTransitions(t *testing.T) {
	f := newLifecycleFixture(eligibleMatch(models.MatchStatusScheduled))
	ctx := context.Background()

	steps := []models.MatchStatus{
		models.MatchStatusPreparing,
		models.MatchStatusReady,
		models.MatchStatusInProgress,
		models.MatchStatusFinished,
		models.MatchStatusReported,
		models.MatchStatusCompleted,
	}
	for _, target := range steps {
		if _, err := f.service.ChangeStatus(ctx, 1, target, StatusChangeOptions{}); err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
	}

	history, err := f.service.History(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != len(steps) {
		t.Fatalf("history has %d entries, want %d", len(history), len(steps))
	}
	prev := models.MatchStatusScheduled
	for i, entry := range history {
		if entry.FromStatus != prev || entry.ToStatus != steps[i] {
			t.Fatalf("entry %d: %s -> %s, want %s -> %s", i, entry.FromStatus, entry.ToStatus, prev, steps[i])
		}
		prev = steps[i]
	}
}
