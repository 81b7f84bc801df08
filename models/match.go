package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusPreparing  MatchStatus = "preparing"
	MatchStatusReady      MatchStatus = "ready"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusFinished   MatchStatus = "finished"
	MatchStatusReported   MatchStatus = "reported"
	MatchStatusCompleted  MatchStatus = "completed"
)

type LineupStatus string

const (
	LineupStatusPending  LineupStatus = "pending"
	LineupStatusApproved LineupStatus = "approved"
	LineupStatusRejected LineupStatus = "rejected"
)

// MatchSide определяет сторону матча для операций с составами.
type MatchSide string

const (
	MatchSideHome MatchSide = "home"
	MatchSideAway MatchSide = "away"
)

type Match struct {
	ID         int         `json:"id"`
	SeasonID   int         `json:"season_id"`
	Round      int         `json:"round"`
	HomeTeamID int         `json:"home_team_id"` // сезонная регистрация команды
	AwayTeamID int         `json:"away_team_id"`
	StadiumID  *int        `json:"stadium_id,omitempty"`
	Kickoff    time.Time   `json:"kickoff"`
	Status     MatchStatus `json:"status"`

	// Судейские назначения. Все опциональны до момента назначения.
	MainRefereeID    *int `json:"main_referee_id,omitempty"`
	AssistantOneID   *int `json:"assistant_one_id,omitempty"`
	AssistantTwoID   *int `json:"assistant_two_id,omitempty"`
	FourthOfficialID *int `json:"fourth_official_id,omitempty"`
	SupervisorID     *int `json:"supervisor_id,omitempty"`

	HomeLineupStatus LineupStatus `json:"home_lineup_status"`
	AwayLineupStatus LineupStatus `json:"away_lineup_status"`

	RefereeReportSubmitted    bool `json:"referee_report_submitted"`
	SupervisorReportSubmitted bool `json:"supervisor_report_submitted"`

	// Счёт выставляется только после перехода в finished.
	HomeScore *int `json:"home_score,omitempty"`
	AwayScore *int `json:"away_score,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// HasBothScores сообщает, зафиксирован ли полный счёт матча.
func (m *Match) HasBothScores() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

type OfficialAssignments struct {
	MainRefereeID    int  `json:"main_referee_id"`
	AssistantOneID   *int `json:"assistant_one_id,omitempty"`
	AssistantTwoID   *int `json:"assistant_two_id,omitempty"`
	FourthOfficialID *int `json:"fourth_official_id,omitempty"`
	SupervisorID     *int `json:"supervisor_id,omitempty"`
}
