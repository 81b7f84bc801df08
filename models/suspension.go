package models

import "time"

type SuspensionReason string

const (
	SuspensionReasonRedCard        SuspensionReason = "RED_CARD"
	SuspensionReasonTwoYellowCards SuspensionReason = "TWO_YELLOW_CARDS"
)

type SuspensionStatus string

const (
	SuspensionStatusActive   SuspensionStatus = "active"
	SuspensionStatusServed   SuspensionStatus = "served"
	SuspensionStatusArchived SuspensionStatus = "archived"
)

// Suspension — дисквалификация, производная от карточек.
// Не редактируется вручную: при каждом пересчёте старый набор архивируется,
// новый строится заново по текущим CardEvent.
type Suspension struct {
	ID             int              `json:"id"`
	SeasonID       int              `json:"season_id"`
	PlayerID       int              `json:"player_id"`
	TeamID         int              `json:"team_id"`
	Reason         SuspensionReason `json:"reason"`
	TriggerMatchID int              `json:"trigger_match_id"`
	MatchesBanned  int              `json:"matches_banned"`
	StartMatchID   *int             `json:"start_match_id,omitempty"` // nil, пока следующий матч команды не назначен
	ServedMatches  int              `json:"served_matches"`
	Status         SuspensionStatus `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
}
