package models

import "time"

type NotificationType string

const (
	NotificationMatchPreparing     NotificationType = "MATCH_PREPARING"
	NotificationMatchReady         NotificationType = "MATCH_READY"
	NotificationMatchStarted       NotificationType = "MATCH_STARTED"
	NotificationMatchFinished      NotificationType = "MATCH_FINISHED"
	NotificationMatchReported      NotificationType = "MATCH_REPORTED"
	NotificationMatchCompleted     NotificationType = "MATCH_COMPLETED"
	NotificationMatchRescheduled   NotificationType = "MATCH_RESCHEDULED"
	NotificationLineupReviewed     NotificationType = "LINEUP_REVIEWED"
	NotificationPlayerSuspended    NotificationType = "PLAYER_SUSPENDED"
	NotificationOfficialAssignment NotificationType = "OFFICIAL_ASSIGNMENT"
)

type Notification struct {
	ID                int              `json:"id"`
	UserID            int              `json:"user_id"`
	Type              NotificationType `json:"type"`
	Title             string           `json:"title"`
	Message           string           `json:"message"`
	RelatedEntityKind string           `json:"related_entity_kind"`
	RelatedEntityID   int              `json:"related_entity_id"`
	ActionURL         *string          `json:"action_url,omitempty"`
	ReadAt            *time.Time       `json:"read_at,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}
