package models

import "time"

// MatchStatusHistory — журнальная запись об одном переходе статуса матча.
// Только добавляется, никогда не обновляется и не удаляется.
type MatchStatusHistory struct {
	ID         int         `json:"id"`
	MatchID    int         `json:"match_id"`
	FromStatus MatchStatus `json:"from_status"`
	ToStatus   MatchStatus `json:"to_status"`
	ActorID    *int        `json:"actor_id,omitempty"`
	Note       *string     `json:"note,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}
