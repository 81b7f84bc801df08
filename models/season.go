package models

import "time"

type SeasonStatus string

const (
	SeasonStatusDraft    SeasonStatus = "draft"
	SeasonStatusActive   SeasonStatus = "active"
	SeasonStatusFinished SeasonStatus = "finished"
)

// Season — один розыгрыш турнира. Скоупит матчи, заявки и дисциплинарное состояние.
type Season struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	Status    SeasonStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}
