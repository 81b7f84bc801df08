package models

import "time"

type Team struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	City      *string   `json:"city,omitempty"`
	ManagerID *int      `json:"manager_id,omitempty"`
	LogoKey   *string   `json:"-"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SeasonTeam — заявка команды на конкретный сезон.
// Матчи, карточки и дисквалификации ссылаются именно на неё, а не на Team.
type SeasonTeam struct {
	ID        int       `json:"id"`
	SeasonID  int       `json:"season_id"`
	TeamID    int       `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`

	Team *Team `json:"team,omitempty"`
}
