package models

import "time"

type Player struct {
	ID        int        `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Position  *string    `json:"position,omitempty"`
	PhotoKey  *string    `json:"-"`
	PhotoURL  *string    `json:"photo_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// SeasonPlayer — заявка игрока за команду в конкретном сезоне.
type SeasonPlayer struct {
	ID           int       `json:"id"`
	SeasonID     int       `json:"season_id"`
	SeasonTeamID int       `json:"season_team_id"`
	PlayerID     int       `json:"player_id"`
	ShirtNumber  *int      `json:"shirt_number,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	Player *Player `json:"player,omitempty"`
}
