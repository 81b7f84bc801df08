package models

import "time"

// SeasonStanding — строка турнирной таблицы сезона для одной сезонной команды.
// Полностью производные данные: пересчитываются по завершённым матчам.
type SeasonStanding struct {
	ID             int       `json:"id"`
	SeasonID       int       `json:"season_id"`
	SeasonTeamID   int       `json:"season_team_id"`
	Points         int       `json:"points"`
	GamesPlayed    int       `json:"games_played"`
	Wins           int       `json:"wins"`
	Draws          int       `json:"draws"`
	Losses         int       `json:"losses"`
	GoalsFor       int       `json:"goals_for"`
	GoalsAgainst   int       `json:"goals_against"`
	GoalDifference int       `json:"goal_difference"`
	Rank           *int      `json:"rank,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}
