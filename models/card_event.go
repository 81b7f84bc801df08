package models

import "time"

type CardType string

const (
	CardTypeYellow       CardType = "yellow"
	CardTypeRed          CardType = "red"
	CardTypeSecondYellow CardType = "second_yellow" // вторая жёлтая, приравнивается к красной
)

// CardEvent — неизменяемая запись о карточке, выданной игроку в матче.
// Создаётся при фиксации событий матча и только читается движком дисквалификаций.
type CardEvent struct {
	ID        int       `json:"id"`
	SeasonID  int       `json:"season_id"`
	MatchID   int       `json:"match_id"`
	PlayerID  int       `json:"player_id"` // сезонная регистрация игрока
	TeamID    int       `json:"team_id"`   // сезонная регистрация команды
	Type      CardType  `json:"type"`
	Minute    int       `json:"minute"`
	CreatedAt time.Time `json:"created_at"`
}

// IsRedEquivalent: прямая красная и вторая жёлтая считаются удалением.
func (c *CardEvent) IsRedEquivalent() bool {
	return c.Type == CardTypeRed || c.Type == CardTypeSecondYellow
}

// CardAggregate — свёртка карточек по паре (игрок, команда) за сезон.
// Источник кандидатов для пересчёта дисквалификаций.
type CardAggregate struct {
	PlayerID          int
	TeamID            int
	YellowCount       int
	RedCount          int
	LastYellowMatchID *int // матч с последней жёлтой, nil если жёлтых нет
	LastRedMatchID    *int // матч с последним удалением, nil если удалений нет
}
