package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed       = errors.New("validation failed")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrEmailRequired          = errors.New("email is required")
	ErrTeamNameRequired       = errors.New("team name is required")
	ErrSeasonNameRequired     = errors.New("season name is required")
	ErrStadiumNameRequired    = errors.New("stadium name is required")
	ErrSeasonInvalidDateRange = errors.New("season end date must be after start date")
	ErrMatchSameTeam          = errors.New("home and away teams must differ")
	ErrMatchTeamsNotInSeason  = errors.New("both teams must be registered for the match season")
	ErrCardMinuteInvalid      = errors.New("card minute must be between 0 and 130")
	ErrCardTypeInvalid        = errors.New("invalid card type")
	ErrLineupStatusInvalid    = errors.New("lineup review status must be approved or rejected")
	ErrReportRoleInvalid      = errors.New("report role must be referee or supervisor")

	// Нарушения жизненного цикла матча. Текст дополняется конкретикой через %w.
	ErrInvalidMatchTransition    = errors.New("invalid match status transition")
	ErrMatchPreconditionFailed   = errors.New("match status precondition failed")
	ErrOfficialsAssignNotAllowed = errors.New("officials can only be assigned to a scheduled match")
	ErrScoreNotAllowed           = errors.New("score can only be set after the match is finished")
	ErrCardNotAllowed            = errors.New("cards can only be recorded for a match in progress")

	// Ошибки конфликтов
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrTeamNameConflict     = errors.New("team name is already in use")
	ErrSeasonNameConflict   = errors.New("season name already exists")
	ErrRegistrationConflict = errors.New("team or player is already registered for this season")

	// Ошибки аутентификации и авторизации
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей (дублируют ErrNotFound, но дают контекст)
	ErrUserNotFound    = errors.New("user not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrSeasonNotFound  = errors.New("season not found")
	ErrStadiumNotFound = errors.New("stadium not found")
	ErrMatchNotFound   = errors.New("match not found")
)
