package services

import (
	"fmt"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/storage"
)

// --- Общие хелперы ---

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Таблица разрешённых переходов статуса матча. Проверяется до любой записи;
// completed — терминальный статус без исходящих рёбер.
var allowedMatchTransitions = map[models.MatchStatus][]models.MatchStatus{
	models.MatchStatusScheduled:  {models.MatchStatusPreparing},
	models.MatchStatusPreparing:  {models.MatchStatusReady, models.MatchStatusScheduled},
	models.MatchStatusReady:      {models.MatchStatusInProgress, models.MatchStatusFinished},
	models.MatchStatusInProgress: {models.MatchStatusFinished},
	models.MatchStatusFinished:   {models.MatchStatusReported},
	models.MatchStatusReported:   {models.MatchStatusCompleted, models.MatchStatusFinished},
	models.MatchStatusCompleted:  {},
}

func isAllowedMatchTransition(current, next models.MatchStatus) bool {
	for _, allowedNextStatus := range allowedMatchTransitions[current] {
		if next == allowedNextStatus {
			return true
		}
	}
	return false
}

// --- Хелперы для заполнения публичных URL из ключей хранилища ---

func populateUserDetailsFunc(user *models.User, uploader storage.FileUploader) {
	if user == nil {
		return
	}
	user.PasswordHash = "" // Важно для безопасности
	if user.AvatarKey != nil && *user.AvatarKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*user.AvatarKey)
		if url != "" {
			user.AvatarURL = &url
		}
	}
}

func populateTeamLogoURLFunc(team *models.Team, uploader storage.FileUploader) {
	if team != nil && team.LogoKey != nil && *team.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*team.LogoKey)
		if url != "" {
			team.LogoURL = &url
		}
	}
}

func populatePlayerPhotoURLFunc(player *models.Player, uploader storage.FileUploader) {
	if player != nil && player.PhotoKey != nil && *player.PhotoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*player.PhotoKey)
		if url != "" {
			player.PhotoURL = &url
		}
	}
}

func playerDisplayName(sp *models.SeasonPlayer) string {
	if sp != nil && sp.Player != nil {
		return fmt.Sprintf("%s %s", sp.Player.FirstName, sp.Player.LastName)
	}
	if sp != nil {
		return fmt.Sprintf("Player %d", sp.PlayerID)
	}
	return "Unknown player"
}
