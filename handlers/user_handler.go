package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
)

type UserHandler struct {
	userService   services.UserService
	notifications services.NotificationReader
}

func NewUserHandler(userService services.UserService, notifications services.NotificationReader) *UserHandler {
	return &UserHandler{userService: userService, notifications: notifications}
}

// GetUser godoc
// @Summary Получить пользователя по ID
// @Tags users
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} models.User
// @Failure 404 {object} jsonResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, user, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByRole godoc
// @Summary Список пользователей по роли (для назначения судей)
// @Tags users
// @Produce json
// @Param role query string true "Роль: admin, referee, supervisor, team_manager"
// @Success 200 {array} models.User
// @Router /users [get]
func (h *UserHandler) ListByRole(w http.ResponseWriter, r *http.Request) {
	role := models.UserRole(r.URL.Query().Get("role"))
	users, err := h.userService.ListByRole(r.Context(), role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, users, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadAvatar godoc
// @Summary Загрузить аватар текущего пользователя
// @Tags users
// @Accept mpfd
// @Produce json
// @Param avatar formData file true "Файл изображения"
// @Success 200 {object} models.User
// @Router /users/me/avatar [post]
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	user, err := h.userService.UploadAvatar(r.Context(), userID, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, user, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListNotifications godoc
// @Summary Уведомления текущего пользователя
// @Tags notifications
// @Produce json
// @Param unread query bool false "Только непрочитанные"
// @Success 200 {array} models.Notification
// @Router /users/me/notifications [get]
func (h *UserHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := h.notifications.ListByUser(r.Context(), userID, unreadOnly)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, notifications, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MarkNotificationRead godoc
// @Summary Отметить уведомление прочитанным
// @Tags notifications
// @Param id path int true "ID уведомления"
// @Success 204
// @Router /users/me/notifications/{id}/read [post]
func (h *UserHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.notifications.MarkRead(r.Context(), id, userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
