package handlers

import (
	"net/http"
	"time"

	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
)

type MatchHandler struct {
	matchService      services.MatchService
	lifecycleService  services.MatchLifecycleService
	completionService services.CompletionService
}

func NewMatchHandler(
	matchService services.MatchService,
	lifecycleService services.MatchLifecycleService,
	completionService services.CompletionService,
) *MatchHandler {
	return &MatchHandler{
		matchService:      matchService,
		lifecycleService:  lifecycleService,
		completionService: completionService,
	}
}

type createMatchRequest struct {
	SeasonID   int       `json:"season_id"`
	Round      int       `json:"round"`
	HomeTeamID int       `json:"home_team_id"`
	AwayTeamID int       `json:"away_team_id"`
	StadiumID  *int      `json:"stadium_id"`
	Kickoff    time.Time `json:"kickoff"`
}

// CreateMatch godoc
// @Summary Создать матч
// @Tags matches
// @Accept json
// @Produce json
// @Param input body createMatchRequest true "Данные матча"
// @Success 201 {object} models.Match
// @Router /matches [post]
func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match := &models.Match{
		SeasonID:   req.SeasonID,
		Round:      req.Round,
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		StadiumID:  req.StadiumID,
		Kickoff:    req.Kickoff,
	}

	created, err := h.matchService.Create(r.Context(), match)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, created, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, match, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListSeasonMatches godoc
// @Summary Матчи сезона с фильтрами по туру и статусу
// @Tags matches
// @Produce json
// @Param id path int true "ID сезона"
// @Param round query int false "Номер тура"
// @Param status query string false "Статус матча"
// @Success 200 {array} models.Match
// @Router /seasons/{id}/matches [get]
func (h *MatchHandler) ListSeasonMatches(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var round *int
	if raw := r.URL.Query().Get("round"); raw != "" {
		parsed, parseErr := parsePositiveInt(raw)
		if parseErr != nil {
			badRequestResponse(w, r, parseErr)
			return
		}
		round = &parsed
	}

	var status *models.MatchStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.MatchStatus(raw)
		status = &s
	}

	matches, err := h.matchService.ListBySeason(r.Context(), seasonID, round, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, matches, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type changeStatusRequest struct {
	Status models.MatchStatus `json:"status"`
	Note   *string            `json:"note"`
}

// ChangeStatus godoc
// @Summary Перевести матч в новый статус
// @Description Переход валидируется по таблице рёбер жизненного цикла и
// @Description предусловиям целевого статуса. Каждый переход пишется в журнал.
// @Tags matches
// @Accept json
// @Produce json
// @Param id path int true "ID матча"
// @Param input body changeStatusRequest true "Целевой статус"
// @Success 200 {object} models.Match
// @Failure 422 {object} jsonResponse
// @Router /matches/{id}/status [post]
func (h *MatchHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req changeStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	opts := services.StatusChangeOptions{Note: req.Note}
	if actorID, err := middleware.GetUserIDFromContext(r.Context()); err == nil {
		opts.ActorID = &actorID
	}

	match, err := h.lifecycleService.ChangeStatus(r.Context(), id, req.Status, opts)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, match, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AssignOfficials godoc
// @Summary Назначить судейскую бригаду
// @Description Доступно только для матча в статусе scheduled. После назначения
// @Description матч автоматически переводится в preparing.
// @Tags matches
// @Accept json
// @Produce json
// @Param id path int true "ID матча"
// @Param input body models.OfficialAssignments true "Назначения"
// @Success 200 {object} models.Match
// @Router /matches/{id}/officials [post]
func (h *MatchHandler) AssignOfficials(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var officials models.OfficialAssignments
	if err := readJSON(w, r, &officials); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	match, err := h.lifecycleService.AssignOfficials(r.Context(), id, officials, actorID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, match, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type lineupReviewRequest struct {
	Status          models.LineupStatus `json:"status"`
	RejectionReason *string             `json:"rejection_reason"`
}

// ReviewLineup godoc
// @Summary Утвердить или отклонить состав стороны
// @Tags matches
// @Accept json
// @Produce json
// @Param id path int true "ID матча"
// @Param side path string true "Сторона: home или away"
// @Param input body lineupReviewRequest true "Решение по составу"
// @Success 200 {object} models.Match
// @Router /matches/{id}/lineups/{side} [post]
func (h *MatchHandler) ReviewLineup(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	side, err := matchSideFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req lineupReviewRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reviewerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	match, err := h.lifecycleService.UpdateLineupStatus(r.Context(), id, side, req.Status, reviewerID, req.RejectionReason)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, match, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitReport godoc
// @Summary Подтвердить сдачу послематчевого отчёта
// @Description Роль берётся из JWT. Когда отмечены оба отчёта, матч
// @Description автоматически переводится из finished в reported.
// @Tags matches
// @Param id path int true "ID матча"
// @Success 204
// @Router /matches/{id}/report [post]
func (h *MatchHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	if err := h.lifecycleService.MarkReportSubmitted(r.Context(), id, role, actorID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type setScoreRequest struct {
	HomeScore int `json:"home_score"`
	AwayScore int `json:"away_score"`
}

func (h *MatchHandler) SetScore(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req setScoreRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.SetScore(r.Context(), id, req.HomeScore, req.AwayScore)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, match, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordCard godoc
// @Summary Зафиксировать карточку
// @Tags matches
// @Accept json
// @Produce json
// @Param id path int true "ID матча"
// @Param input body services.RecordCardInput true "Событие карточки"
// @Success 201 {object} models.CardEvent
// @Router /matches/{id}/cards [post]
func (h *MatchHandler) RecordCard(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordCardInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.matchService.RecordCard(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cards, err := h.matchService.ListCards(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, cards, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetHistory godoc
// @Summary Журнал переходов статуса матча
// @Tags matches
// @Produce json
// @Param id path int true "ID матча"
// @Success 200 {array} models.MatchStatusHistory
// @Router /matches/{id}/history [get]
func (h *MatchHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	history, err := h.lifecycleService.History(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, history, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ProcessCompletion godoc
// @Summary Запустить оркестрацию завершения матча вручную
// @Description Возвращает структурированный результат с флагами по каждому
// @Description пересчёту. HTTP 200 даже при частичных сбоях: смотрите errors.
// @Tags matches
// @Produce json
// @Param id path int true "ID матча"
// @Success 200 {object} services.CompletionResult
// @Router /matches/{id}/completion [post]
func (h *MatchHandler) ProcessCompletion(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.completionService.ProcessCompletion(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RollbackCompletion повторно прогоняет пересчёты: они идемпотентны,
// поэтому откат сводится к пересборке производного состояния.
func (h *MatchHandler) RollbackCompletion(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.completionService.RollbackCompletion(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
