package handlers

import (
	"net/http"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
)

type SeasonHandler struct {
	seasonService     services.SeasonService
	teamService       services.TeamService
	standingsService  services.StandingsService
	completionService services.CompletionService
}

func NewSeasonHandler(
	seasonService services.SeasonService,
	teamService services.TeamService,
	standingsService services.StandingsService,
	completionService services.CompletionService,
) *SeasonHandler {
	return &SeasonHandler{
		seasonService:     seasonService,
		teamService:       teamService,
		standingsService:  standingsService,
		completionService: completionService,
	}
}

type createSeasonRequest struct {
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func (h *SeasonHandler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	var req createSeasonRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	season := &models.Season{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    models.SeasonStatusDraft,
	}

	created, err := h.seasonService.Create(r.Context(), season)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, created, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeasonHandler) GetSeason(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	season, err := h.seasonService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, season, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeasonHandler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.seasonService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, seasons, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type updateSeasonStatusRequest struct {
	Status models.SeasonStatus `json:"status"`
}

func (h *SeasonHandler) UpdateSeasonStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req updateSeasonStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	season, err := h.seasonService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, season, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteSeason godoc
// @Summary Удалить сезон
// @Tags seasons
// @Param id path int true "ID сезона"
// @Success 204 "Сезон удалён"
// @Router /seasons/{id} [delete]
func (h *SeasonHandler) DeleteSeason(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.seasonService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type registerTeamRequest struct {
	TeamID int `json:"team_id"`
}

// RegisterTeam заявляет команду на сезон.
func (h *SeasonHandler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req registerTeamRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	registration, err := h.teamService.RegisterForSeason(r.Context(), seasonID, req.TeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, registration, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeasonHandler) ListSeasonTeams(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.teamService.ListSeasonTeams(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, teams, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStandings godoc
// @Summary Турнирная таблица сезона
// @Tags seasons
// @Produce json
// @Param id path int true "ID сезона"
// @Success 200 {array} models.SeasonStanding
// @Router /seasons/{id}/standings [get]
func (h *SeasonHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	table, err := h.standingsService.Table(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, table, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// BatchProcessSeason godoc
// @Summary Пакетная обработка завершения всех reported-матчей сезона
// @Tags seasons
// @Produce json
// @Param id path int true "ID сезона"
// @Success 200 {object} services.SeasonBatchResult
// @Router /seasons/{id}/completion/batch [post]
func (h *SeasonHandler) BatchProcessSeason(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.completionService.BatchProcessSeason(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
