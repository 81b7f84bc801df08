package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
)

type DisciplinaryHandler struct {
	disciplinaryService services.DisciplinaryService
}

func NewDisciplinaryHandler(disciplinaryService services.DisciplinaryService) *DisciplinaryHandler {
	return &DisciplinaryHandler{disciplinaryService: disciplinaryService}
}

// Recalculate godoc
// @Summary Полный пересчёт дисквалификаций сезона
// @Description Архивирует активные дисквалификации и пересобирает их с нуля
// @Description по карточкам завершённых матчей. Идемпотентна: повторный вызов
// @Description без новых карточек даёт тот же набор.
// @Tags disciplinary
// @Produce json
// @Param id path int true "ID сезона"
// @Success 200 {object} services.DisciplinaryRecalcResult
// @Router /seasons/{id}/disciplinary/recalculate [post]
func (h *DisciplinaryHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.disciplinaryService.Recalculate(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListSuspensions godoc
// @Summary Дисквалификации сезона
// @Tags disciplinary
// @Produce json
// @Param id path int true "ID сезона"
// @Param status query string false "Статус: active, served, archived"
// @Success 200 {array} models.Suspension
// @Router /seasons/{id}/suspensions [get]
func (h *DisciplinaryHandler) ListSuspensions(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var status *models.SuspensionStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.SuspensionStatus(raw)
		status = &s
	}

	suspensions, err := h.disciplinaryService.ListSeasonSuspensions(r.Context(), seasonID, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, suspensions, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MarkServed godoc
// @Summary Закрыть дисквалификацию как отбытую
// @Tags disciplinary
// @Param id path int true "ID дисквалификации"
// @Success 204 "Дисквалификация отбыта"
// @Router /suspensions/{id}/served [post]
func (h *DisciplinaryHandler) MarkServed(w http.ResponseWriter, r *http.Request) {
	suspensionID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.disciplinaryService.MarkSuspensionServed(r.Context(), suspensionID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
