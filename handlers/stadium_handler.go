package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
)

type StadiumHandler struct {
	stadiumService services.StadiumService
}

func NewStadiumHandler(stadiumService services.StadiumService) *StadiumHandler {
	return &StadiumHandler{stadiumService: stadiumService}
}

type stadiumRequest struct {
	Name     string  `json:"name"`
	City     string  `json:"city"`
	Capacity *int    `json:"capacity"`
	Address  *string `json:"address"`
}

func (h *StadiumHandler) CreateStadium(w http.ResponseWriter, r *http.Request) {
	var req stadiumRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stadium := &models.Stadium{
		Name:     req.Name,
		City:     req.City,
		Capacity: req.Capacity,
		Address:  req.Address,
	}

	created, err := h.stadiumService.Create(r.Context(), stadium)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, created, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StadiumHandler) GetStadium(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stadium, err := h.stadiumService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, stadium, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StadiumHandler) ListStadiums(w http.ResponseWriter, r *http.Request) {
	stadiums, err := h.stadiumService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, stadiums, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StadiumHandler) UpdateStadium(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req stadiumRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stadium := &models.Stadium{
		ID:       id,
		Name:     req.Name,
		City:     req.City,
		Capacity: req.Capacity,
		Address:  req.Address,
	}

	updated, err := h.stadiumService.Update(r.Context(), stadium)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, updated, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StadiumHandler) DeleteStadium(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.stadiumService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
