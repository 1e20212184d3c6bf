package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/usecase"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/response"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type DentistHandler struct {
	dentistUsecase usecase.DentistUsecase
	validator      *validator.CustomValidator
}

func NewDentistHandler(dentistUsecase usecase.DentistUsecase, validator *validator.CustomValidator) *DentistHandler {
	return &DentistHandler{
		dentistUsecase: dentistUsecase,
		validator:      validator,
	}
}

// GetAllDentists lists dentists; ?active=true keeps only bookable ones
// @Summary List dentists
// @Tags Dentists
// @Security BearerAuth
// @Produce json
// @Param active query bool false "Only active dentists"
// @Success 200 {object} response.Response
// @Router /dentists [get]
func (h *DentistHandler) GetAllDentists(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	dentists, err := h.dentistUsecase.GetAllDentists(r.Context(), activeOnly)
	if err != nil {
		response.InternalServerError(w, "Failed to get dentists")
		return
	}

	response.Success(w, http.StatusOK, "Dentists retrieved successfully", dentists)
}

func (h *DentistHandler) GetDentist(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dentistID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid dentist ID", nil)
		return
	}

	dentist, err := h.dentistUsecase.GetDentist(r.Context(), dentistID)
	if err != nil {
		if err == usecase.ErrDentistNotFound {
			response.NotFound(w, "Dentist not found")
			return
		}
		response.InternalServerError(w, "Failed to get dentist")
		return
	}

	response.Success(w, http.StatusOK, "Dentist retrieved successfully", dentist)
}

// UpdateDentist edits a dentist; deactivating also ends their sessions
// @Summary Update dentist
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Dentist ID"
// @Param request body dto.UpdateDentistRequest true "Update Dentist Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/dentists/{id} [put]
func (h *DentistHandler) UpdateDentist(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dentistID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid dentist ID", nil)
		return
	}

	var req dto.UpdateDentistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	dentist, err := h.dentistUsecase.UpdateDentist(r.Context(), dentistID, &req)
	if err != nil {
		switch err {
		case usecase.ErrDentistNotFound:
			response.NotFound(w, "Dentist not found")
		case usecase.ErrLicenseNumberExists:
			response.Error(w, http.StatusConflict, "License number already exists", nil)
		default:
			response.InternalServerError(w, "Failed to update dentist")
		}
		return
	}

	response.Success(w, http.StatusOK, "Dentist updated successfully", dentist)
}
