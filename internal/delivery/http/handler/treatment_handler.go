package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/usecase"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/response"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type TreatmentHandler struct {
	treatmentUsecase usecase.TreatmentUsecase
	validator        *validator.CustomValidator
}

func NewTreatmentHandler(treatmentUsecase usecase.TreatmentUsecase, validator *validator.CustomValidator) *TreatmentHandler {
	return &TreatmentHandler{
		treatmentUsecase: treatmentUsecase,
		validator:        validator,
	}
}

// Create handles treatment creation
// @Summary Create a treatment
// @Description Add a treatment to the catalog
// @Tags Treatments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateTreatmentRequest true "Create Treatment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/treatments [post]
func (h *TreatmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTreatmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	treatment, err := h.treatmentUsecase.CreateTreatment(r.Context(), &req)
	if err != nil {
		writeTreatmentError(w, err, "Failed to create treatment")
		return
	}

	response.Success(w, http.StatusCreated, "Treatment created successfully", treatment)
}

// GetAll handles getting all treatments
// @Summary Get all treatments
// @Description Get the treatment catalog with pagination
// @Tags Treatments
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /treatments [get]
func (h *TreatmentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	treatments, err := h.treatmentUsecase.GetAllTreatments(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get treatments")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Treatments retrieved successfully", treatments.Treatments,
		response.NewMeta(treatments.Limit, treatments.Offset, treatments.Total))
}

func (h *TreatmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid treatment ID", nil)
		return
	}

	treatment, err := h.treatmentUsecase.GetTreatment(r.Context(), id)
	if err != nil {
		writeTreatmentError(w, err, "Failed to get treatment")
		return
	}

	response.Success(w, http.StatusOK, "Treatment retrieved successfully", treatment)
}

func (h *TreatmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid treatment ID", nil)
		return
	}

	var req dto.UpdateTreatmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	treatment, err := h.treatmentUsecase.UpdateTreatment(r.Context(), id, &req)
	if err != nil {
		writeTreatmentError(w, err, "Failed to update treatment")
		return
	}

	response.Success(w, http.StatusOK, "Treatment updated successfully", treatment)
}

// Deactivate hides a treatment from new bookings
// @Summary Deactivate a treatment
// @Tags Treatments
// @Security BearerAuth
// @Param id path string true "Treatment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/treatments/{id} [delete]
func (h *TreatmentHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid treatment ID", nil)
		return
	}

	if err := h.treatmentUsecase.DeactivateTreatment(r.Context(), id); err != nil {
		writeTreatmentError(w, err, "Failed to deactivate treatment")
		return
	}

	response.Success(w, http.StatusOK, "Treatment deactivated successfully", nil)
}

func writeTreatmentError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrTreatmentNotFound:
		response.NotFound(w, "Treatment not found")
	case usecase.ErrTreatmentNameExists:
		response.Error(w, http.StatusConflict, "Treatment name already exists", nil)
	case usecase.ErrInvalidTreatmentPrice:
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
