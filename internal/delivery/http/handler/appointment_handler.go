package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/usecase"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/response"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/timeslot"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const conflictMessage = "The selected time slot is not available"

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// CreateAppointment books an appointment
// @Summary Book an appointment
// @Description Books a slot for a patient with a dentist. A busy slot answers 409 with alternative dentists and times.
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Create Appointment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.appointmentUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		writeAppointmentError(w, err, "Failed to create appointment")
		return
	}
	if result.Conflict != nil {
		response.Conflict(w, conflictMessage, result.Conflict)
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", result.Appointment)
}

// GetAllAppointments lists appointments
// @Summary List appointments
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param dentist_id query string false "Dentist ID"
// @Param patient_id query string false "Patient ID"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param status query string false "Status"
// @Success 200 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) GetAllAppointments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := dto.ListAppointmentsRequest{
		DentistID: query.Get("dentist_id"),
		PatientID: query.Get("patient_id"),
		Date:      query.Get("date"),
		Status:    query.Get("status"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointments, err := h.appointmentUsecase.GetAllAppointments(r.Context(), &req)
	if err != nil {
		writeAppointmentError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), id)
	if err != nil {
		writeAppointmentError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// UpdateAppointment reschedules or edits an appointment
// @Summary Reschedule an appointment
// @Description Moving an appointment onto a busy slot answers 409 with suggestions and changes nothing.
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.UpdateAppointmentRequest true "Update Appointment Request"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id} [put]
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.appointmentUsecase.UpdateAppointment(r.Context(), id, &req)
	if err != nil {
		writeAppointmentError(w, err, "Failed to update appointment")
		return
	}
	if result.Conflict != nil {
		response.Conflict(w, conflictMessage, result.Conflict)
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", result.Appointment)
}

// UpdateAppointmentStatus moves an appointment through its lifecycle
// @Summary Change appointment status
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.UpdateAppointmentStatusRequest true "Status Request"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/status [patch]
func (h *AppointmentHandler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.UpdateAppointmentStatus(r.Context(), id, &req)
	if err != nil {
		writeAppointmentError(w, err, "Failed to update appointment status")
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

// CheckConflict reports whether a slot is free without booking it
// @Summary Check a slot for conflicts
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SlotCheckRequest true "Slot Check Request"
// @Success 200 {object} response.Response
// @Router /appointments/check-conflict [post]
func (h *AppointmentHandler) CheckConflict(w http.ResponseWriter, r *http.Request) {
	var req dto.SlotCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.appointmentUsecase.CheckConflict(r.Context(), &req)
	if err != nil {
		writeAppointmentError(w, err, "Failed to check slot")
		return
	}

	response.Success(w, http.StatusOK, "Slot checked successfully", result)
}

// GetAvailability lists free slots of a dentist-day
// @Summary Dentist availability
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param dentist_id query string true "Dentist ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param start_time query string true "Requested start"
// @Param end_time query string true "Requested end"
// @Param exclude_id query string false "Appointment to leave out"
// @Success 200 {object} response.Response
// @Router /appointments/availability [get]
func (h *AppointmentHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := dto.SlotCheckRequest{
		DentistID:            query.Get("dentist_id"),
		AppointmentDate:      query.Get("date"),
		StartTime:            query.Get("start_time"),
		EndTime:              query.Get("end_time"),
		ExcludeAppointmentID: query.Get("exclude_id"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	availability, err := h.appointmentUsecase.GetAvailability(r.Context(), &req)
	if err != nil {
		writeAppointmentError(w, err, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}

func appointmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func writeAppointmentError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, timeslot.ErrInvalidTimeFormat),
		errors.Is(err, timeslot.ErrInvalidInterval),
		errors.Is(err, usecase.ErrInvalidDateFormat),
		errors.Is(err, usecase.ErrEndTimeRequired),
		errors.Is(err, usecase.ErrAppointmentInPast),
		errors.Is(err, usecase.ErrDentistInactive),
		errors.Is(err, usecase.ErrPatientInactive):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, "Patient not found")
	case errors.Is(err, usecase.ErrDentistNotFound):
		response.NotFound(w, "Dentist not found")
	case errors.Is(err, usecase.ErrTreatmentNotFound):
		response.NotFound(w, "Treatment not found")
	case errors.Is(err, usecase.ErrAppointmentNotEditable),
		errors.Is(err, usecase.ErrInvalidStatusTransition):
		response.Error(w, http.StatusConflict, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
