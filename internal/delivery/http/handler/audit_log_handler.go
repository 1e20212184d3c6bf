package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/usecase"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/response"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/validator"

	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
	validator       *validator.CustomValidator
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase, validator *validator.CustomValidator) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
		validator:       validator,
	}
}

// GetAllAuditLogs lists the audit trail, newest first
// @Summary List audit logs
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param action query string false "Action, e.g. appointment.create"
// @Param user_id query string false "Acting user ID"
// @Param entity query string false "Record kind"
// @Param entity_id query string false "Record ID"
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Response
// @Router /admin/audit-logs [get]
func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))
	req := dto.ListAuditLogsRequest{
		Action:   query.Get("action"),
		UserID:   query.Get("user_id"),
		Entity:   query.Get("entity"),
		EntityID: query.Get("entity_id"),
		From:     query.Get("from"),
		To:       query.Get("to"),
		Limit:    limit,
		Offset:   offset,
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	logs, err := h.auditLogUsecase.GetAllAuditLogs(r.Context(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidAuditRange) || errors.Is(err, usecase.ErrInvalidAuditFilter) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalServerError(w, "Failed to get audit logs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", logs.Logs,
		response.NewMeta(logs.Limit, logs.Offset, logs.Total))
}

// GetAuditLog returns one audit entry
// @Summary Get audit log
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Audit log ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/audit-logs/{id} [get]
func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	auditLogID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || auditLogID <= 0 {
		response.BadRequest(w, "Invalid audit log ID")
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), auditLogID)
	if err != nil {
		if errors.Is(err, usecase.ErrAuditLogNotFound) {
			response.NotFound(w, "Audit log not found")
			return
		}
		response.InternalServerError(w, "Failed to get audit log")
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}
