package converter

import (
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
)

func AuditLogToResponse(log *entity.AuditLog) *dto.AuditLogResponse {
	if log == nil {
		return nil
	}

	kind, id := log.Subject()
	response := &dto.AuditLogResponse{
		ID:        log.ID,
		UserID:    log.UserID,
		Action:    log.Action,
		Entity:    kind,
		EntityID:  id,
		Metadata:  log.Metadata,
		CreatedAt: log.CreatedAt,
	}
	if log.User != nil {
		response.UserName = log.User.FullName()
	}
	return response
}

func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, len(logs))
	for i := range logs {
		responses[i] = *AuditLogToResponse(&logs[i])
	}
	return responses
}
