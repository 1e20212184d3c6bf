package dto

import (
	"time"

	"github.com/google/uuid"
)

// ListAuditLogsRequest filters the audit trail; dates are YYYY-MM-DD and inclusive.
type ListAuditLogsRequest struct {
	Action   string `json:"action" validate:"omitempty,max=100"`
	UserID   string `json:"user_id" validate:"omitempty,uuid"`
	Entity   string `json:"entity" validate:"omitempty,oneof=appointment patient treatment user dentist"`
	EntityID string `json:"entity_id" validate:"omitempty,max=64"`
	From     string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string `json:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit    int    `json:"limit" validate:"gte=0,lte=100"`
	Offset   int    `json:"offset" validate:"gte=0"`
}

type AuditLogResponse struct {
	ID        int64                  `json:"id"`
	UserID    *uuid.UUID             `json:"user_id,omitempty"`
	UserName  string                 `json:"user_name,omitempty"`
	Action    string                 `json:"action"`
	Entity    string                 `json:"entity,omitempty"`
	EntityID  string                 `json:"entity_id,omitempty"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs   []AuditLogResponse `json:"logs"`
	Total  int64              `json:"total"`
	Limit  int                `json:"-"`
	Offset int                `json:"-"`
}
