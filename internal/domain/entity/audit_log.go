package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog is one row of the clinic's change history. Metadata carries the
// affected record ("entity", "entity_id") plus old and new values.
type AuditLog struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Subject returns the record kind and id the entry refers to, empty for plain events.
func (a *AuditLog) Subject() (string, string) {
	kind, _ := a.Metadata["entity"].(string)
	id, _ := a.Metadata["entity_id"].(string)
	return kind, id
}

// AuditLogFilter narrows the admin audit trail. Zero values match everything.
type AuditLogFilter struct {
	Action   string
	UserID   *uuid.UUID
	Entity   string
	EntityID string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// JSON maps a jsonb column.
type JSON map[string]interface{}

func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSON) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb value of type %T", value)
	}

	decoded := map[string]interface{}{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*j = decoded
	return nil
}

const (
	AuditActionUserLogin           = "user.login"
	AuditActionUserLogout          = "user.logout"
	AuditActionStaffCreate         = "staff.create"
	AuditActionDentistUpdate       = "dentist.update"
	AuditActionPatientCreate       = "patient.create"
	AuditActionPatientUpdate       = "patient.update"
	AuditActionAppointmentCreate   = "appointment.create"
	AuditActionAppointmentUpdate   = "appointment.reschedule"
	AuditActionAppointmentStatus   = "appointment.status"
	AuditActionTreatmentCreate     = "treatment.create"
	AuditActionTreatmentUpdate     = "treatment.update"
	AuditActionTreatmentDeactivate = "treatment.deactivate"
)
