package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin            = "LOGIN"
	AuditActionRegister         = "REGISTER"
	AuditActionUserUpdate       = "USER_UPDATE"
	AuditActionUserStatus       = "USER_STATUS"
	AuditActionUserDelete       = "USER_DELETE"
	AuditActionEnrollmentCreate = "ENROLLMENT_CREATE"
	AuditActionEnrollmentStatus = "ENROLLMENT_STATUS"
	AuditActionEnrollmentUpdate = "ENROLLMENT_UPDATE"
	AuditActionPaymentVerify    = "PAYMENT_VERIFY"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string      `db:"id" json:"id"`
	UserID     *int64      `db:"user_id" json:"userId,omitempty"`
	Action     string      `db:"action" json:"action"`
	Resource   string      `db:"resource" json:"resource"`
	ResourceID *string     `db:"resource_id" json:"resourceId,omitempty"`
	OldValues  JSONPayload `db:"old_values" json:"oldValues,omitempty"`
	NewValues  JSONPayload `db:"new_values" json:"newValues,omitempty"`
	IPAddress  string      `db:"ip_address" json:"ipAddress"`
	UserAgent  string      `db:"user_agent" json:"userAgent"`
	CreatedAt  time.Time   `db:"created_at" json:"createdAt"`
}

// JSONPayload is raw JSON stored in a JSONB column. It is sent as text so the
// driver does not encode it as bytea.
type JSONPayload []byte

// Value implements driver.Valuer.
func (p JSONPayload) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return string(p), nil
}

// Scan implements sql.Scanner.
func (p *JSONPayload) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = nil
	case []byte:
		*p = append((*p)[:0], v...)
	case string:
		*p = JSONPayload(v)
	default:
		return fmt.Errorf("unsupported json payload type %T", src)
	}
	return nil
}

// MarshalJSON emits the payload verbatim.
func (p JSONPayload) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	return p, nil
}
