package service

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/edulearn-api/internal/models"
)

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// reportInvalidator drops cached statistics after writes that change them.
type reportInvalidator interface {
	Invalidate(ctx context.Context, reports ...string)
}

// recordAudit stores an audit entry. Failures are logged and never surface to callers.
func recordAudit(ctx context.Context, recorder auditRecorder, logger *zap.Logger, meta models.RequestMeta, action, resource string, resourceID int64, oldValues, newValues interface{}) {
	if recorder == nil {
		return
	}
	entry := &models.AuditLog{
		UserID:    meta.ActorID,
		Action:    action,
		Resource:  resource,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
		OldValues: marshalAudit(oldValues),
		NewValues: marshalAudit(newValues),
	}
	if resourceID > 0 {
		id := strconv.FormatInt(resourceID, 10)
		entry.ResourceID = &id
	}
	if err := recorder.CreateAuditLog(ctx, entry); err != nil {
		logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}

func marshalAudit(value interface{}) models.JSONPayload {
	if value == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return models.JSONPayload(raw)
}

func invalidateReports(ctx context.Context, invalidator reportInvalidator, reports ...string) {
	if invalidator == nil {
		return
	}
	invalidator.Invalidate(ctx, reports...)
}
