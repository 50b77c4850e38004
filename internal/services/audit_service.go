package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"flesk/internal/logger"
	"flesk/internal/models"
)

// Audit actions recorded by the handlers.
const (
	AuditActionLogin              = "LOGIN"
	AuditActionRegister           = "REGISTER"
	AuditActionDeleteTransaction  = "DELETE_TRANSACTION"
	AuditActionDeleteBudget       = "DELETE_BUDGET"
	AuditActionDeleteSubscription = "DELETE_SUBSCRIPTION"
	AuditActionDeleteGoal         = "DELETE_GOAL"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Failures are logged and swallowed so the
// audited operation still succeeds.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
	}
	if len(changes) > 0 {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit changes", "error", err, "action", action)
			data = []byte("{}")
		}
		entry.Changes = string(data)
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}
