package services

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"vestisen/internal/logger"
	"vestisen/internal/models"
)

// LogInternal records an internal (non-HTTP) action such as a sweep revert or
// an approval clock start. Failures are logged and swallowed: audit logging
// never fails the primary operation.
func LogInternal(db *gorm.DB, user *models.User, label, resourceType string, resourceID uint, success bool) {
	entry := models.ActionLog{
		ActionLabel:  label,
		ResourceType: resourceType,
		ResourceID:   &resourceID,
		Success:      success,
		Username:     "system",
	}
	if user != nil {
		entry.UserID = &user.ID
		entry.Username = user.Email
		entry.UserRole = string(user.Role)
	}
	if err := db.Create(&entry).Error; err != nil {
		logger.Log.Warn("action log insert failed", zap.Error(err))
	}
}
