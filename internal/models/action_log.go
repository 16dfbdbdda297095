package models

import "time"

// ActionLog is an append-only audit row recorded for every mutating HTTP
// request (POST, PUT, DELETE, PATCH). GET requests are not logged.
type ActionLog struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	UserID         *uint     `gorm:"index" json:"user_id,omitempty"`
	Username       string    `json:"username,omitempty"`
	UserRole       string    `json:"user_role,omitempty"`
	HTTPMethod     string    `gorm:"size:10;not null" json:"http_method"`
	RequestURI     string    `gorm:"not null" json:"request_uri"`
	ResourceType   string    `gorm:"index" json:"resource_type,omitempty"`
	ResourceID     *uint     `json:"resource_id,omitempty"`
	ActionLabel    string    `json:"action_label,omitempty"`
	QueryString    string    `json:"query_string,omitempty"`
	ResponseStatus int       `json:"response_status"`
	Success        bool      `gorm:"index" json:"success"`
	ClientIP       string    `json:"client_ip,omitempty"`
	UserAgent      string    `json:"user_agent,omitempty"`
	ErrorMessage   string    `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (ActionLog) TableName() string {
	return "action_logs"
}
