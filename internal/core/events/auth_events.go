package events

import (
	"time"

	"github.com/google/uuid"
)

// Authentication lifecycle event types consumed by the audit recorder.
const (
	AuthLogin       = "auth.login"
	AuthLogout      = "auth.logout"
	AuthLoginFailed = "auth.login_failed"
	AuthRegistered  = "auth.registered"
)

// AuthEventData carries the request attributes known at the time the
// authentication event fired. UserID is empty for failed logins.
type AuthEventData struct {
	UserID    string
	Email     string
	IPAddress string
	UserAgent string
	RouteName string
	Method    string
	URL       string
}

func NewAuthEvent(eventType string, data AuthEventData) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id":    data.UserID,
			"email":      data.Email,
			"ip_address": data.IPAddress,
			"user_agent": data.UserAgent,
			"route_name": data.RouteName,
			"method":     data.Method,
			"url":        data.URL,
		},
	}
}
