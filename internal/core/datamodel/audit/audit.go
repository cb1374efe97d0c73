package audit

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// JSONMap stores arbitrary key/value metadata as a JSON column. Works on
// both postgres jsonb and the sqlite text columns used in tests.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return errors.New("unsupported type for JSONMap")
}

// Auditlog is one immutable record of a request/response pair or an
// authentication lifecycle event. Rows are append-only.
type Auditlog struct {
	ID             int64     `gorm:"primaryKey"`
	UserID         *string   `gorm:"column:user_id;type:uuid;index"`
	IPAddress      string    `gorm:"column:ip_address"`
	UserAgent      string    `gorm:"column:user_agent"`
	Action         string    `gorm:"index;not null"`
	RouteName      *string   `gorm:"column:route_name"`
	HTTPMethod     string    `gorm:"column:http_method"`
	URL            string    `gorm:"column:url"`
	TargetType     *string   `gorm:"column:target_type"`
	TargetID       *string   `gorm:"column:target_id"`
	StatusCode     *int      `gorm:"column:status_code"`
	Message        *string   `gorm:"column:message"`
	Meta           JSONMap   `gorm:"column:meta;type:text"`
	Context        JSONMap   `gorm:"column:context;type:text"`
	OccurredAt     time.Time `gorm:"column:occurred_at;index;not null"`
	ImpersonatedBy *string   `gorm:"column:impersonated_by;type:uuid"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (Auditlog) TableName() string {
	return "auditlogs"
}
