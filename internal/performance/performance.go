// Package performance manages performance reviews. Reviews are written
// exclusively by administrators; every principal can read their own, while
// administrators read all of them together with aggregate statistics.
package performance

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Review statuses.
const (
	StatusPending          = "pending"
	StatusCompleted        = "completed"
	StatusNeedsImprovement = "needs_improvement"
)

// StringList stores a JSON array of strings in a single column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
	return json.Unmarshal(raw, l)
}

// Review is the persisted shape of a performance review. The six category
// scores are optional; the overall score is derived, never submitted.
type Review struct {
	ID                  int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID              string     `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	ReviewerID          *string    `gorm:"column:reviewer_id;type:uuid" json:"reviewer_id,omitempty"`
	AttendanceScore     *int       `gorm:"column:attendance_score" json:"attendance_score,omitempty"`
	EfficiencyScore     *int       `gorm:"column:efficiency_score" json:"efficiency_score,omitempty"`
	QualityScore        *int       `gorm:"column:quality_score" json:"quality_score,omitempty"`
	TeamworkScore       *int       `gorm:"column:teamwork_score" json:"teamwork_score,omitempty"`
	CommunicationScore  *int       `gorm:"column:communication_score" json:"communication_score,omitempty"`
	PunctualityScore    *int       `gorm:"column:punctuality_score" json:"punctuality_score,omitempty"`
	OverallScore        *int       `gorm:"column:overall_score" json:"overall_score,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	ReviewPeriod        *string    `gorm:"column:review_period" json:"review_period,omitempty"`
	ReviewDate          *time.Time `gorm:"column:review_date" json:"review_date,omitempty"`
	GoalsAchieved       StringList `gorm:"column:goals_achieved;type:text" json:"goals_achieved,omitempty"`
	AreasForImprovement StringList `gorm:"column:areas_for_improvement;type:text" json:"areas_for_improvement,omitempty"`
	Status              string     `gorm:"default:pending" json:"status"`
	CreatedAt           time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Review) TableName() string {
	return "performance_reviews"
}

func (r *Review) categoryScores() []*int {
	return []*int{
		r.AttendanceScore,
		r.EfficiencyScore,
		r.QualityScore,
		r.TeamworkScore,
		r.CommunicationScore,
		r.PunctualityScore,
	}
}

// ComputeOverallScore derives the overall score as the rounded mean of the
// category scores that are present and greater than zero. An absent or zero
// score is excluded from the average, not counted as zero. When no category
// qualifies, the result is nil and any previously derived score is kept by
// the caller.
func ComputeOverallScore(r *Review) *int {
	sum, n := 0, 0
	for _, s := range r.categoryScores() {
		if s != nil && *s > 0 {
			sum += *s
			n++
		}
	}
	if n == 0 {
		return nil
	}
	overall := int(math.Round(float64(sum) / float64(n)))
	return &overall
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusNeedsImprovement:
		return true
	}
	return false
}

// Repository is the persistence contract for performance reviews.
type Repository interface {
	Create(ctx context.Context, rv *Review) error
	GetByID(ctx context.Context, id int64) (*Review, error)
	ListAll(ctx context.Context) ([]Review, error)
	ListByUser(ctx context.Context, userID string) ([]Review, error)
	Update(ctx context.Context, rv *Review) error
	Delete(ctx context.Context, id int64) error
}
