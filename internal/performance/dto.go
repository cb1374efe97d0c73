package performance

import (
	"github.com/danuarta/hr-portal/internal"
)

// ReviewDTO is the create/update payload. On update the user_id is ignored;
// a review never moves between principals.
type ReviewDTO struct {
	UserID              string   `json:"user_id"`
	ReviewerID          string   `json:"reviewer_id"`
	AttendanceScore     *int     `json:"attendance_score"`
	EfficiencyScore     *int     `json:"efficiency_score"`
	QualityScore        *int     `json:"quality_score"`
	TeamworkScore       *int     `json:"teamwork_score"`
	CommunicationScore  *int     `json:"communication_score"`
	PunctualityScore    *int     `json:"punctuality_score"`
	Notes               string   `json:"notes"`
	ReviewPeriod        string   `json:"review_period"`
	ReviewDate          string   `json:"review_date"`
	GoalsAchieved       []string `json:"goals_achieved"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	Status              string   `json:"status"`
}

func (d *ReviewDTO) validateScores() error {
	scores := map[string]*int{
		"attendance_score":    d.AttendanceScore,
		"efficiency_score":    d.EfficiencyScore,
		"quality_score":       d.QualityScore,
		"teamwork_score":      d.TeamworkScore,
		"communication_score": d.CommunicationScore,
		"punctuality_score":   d.PunctualityScore,
	}
	for field, s := range scores {
		if s != nil && (*s < 0 || *s > 100) {
			return internal.NewValidationFieldError(field, field+" must be between 0 and 100", internal.ErrCodeInvalidScore)
		}
	}
	return nil
}

// ValidateCreate checks the payload for review creation.
func (d *ReviewDTO) ValidateCreate() error {
	if d.UserID == "" {
		return internal.NewValidationFieldError("user_id", "user_id is required", internal.ErrCodeValidationFailed)
	}
	return d.validate()
}

// ValidateUpdate checks the payload for review updates.
func (d *ReviewDTO) ValidateUpdate() error {
	return d.validate()
}

func (d *ReviewDTO) validate() error {
	if err := d.validateScores(); err != nil {
		return err
	}
	if d.Status != "" && !ValidStatus(d.Status) {
		return internal.NewValidationFieldError("status", "status must be one of pending, completed, needs_improvement", internal.ErrCodeInvalidStatus)
	}
	return nil
}

// Stats summarizes a set of reviews for the dashboard.
type Stats struct {
	AverageScore      float64           `json:"average_score"`
	TotalReviews      int               `json:"total_reviews"`
	HighPerformers    int               `json:"high_performers"`
	NeedsImprovement  int               `json:"needs_improvement"`
	ScoreDistribution ScoreDistribution `json:"score_distribution"`
}

// ScoreDistribution buckets overall scores for chart rendering.
type ScoreDistribution struct {
	Excellent int `json:"excellent"` // >= 90
	Good      int `json:"good"`      // 70-89
	Average   int `json:"average"`   // 50-69
	Poor      int `json:"poor"`      // < 50
}

// TrendPoint is one month of review activity.
type TrendPoint struct {
	Month        string  `json:"month"`
	AverageScore float64 `json:"average_score"`
	Count        int     `json:"count"`
}

// ListView is the index response for the performance page.
type ListView struct {
	Reviews []Review     `json:"reviews"`
	Stats   Stats        `json:"stats"`
	Trends  []TrendPoint `json:"trends"`
	IsAdmin bool         `json:"is_admin"`
}
