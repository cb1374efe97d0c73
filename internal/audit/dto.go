package audit

import "time"

// ListFilter restricts an audit log listing. Action and UserID are exact
// matches; Search is a case-insensitive substring matched against message,
// url, route_name and ip_address, combined with OR.
type ListFilter struct {
	Action string
	UserID string
	Search string
	Page   int
}

// Normalize applies pagination defaults.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
}

func (f *ListFilter) Offset() int {
	return (f.Page - 1) * PageSize
}

// RecordView is the API response shape for one audit record.
type RecordView struct {
	ID         int64                  `json:"id"`
	UserID     *string                `json:"user_id"`
	IPAddress  string                 `json:"ip_address"`
	UserAgent  string                 `json:"user_agent"`
	Action     string                 `json:"action"`
	RouteName  *string                `json:"route_name"`
	HTTPMethod string                 `json:"http_method"`
	URL        string                 `json:"url"`
	TargetType *string                `json:"target_type,omitempty"`
	TargetID   *string                `json:"target_id,omitempty"`
	StatusCode *int                   `json:"status_code"`
	Message    *string                `json:"message"`
	Meta       map[string]interface{} `json:"meta"`
	Context    map[string]interface{} `json:"context"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// ListResult is one page of audit records, most recent occurrence first.
type ListResult struct {
	Data     []RecordView `json:"data"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Total    int64        `json:"total"`
}
