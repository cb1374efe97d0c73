package audit

import (
	"context"
	"log/slog"
	"time"

	auditDatamodel "github.com/danuarta/hr-portal/internal/core/datamodel/audit"
	"github.com/danuarta/hr-portal/internal/core/events"
)

// Repository is the persistence contract for audit records.
type Repository interface {
	Insert(ctx context.Context, record *auditDatamodel.Auditlog) error
	List(ctx context.Context, filter ListFilter) ([]auditDatamodel.Auditlog, int64, error)
}

// Recorder writes audit records. Record and RecordAuthEvent are best-effort;
// List propagates errors normally since the caller is waiting on it.
type Recorder struct {
	repo   Repository
	logger *slog.Logger
}

func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger,
	}
}

// Record persists one entry. The returned WriteResult carries any failure;
// callers log and discard it.
func (rec *Recorder) Record(ctx context.Context, entry Entry) WriteResult {
	occurredAt := entry.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	record := &auditDatamodel.Auditlog{
		UserID:     entry.UserID,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		Action:     entry.Action,
		RouteName:  entry.RouteName,
		HTTPMethod: entry.Method,
		URL:        entry.URL,
		TargetType: entry.TargetType,
		TargetID:   entry.TargetID,
		StatusCode: entry.StatusCode,
		Message:    entry.Message,
		Meta:       auditDatamodel.JSONMap(entry.Meta),
		Context:    auditDatamodel.JSONMap(entry.Context),
		OccurredAt: occurredAt,
	}
	if record.Meta == nil {
		record.Meta = auditDatamodel.JSONMap{}
	}
	if record.Context == nil {
		record.Context = auditDatamodel.JSONMap{}
	}

	if err := rec.repo.Insert(ctx, record); err != nil {
		return WriteResult{Err: err}
	}
	return WriteResult{}
}

// RecordAuthEvent persists a record for one authentication lifecycle event.
// Failures are logged to the diagnostics channel and discarded.
func (rec *Recorder) RecordAuthEvent(ctx context.Context, action string, data events.AuthEventData) {
	var userID *string
	if data.UserID != "" {
		id := data.UserID
		userID = &id
	}
	var routeName *string
	if data.RouteName != "" {
		rn := data.RouteName
		routeName = &rn
	}

	meta := map[string]interface{}{}
	if action == ActionLoginFailed && data.Email != "" {
		// attempted email kept for forensics, never the password
		meta["email"] = data.Email
	}

	result := rec.Record(ctx, Entry{
		UserID:    userID,
		Action:    action,
		IPAddress: data.IPAddress,
		UserAgent: data.UserAgent,
		RouteName: routeName,
		Method:    data.Method,
		URL:       data.URL,
		Meta:      meta,
	})
	if result.Failed() {
		rec.logger.Error("auth event audit write failed", "error", result.Err, "action", action)
	}
}

// SubscribeAuthEvents wires the recorder to the authentication lifecycle
// publisher.
func (rec *Recorder) SubscribeAuthEvents(bus *events.EventBus) {
	handler := func(action string) events.Handler {
		return func(ctx context.Context, event events.Event) error {
			data, ok := event.Payload().(map[string]interface{})
			if !ok {
				return nil
			}
			rec.RecordAuthEvent(ctx, action, events.AuthEventData{
				UserID:    stringField(data, "user_id"),
				Email:     stringField(data, "email"),
				IPAddress: stringField(data, "ip_address"),
				UserAgent: stringField(data, "user_agent"),
				RouteName: stringField(data, "route_name"),
				Method:    stringField(data, "method"),
				URL:       stringField(data, "url"),
			})
			return nil
		}
	}

	bus.Subscribe(events.AuthLogin, handler(ActionLogin))
	bus.Subscribe(events.AuthLogout, handler(ActionLogout))
	bus.Subscribe(events.AuthLoginFailed, handler(ActionLoginFailed))
	bus.Subscribe(events.AuthRegistered, handler(ActionRegistered))
}

// List returns one page of audit records matching the filter, most recent
// occurrence first.
func (rec *Recorder) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	filter.Normalize()

	records, total, err := rec.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, RecordView{
			ID:         r.ID,
			UserID:     r.UserID,
			IPAddress:  r.IPAddress,
			UserAgent:  r.UserAgent,
			Action:     r.Action,
			RouteName:  r.RouteName,
			HTTPMethod: r.HTTPMethod,
			URL:        r.URL,
			TargetType: r.TargetType,
			TargetID:   r.TargetID,
			StatusCode: r.StatusCode,
			Message:    r.Message,
			Meta:       map[string]interface{}(r.Meta),
			Context:    map[string]interface{}(r.Context),
			OccurredAt: r.OccurredAt,
		})
	}

	return &ListResult{
		Data:     views,
		Page:     filter.Page,
		PageSize: PageSize,
		Total:    total,
	}, nil
}

func stringField(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
