package postgres

import (
	"context"
	"strings"

	"github.com/danuarta/hr-portal/internal/audit"
	auditDatamodel "github.com/danuarta/hr-portal/internal/core/datamodel/audit"
	"gorm.io/gorm"
)

// AuditRepository implements audit.Repository on GORM. Records are
// append-only; there is no update or delete path.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, record *auditDatamodel.Auditlog) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *AuditRepository) List(ctx context.Context, filter audit.ListFilter) ([]auditDatamodel.Auditlog, int64, error) {
	query := r.db.WithContext(ctx).Model(&auditDatamodel.Auditlog{})

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(COALESCE(message, '')) LIKE ? OR LOWER(url) LIKE ? OR LOWER(COALESCE(route_name, '')) LIKE ? OR LOWER(ip_address) LIKE ?",
			term, term, term, term,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []auditDatamodel.Auditlog
	err := query.
		Order("occurred_at DESC").
		Limit(audit.PageSize).
		Offset(filter.Offset()).
		Find(&records).Error
	return records, total, err
}
