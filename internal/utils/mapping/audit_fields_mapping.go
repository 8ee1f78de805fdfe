package mapping

import (
	"time"

	"github.com/weqtian/user_center/internal/core/domain"
	"github.com/weqtian/user_center/internal/models"
)

// ToModelAuditFields converts a domain AuditFields to a model AuditFields
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreateDate:     d.CreatedAt.UTC(),
		CreateTime:     d.CreatedAt.UnixMilli(),
		CreateBy:       d.CreatedBy,
		LastModifyDate: d.LastUpdatedAt.UTC(),
		LastModifyTime: d.LastUpdatedAt.UnixMilli(),
		LastModifyBy:   d.LastUpdatedBy,
	}
}

// ToDomainAuditFields converts a model AuditFields to a domain AuditFields.
// The millisecond stamps are authoritative.
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     time.UnixMilli(m.CreateTime).UTC(),
		CreatedBy:     m.CreateBy,
		LastUpdatedAt: time.UnixMilli(m.LastModifyTime).UTC(),
		LastUpdatedBy: m.LastModifyBy,
	}
}
