package mapping

import (
	"github.com/weqtian/user_center/internal/core/domain"
	"github.com/weqtian/user_center/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		ID:           d.ID,
		UserID:       d.UserID,
		DisplayID:    d.DisplayID,
		Email:        d.Email,
		Nickname:     d.Nickname,
		HeadFileURL:  d.HeadFileURL,
		Gender:       int(d.Gender),
		Birthday:     d.Birthday,
		Password:     d.PasswordHash,
		CreateIP:     d.CreateIP,
		RoleID:       d.RoleID,
		AccessToken:  d.AccessToken,
		RefreshToken: d.RefreshToken,
		IsActive:     d.IsActive,
		IsDeleted:    d.IsDeleted,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		ID:           m.ID,
		UserID:       m.UserID,
		DisplayID:    m.DisplayID,
		Email:        m.Email,
		Nickname:     m.Nickname,
		HeadFileURL:  m.HeadFileURL,
		Gender:       domain.Gender(m.Gender),
		Birthday:     m.Birthday,
		PasswordHash: m.Password,
		CreateIP:     m.CreateIP,
		RoleID:       m.RoleID,
		AccessToken:  m.AccessToken,
		RefreshToken: m.RefreshToken,
		IsActive:     m.IsActive,
		IsDeleted:    m.IsDeleted,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainUserSlice converts a slice of model Users to a slice of domain Users
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}
