package infrastructure

import "bookhub/internal/service/identity/domain"

// ToDomainUser 将数据库模型转换为领域模型
func ToDomainUser(m *UserModel) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:                 m.ID,
		UserName:           m.UserName,
		Email:              m.Email,
		PasswordHash:       m.PasswordHash,
		Role:               m.Role,
		CompleteOrderCount: m.CompleteOrderCount,
		CreatedAt:          m.CreatedAt,
	}
}

// FromDomainUser 将领域模型转换为数据库模型（用于插入）
func FromDomainUser(u *domain.User) *UserModel {
	if u == nil {
		return nil
	}
	return &UserModel{
		ID:                 u.ID,
		UserName:           u.UserName,
		Email:              u.Email,
		PasswordHash:       u.PasswordHash,
		Role:               u.Role,
		CompleteOrderCount: u.CompleteOrderCount,
		CreatedAt:          u.CreatedAt,
	}
}
