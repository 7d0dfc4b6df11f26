package infrastructure

import (
	"context"

	"bookhub/internal/pkg/database"
	"bookhub/internal/service/identity/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GormUserRepository 是 UserRepository 的 GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create 插入用户；唯一索引冲突被翻译为对应的领域错误。
func (r *GormUserRepository) Create(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Create(FromDomainUser(u)).Error
	if err == nil {
		return nil
	}
	if database.IsDuplicateKey(err) {
		// 译后的错误不再携带索引名，回查一次确定是哪一列冲突。
		if taken, _ := r.ExistsByEmail(ctx, u.Email); taken {
			return domain.ErrEmailTaken
		}
		return domain.ErrUserNameTaken
	}
	return errors.Wrap(err, "failed to create user")
}

func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *GormUserRepository) findOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "failed to query user")
	}
	return ToDomainUser(&model), nil
}

func (r *GormUserRepository) ExistsByUserName(ctx context.Context, userName string) (bool, error) {
	return r.exists(ctx, "user_name = ?", userName)
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *GormUserRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&UserModel{}).Where(query, arg).Count(&n).Error; err != nil {
		return false, errors.Wrap(err, "failed to check user existence")
	}
	return n > 0, nil
}

func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&UserModel{}).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count users")
	}
	return n, nil
}

// ListByRoles 按注册时间倒序返回指定角色的用户。
func (r *GormUserRepository) ListByRoles(ctx context.Context, roles ...domain.Role) ([]*domain.User, error) {
	var models []UserModel
	err := r.db.WithContext(ctx).Where("role IN ?", roles).Order("created_at DESC").Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	users := make([]*domain.User, 0, len(models))
	for i := range models {
		users = append(users, ToDomainUser(&models[i]))
	}
	return users, nil
}

func (r *GormUserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	res := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to update role")
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *GormUserRepository) Atomic(ctx context.Context, fn func(repo domain.UserRepository) error) error {
	return database.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		return fn(&GormUserRepository{db: tx})
	})
}
