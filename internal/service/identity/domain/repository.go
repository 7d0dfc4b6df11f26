package domain

import "context"

// UserRepository 定义了用户的持久化接口。
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByUserName(ctx context.Context, userName string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
	ListByRoles(ctx context.Context, roles ...Role) ([]*User, error)
	UpdateRole(ctx context.Context, id string, role Role) error
	// Atomic 在同一事务中执行 fn，fn 中必须使用传入的 repo。
	Atomic(ctx context.Context, fn func(repo UserRepository) error) error
}
