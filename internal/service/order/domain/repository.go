package domain

import "context"

// Customer 是订单流程关心的用户信息，数据来自 identity 维护的 users 表。
type Customer struct {
	ID                 string
	UserName           string
	Email              string
	CompleteOrderCount int
}

type BookRepository interface {
	FindByID(ctx context.Context, id string) (*Book, error)
	// DecrementStock 仅在库存 >= quantity 时扣减，返回是否扣减成功。
	DecrementStock(ctx context.Context, bookID string, quantity int) (bool, error)
}

type CartRepository interface {
	// FindByID 只返回属于 userID 的购物车行。
	FindByID(ctx context.Context, id, userID string) (*CartItem, error)
	FindByBook(ctx context.Context, userID, bookID string) (*CartItem, error)
	// Create 在 (user, book) 已有行时返回 ErrCartConflict。
	Create(ctx context.Context, c *CartItem) error
	Save(ctx context.Context, c *CartItem) error
	Delete(ctx context.Context, id, userID string) error
	ListByUser(ctx context.Context, userID string) ([]CartLine, error)
	ClearUser(ctx context.Context, userID string) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	// FindByClaimCode 同时匹配未核销与已核销的提货码。
	FindByClaimCode(ctx context.Context, code string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	ListAll(ctx context.Context) ([]OrderView, error)
	// UpdateStatus 仅当当前状态仍为 from 时写入 o 的状态和提货码，否则返回 ErrStatusChanged。
	UpdateStatus(ctx context.Context, o *Order, from Status) error
}

type CustomerRepository interface {
	FindByID(ctx context.Context, id string) (*Customer, error)
	// ResetLoyalty 仅当完成单数仍为 expected 时清零，否则返回 ErrLoyaltyChanged。
	ResetLoyalty(ctx context.Context, id string, expected int) error
	IncrementCompleted(ctx context.Context, id string) error
}

type NoticeRepository interface {
	Create(ctx context.Context, n *Notice) error
}

// Store 聚合订单流程用到的仓储。Atomic 中的 tx 绑定同一个数据库事务。
type Store interface {
	Books() BookRepository
	Carts() CartRepository
	Orders() OrderRepository
	Customers() CustomerRepository
	Notices() NoticeRepository
	Atomic(ctx context.Context, fn func(tx Store) error) error
}
