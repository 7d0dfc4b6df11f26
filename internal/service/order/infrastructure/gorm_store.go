package infrastructure

import (
	"context"

	"bookhub/internal/pkg/database"
	"bookhub/internal/service/order/domain"

	"gorm.io/gorm"
)

// GormStore 是 domain.Store 的 GORM 实现。
// 事务内构造的 GormStore 绑定 tx，所有仓储共享同一个事务。
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Books() domain.BookRepository         { return &bookRepository{db: s.db} }
func (s *GormStore) Carts() domain.CartRepository         { return &cartRepository{db: s.db} }
func (s *GormStore) Orders() domain.OrderRepository       { return &orderRepository{db: s.db} }
func (s *GormStore) Customers() domain.CustomerRepository { return &customerRepository{db: s.db} }
func (s *GormStore) Notices() domain.NoticeRepository     { return &noticeRepository{db: s.db} }

func (s *GormStore) Atomic(ctx context.Context, fn func(tx domain.Store) error) error {
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}
