package domain

import (
	"errors"
	"fmt"
)

var (
	ErrBookNotFound          = errors.New("Book not found")
	ErrCartItemNotFound      = errors.New("Cart item not found")
	ErrInvalidQuantity       = errors.New("Quantity must be greater than zero")
	ErrCartEmpty             = errors.New("Cart is empty")
	ErrCartBookUnavailable   = errors.New("One or more books in your cart are no longer available")
	ErrCustomerNotFound      = errors.New("User not found")
	ErrOrderNotFound         = errors.New("Order not found")
	ErrClaimCodeNotFound     = errors.New("Invalid claim code.")
	ErrOrderAlreadyCompleted = errors.New("This order is already marked as completed.")
	ErrOrderCancelled        = errors.New("This order has been cancelled.")
	ErrLoyaltyChanged        = errors.New("Your account was updated while placing the order, please try again")
	ErrClaimInProgress       = errors.New("This claim code is being processed, please try again")

	// ErrStockLimit 和 ErrInsufficientStock 供 errors.Is 判断，具体信息见对应的错误类型。
	ErrStockLimit        = errors.New("requested quantity exceeds stock")
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrCartConflict 表示同一本书的购物车行被并发创建，调用方应重新读取后重试。
	ErrCartConflict = errors.New("cart line created concurrently")
	// ErrStatusChanged 表示 CAS 更新订单状态时，状态已被其他请求修改。
	ErrStatusChanged = errors.New("order status changed concurrently")
)

// StockLimitError 是加入或修改购物车时数量超过库存的错误。
type StockLimitError struct {
	Available int
	Requested int
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("Only %d units available in stock. You tried to add %d.", e.Available, e.Requested)
}

func (e *StockLimitError) Is(target error) bool {
	return target == ErrStockLimit
}

// InsufficientStockError 是提货时某本书库存不足的错误，整单不会被部分履约。
type InsufficientStockError struct {
	Title     string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for '%s'. Available: %d, requested: %d.", e.Title, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
