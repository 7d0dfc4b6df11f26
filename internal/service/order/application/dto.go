package application

import (
	"time"

	"bookhub/internal/service/order/domain"

	"github.com/shopspring/decimal"
)

type AddToCartRequest struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

type CartLineDTO struct {
	CartID       string          `json:"cartId"`
	BookID       string          `json:"bookId"`
	Title        string          `json:"title"`
	Author       string          `json:"author"`
	Image        string          `json:"image"`
	Genre        string          `json:"genre"`
	Quantity     int             `json:"quantity"`
	PricePerUnit int             `json:"pricePerUnit"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	DateAdded    time.Time       `json:"dateAdded"`
}

type PlaceOrderResponse struct {
	OrderID         string          `json:"orderId"`
	ClaimCode       string          `json:"claimCode"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	DiscountApplied string          `json:"discountApplied"`
}

type OrderItemDTO struct {
	OrderItemID  string          `json:"orderItemId"`
	BookID       string          `json:"bookId"`
	BookTitle    string          `json:"bookTitle"`
	BookImage    string          `json:"bookImage"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
}

type OrderDTO struct {
	OrderID      string          `json:"orderId"`
	UserID       string          `json:"userId,omitempty"`
	UserName     string          `json:"userName,omitempty"`
	Email        string          `json:"email,omitempty"`
	OrderDate    time.Time       `json:"orderDate"`
	Status       domain.Status   `json:"status"`
	DiscountRate decimal.Decimal `json:"discountRate"`
	FinalAmount  decimal.Decimal `json:"finalAmount"`
	ClaimCode    string          `json:"claimCode,omitempty"`
	Items        []OrderItemDTO  `json:"items"`
}

type VerifyClaimRequest struct {
	ClaimCode string `json:"claimCode"`
}

type ClaimResult struct {
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

func toCartLineDTO(l domain.CartLine) CartLineDTO {
	dto := CartLineDTO{
		CartID:       l.ID,
		BookID:       l.BookID,
		Quantity:     l.Quantity,
		PricePerUnit: l.PricePerUnit,
		TotalPrice:   l.LineTotal(),
		DateAdded:    l.DateAdded,
	}
	if l.Book != nil {
		dto.Title = l.Book.Title
		dto.Author = l.Book.Author
		dto.Image = l.Book.Image
		dto.Genre = l.Book.Genre
	}
	return dto
}

// toOrderDTO 只在订单待提货时返回提货码。
func toOrderDTO(o *domain.Order) OrderDTO {
	dto := OrderDTO{
		OrderID:      o.ID,
		OrderDate:    o.OrderDate,
		Status:       o.Status,
		DiscountRate: o.DiscountRate,
		FinalAmount:  o.FinalAmount,
		Items:        make([]OrderItemDTO, 0, len(o.Items)),
	}
	if o.Status == domain.StatusPending {
		dto.ClaimCode = o.ClaimCode
	}
	for _, it := range o.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			OrderItemID:  it.ID,
			BookID:       it.BookID,
			BookTitle:    it.BookTitle,
			BookImage:    it.BookImage,
			Quantity:     it.Quantity,
			PricePerUnit: it.PricePerUnit,
		})
	}
	return dto
}
