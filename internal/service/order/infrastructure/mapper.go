package infrastructure

import (
	"bookhub/internal/service/order/domain"
)

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ToDomainCartItem(m *CartModel) *domain.CartItem {
	return &domain.CartItem{
		ID:           m.ID,
		UserID:       m.UserID,
		BookID:       m.BookID,
		Quantity:     m.Quantity,
		PricePerUnit: m.PricePerUnit,
		DateAdded:    m.DateAdded,
	}
}

func FromDomainCartItem(c *domain.CartItem) *CartModel {
	return &CartModel{
		ID:           c.ID,
		UserID:       c.UserID,
		BookID:       c.BookID,
		Quantity:     c.Quantity,
		PricePerUnit: c.PricePerUnit,
		DateAdded:    c.DateAdded,
	}
}

// ToDomainOrder 将数据库模型转换为领域模型，Items 需已预加载。
func ToDomainOrder(m *OrderModel) *domain.Order {
	o := &domain.Order{
		ID:           m.ID,
		UserID:       m.UserID,
		OrderDate:    m.OrderDate,
		Subtotal:     m.Subtotal,
		DiscountRate: m.DiscountRate,
		FinalAmount:  m.FinalAmount,
		Status:       m.Status,
		ClaimCode:    deref(m.ClaimCode),
		RedeemedCode: deref(m.RedeemedCode),
		Items:        make([]domain.OrderItem, 0, len(m.Items)),
	}
	for _, it := range m.Items {
		o.Items = append(o.Items, domain.OrderItem{
			ID:           it.ID,
			OrderID:      it.OrderID,
			BookID:       it.BookID,
			BookTitle:    it.BookTitle,
			BookImage:    it.BookImage,
			Quantity:     it.Quantity,
			PricePerUnit: it.PricePerUnit,
		})
	}
	return o
}

// FromDomainOrder 将领域模型转换为数据库模型（连同订单行一起插入）
func FromDomainOrder(o *domain.Order) *OrderModel {
	m := &OrderModel{
		ID:           o.ID,
		UserID:       o.UserID,
		OrderDate:    o.OrderDate,
		Subtotal:     o.Subtotal,
		DiscountRate: o.DiscountRate,
		FinalAmount:  o.FinalAmount,
		Status:       o.Status,
		ClaimCode:    nullable(o.ClaimCode),
		RedeemedCode: nullable(o.RedeemedCode),
		Items:        make([]OrderItemModel, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		m.Items = append(m.Items, OrderItemModel{
			ID:           it.ID,
			OrderID:      o.ID,
			BookID:       it.BookID,
			BookTitle:    it.BookTitle,
			BookImage:    it.BookImage,
			Quantity:     it.Quantity,
			PricePerUnit: it.PricePerUnit,
		})
	}
	return m
}
