package application

import (
	"context"
	"errors"
	"time"

	"bookhub/internal/pkg/logger"
	"bookhub/internal/service/order/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OrderService 负责下单、查询和取消订单。
type OrderService struct {
	store  domain.Store
	policy domain.DiscountPolicy
	events domain.OrderEventPublisher
	tracer trace.Tracer
	now    func() time.Time
}

func NewOrderService(store domain.Store, policy domain.DiscountPolicy, events domain.OrderEventPublisher, tracer trace.Tracer) *OrderService {
	return &OrderService{store: store, policy: policy, events: events, tracer: tracer, now: time.Now}
}

// PlaceOrder 把购物车转成订单。订单、订单行、清空购物车和忠诚计数清零在同一事务中提交，
// 确认邮件事件在提交之后发布，发布失败只记录日志。
func (s *OrderService) PlaceOrder(ctx context.Context, userID string) (*PlaceOrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "app.PlaceOrder")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var (
		order    *domain.Order
		customer *domain.Customer
		quote    domain.Quote
	)
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		var err error
		if customer, err = tx.Customers().FindByID(ctx, userID); err != nil {
			return err
		}
		lines, err := tx.Carts().ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrCartEmpty
		}

		subtotal, totalQty, err := domain.Subtotal(lines)
		if err != nil {
			return err
		}
		adjustments, err := s.policy.Evaluate(ctx, domain.PricingFacts{
			TotalQuantity:      totalQty,
			CompleteOrderCount: customer.CompleteOrderCount,
			Subtotal:           subtotal,
		})
		if err != nil {
			return err
		}
		quote = domain.NewQuote(subtotal, totalQty, adjustments)

		if quote.ResetLoyalty {
			if err := tx.Customers().ResetLoyalty(ctx, userID, customer.CompleteOrderCount); err != nil {
				return err
			}
		}

		order = domain.NewOrder(userID, lines, quote, s.now())
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		return tx.Carts().ClearUser(ctx, userID)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "place order failed")
		return nil, err
	}

	ordersPlaced.Inc()
	span.SetAttributes(attribute.String("order.id", order.ID), attribute.String("order.discount_rate", quote.DiscountRate.String()))
	logger.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("final_amount", order.FinalAmount.String()).
		Strs("discounts", quote.Applied).
		Msg("order placed")

	s.publishPlaced(ctx, order, customer)

	return &PlaceOrderResponse{
		OrderID:         order.ID,
		ClaimCode:       order.ClaimCode,
		TotalAmount:     order.FinalAmount,
		DiscountApplied: domain.DiscountPercent(order.DiscountRate),
	}, nil
}

func (s *OrderService) publishPlaced(ctx context.Context, order *domain.Order, customer *domain.Customer) {
	span := trace.SpanFromContext(ctx)
	if err := s.events.PublishOrderPlaced(ctx, domain.NewOrderPlaced(order, customer)); err != nil {
		span.AddEvent("order confirmation not published")
		logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("failed to publish order placed event")
		return
	}
	span.AddEvent("order confirmation published")
}

func (s *OrderService) MyOrders(ctx context.Context, userID string) ([]OrderDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.MyOrders")
	defer span.End()

	orders, err := s.store.Orders().ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	out := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderDTO(o))
	}
	return out, nil
}

func (s *OrderService) AllOrders(ctx context.Context) ([]OrderDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.AllOrders")
	defer span.End()

	views, err := s.store.Orders().ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	out := make([]OrderDTO, 0, len(views))
	for i := range views {
		dto := toOrderDTO(&views[i].Order)
		dto.UserID = views[i].UserID
		dto.UserName = views[i].UserName
		dto.Email = views[i].Email
		out = append(out, dto)
	}
	return out, nil
}

// CancelOrder 取消调用者自己的待提货订单，他人的订单按不存在处理。
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID string) error {
	ctx, span := s.tracer.Start(ctx, "app.CancelOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		o, err := tx.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o.UserID != userID {
			return domain.ErrOrderNotFound
		}
		from := o.Status
		if err := o.Cancel(); err != nil {
			return err
		}
		return tx.Orders().UpdateStatus(ctx, o, from)
	})
	if err != nil {
		if errors.Is(err, domain.ErrOrderAlreadyCompleted) || errors.Is(err, domain.ErrOrderCancelled) {
			logger.Ctx(ctx).Warn().Str("order_id", orderID).Msg(err.Error())
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "cancel order failed")
		return err
	}
	logger.Ctx(ctx).Info().Str("order_id", orderID).Msg("order cancelled")
	return nil
}
