package application

import (
	"context"
	"errors"
	"time"

	"bookhub/internal/pkg/logger"
	"bookhub/internal/pkg/validation"
	"bookhub/internal/service/order/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CartService 维护用户的购物车。
type CartService struct {
	store  domain.Store
	tracer trace.Tracer
	now    func() time.Time
}

func NewCartService(store domain.Store, tracer trace.Tracer) *CartService {
	return &CartService{store: store, tracer: tracer, now: time.Now}
}

// AddToCart 加入购物车：已有同一本书的行时累加数量，累加后的总量不能超过库存。
func (s *CartService) AddToCart(ctx context.Context, userID string, req *AddToCartRequest) error {
	ctx, span := s.tracer.Start(ctx, "app.AddToCart")
	defer span.End()
	span.SetAttributes(attribute.String("book.id", req.BookID), attribute.Int("quantity", req.Quantity))

	if err := validation.Required("BookId", req.BookID); err != nil {
		return err
	}
	if req.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	// 并发插入同一本书时唯一索引会拒绝其中一个，重读后按累加处理。
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		err = s.store.Atomic(ctx, func(tx domain.Store) error {
			return s.addOnce(ctx, tx, userID, req)
		})
		if !errors.Is(err, domain.ErrCartConflict) {
			break
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "add to cart failed")
		return err
	}
	logger.Ctx(ctx).Info().Str("user_id", userID).Str("book_id", req.BookID).Int("quantity", req.Quantity).Msg("book added to cart")
	return nil
}

func (s *CartService) addOnce(ctx context.Context, tx domain.Store, userID string, req *AddToCartRequest) error {
	book, err := tx.Books().FindByID(ctx, req.BookID)
	if err != nil {
		return err
	}
	existing, err := tx.Carts().FindByBook(ctx, userID, req.BookID)
	switch {
	case err == nil:
		if err := existing.Increase(book, req.Quantity, s.now()); err != nil {
			return err
		}
		return tx.Carts().Save(ctx, existing)
	case errors.Is(err, domain.ErrCartItemNotFound):
		item, err := domain.NewCartItem(userID, book, req.Quantity, s.now())
		if err != nil {
			return err
		}
		return tx.Carts().Create(ctx, item)
	default:
		return err
	}
}

func (s *CartService) GetCart(ctx context.Context, userID string) ([]CartLineDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetCart")
	defer span.End()

	lines, err := s.store.Carts().ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	out := make([]CartLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, toCartLineDTO(l))
	}
	return out, nil
}

// UpdateCart 覆盖数量，并按当前库存重新校验。
func (s *CartService) UpdateCart(ctx context.Context, userID, cartID string, req *UpdateCartRequest) error {
	ctx, span := s.tracer.Start(ctx, "app.UpdateCart")
	defer span.End()
	span.SetAttributes(attribute.String("cart.id", cartID), attribute.Int("quantity", req.Quantity))

	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		item, err := tx.Carts().FindByID(ctx, cartID, userID)
		if err != nil {
			return err
		}
		if req.Quantity <= 0 {
			return domain.ErrInvalidQuantity
		}
		book, err := tx.Books().FindByID(ctx, item.BookID)
		if err != nil {
			return err
		}
		if err := item.SetQuantity(book, req.Quantity); err != nil {
			return err
		}
		return tx.Carts().Save(ctx, item)
	})
	if err != nil {
		span.RecordError(err)
		return err
	}
	logger.Ctx(ctx).Info().Str("cart_id", cartID).Int("quantity", req.Quantity).Msg("cart item updated")
	return nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, cartID string) error {
	ctx, span := s.tracer.Start(ctx, "app.RemoveFromCart")
	defer span.End()

	if err := s.store.Carts().Delete(ctx, cartID, userID); err != nil {
		span.RecordError(err)
		return err
	}
	logger.Ctx(ctx).Info().Str("cart_id", cartID).Msg("cart item removed")
	return nil
}
