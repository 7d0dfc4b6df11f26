package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookhub/internal/pkg/lock"
	"bookhub/internal/pkg/logger"
	"bookhub/internal/pkg/validation"
	"bookhub/internal/service/order/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const claimVerifiedMessage = "Claim code verified successfully. Order marked as completed."

// ClaimService 处理员工的提货码核销。
type ClaimService struct {
	store       domain.Store
	locker      lock.Locker
	lockTTL     time.Duration
	broadcaster domain.NoticeBroadcaster
	tracer      trace.Tracer
	now         func() time.Time
}

func NewClaimService(store domain.Store, locker lock.Locker, lockTTL time.Duration, broadcaster domain.NoticeBroadcaster, tracer trace.Tracer) *ClaimService {
	return &ClaimService{store: store, locker: locker, lockTTL: lockTTL, broadcaster: broadcaster, tracer: tracer, now: time.Now}
}

// VerifyClaimCode 核销提货码：扣减库存、完成订单、累加完成单数并写入购买动态，全部在一个事务中。
// 同一提货码的核销由分布式锁串行化，订单状态和库存的更新都带条件，任何一处未命中都会整体回滚。
func (s *ClaimService) VerifyClaimCode(ctx context.Context, req *VerifyClaimRequest) (result *ClaimResult, err error) {
	ctx, span := s.tracer.Start(ctx, "app.VerifyClaimCode")
	defer span.End()
	defer func() { claimsRedeemed.WithLabelValues(claimResult(err)).Inc() }()

	code := strings.TrimSpace(req.ClaimCode)
	if err := validation.Required("ClaimCode", code); err != nil {
		return nil, err
	}

	lease, err := s.locker.Acquire(ctx, "claim:"+code, s.lockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, domain.ErrClaimInProgress
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "claim lock failed")
		return nil, err
	}
	defer func() {
		if rerr := lease.Release(context.WithoutCancel(ctx)); rerr != nil {
			logger.Ctx(ctx).Warn().Err(rerr).Msg("failed to release claim lock")
		}
	}()
	span.AddEvent("claim lock acquired")

	var (
		order  *domain.Order
		notice *domain.Notice
	)
	err = s.store.Atomic(ctx, func(tx domain.Store) error {
		var err error
		if order, err = tx.Orders().FindByClaimCode(ctx, code); err != nil {
			return err
		}
		if err := order.CheckPending(); err != nil {
			return err
		}

		for _, it := range order.Items {
			if err := s.takeStock(ctx, tx, it); err != nil {
				return err
			}
		}

		from := order.Status
		if err := order.Complete(); err != nil {
			return err
		}
		if err := tx.Orders().UpdateStatus(ctx, order, from); err != nil {
			return err
		}
		if err := tx.Customers().IncrementCompleted(ctx, order.UserID); err != nil {
			return err
		}

		customer, err := tx.Customers().FindByID(ctx, order.UserID)
		if err != nil {
			return err
		}
		notice = domain.NewPurchaseNotice(customer.UserName, order, s.now())
		return tx.Notices().Create(ctx, notice)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "claim redemption failed")
		logger.Ctx(ctx).Warn().Err(err).Str("claim_code", code).Msg("claim redemption rejected")
		return nil, err
	}

	span.SetAttributes(attribute.String("order.id", order.ID))
	logger.Ctx(ctx).Info().Str("order_id", order.ID).Int("items", len(order.Items)).Msg("claim code redeemed")

	if err := s.broadcaster.Broadcast(ctx, notice); err != nil {
		span.AddEvent("purchase notice not broadcast")
		logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("failed to broadcast purchase notice")
	}

	return &ClaimResult{OrderID: order.ID, Message: claimVerifiedMessage}, nil
}

// takeStock 校验并扣减一行的库存，不足时返回带书名的错误。
func (s *ClaimService) takeStock(ctx context.Context, tx domain.Store, it domain.OrderItem) error {
	book, err := tx.Books().FindByID(ctx, it.BookID)
	if errors.Is(err, domain.ErrBookNotFound) {
		return &domain.InsufficientStockError{Title: it.BookTitle, Available: 0, Requested: it.Quantity}
	}
	if err != nil {
		return err
	}
	if book.Quantity < it.Quantity {
		return &domain.InsufficientStockError{Title: book.Title, Available: book.Quantity, Requested: it.Quantity}
	}
	ok, err := tx.Books().DecrementStock(ctx, it.BookID, it.Quantity)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.InsufficientStockError{Title: book.Title, Available: book.Quantity, Requested: it.Quantity}
	}
	return nil
}
