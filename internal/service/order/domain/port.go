package domain

import "context"

// OrderEventPublisher 发布下单事件，失败不影响已提交的订单。
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, e *OrderPlaced) error
}

// NoticeBroadcaster 把购买动态推送给所有在线用户，尽力而为。
type NoticeBroadcaster interface {
	Broadcast(ctx context.Context, n *Notice) error
}
