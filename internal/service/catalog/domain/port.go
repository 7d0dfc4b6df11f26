package domain

import (
	"context"
	"io"
)

// ImageStore 上传封面图片，返回可公开访问的地址。
type ImageStore interface {
	Upload(ctx context.Context, fileName string, content io.Reader) (string, error)
}

// PurchaseVerifier 判断用户是否有包含该书的已完成订单，由订单上下文实现。
type PurchaseVerifier interface {
	HasCompletedPurchase(ctx context.Context, userID, bookID string) (bool, error)
}

// SalesCount 是某本书出现在订单行中的次数。
type SalesCount struct {
	BookID     string
	OrderCount int64
}

// SalesRanking 提供畅销榜数据，由订单上下文实现。
type SalesRanking interface {
	TopSelling(ctx context.Context, limit int) ([]SalesCount, error)
}
