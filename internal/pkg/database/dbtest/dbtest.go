// Package dbtest 为仓储测试提供基于内存 SQLite 的 gorm 连接。
package dbtest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"bookhub/internal/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open 为当前测试创建独立的内存库并迁移给定模型。
// 内存库只在一个连接内可见，因此连接池固定为 1。
func Open(t testing.TB, models ...interface{}) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         database.NewGormLogger(time.Second),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
