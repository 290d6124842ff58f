// Package lifecycle 是资源状态机的唯一入口：Offer/Application/Favorite/
// Sejour/Feedback 的每条合法转换都在这里校验并以单事务落库。
// 任何前置条件不满足都返回 domain 里的标记错误，不做部分写入。
package lifecycle

import (
	"time"

	"go.uber.org/zap"

	"roomatch/internal/domain"
)

type Service struct {
	store domain.Store
	log   *zap.Logger
	now   func() time.Time
}

func New(store domain.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log, now: time.Now}
}
