package task

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"listing_wizard_v1_202610/pkg/logger"
)

// ==================== 会话清理任务 ====================

// DefaultSweepSpec 每分钟执行（秒级表达式）
const DefaultSweepSpec = "0 * * * * *"

// SessionStore 可过期的会话存储
type SessionStore interface {
	SweepExpired(ttl time.Duration) int
}

// BucketPruner 可回收的限流桶
type BucketPruner interface {
	Prune(idle time.Duration) int
}

// SessionSweeper 定时丢弃长时间未操作的向导会话，顺带回收空闲限流桶
type SessionSweeper struct {
	store  SessionStore
	pruner BucketPruner
	ttl    time.Duration
	spec   string
	cron   *cron.Cron

	running bool
	mutex   sync.Mutex
}

// NewSessionSweeper pruner 可以为 nil
func NewSessionSweeper(store SessionStore, pruner BucketPruner, ttl time.Duration, spec string) *SessionSweeper {
	if spec == "" {
		spec = DefaultSweepSpec
	}
	return &SessionSweeper{
		store:  store,
		pruner: pruner,
		ttl:    ttl,
		spec:   spec,
		cron:   cron.New(cron.WithSeconds()),
	}
}

// Start 启动定时任务
func (t *SessionSweeper) Start() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.running {
		return nil
	}

	if _, err := t.cron.AddFunc(t.spec, func() { t.RunOnce() }); err != nil {
		return err
	}

	t.cron.Start()
	t.running = true
	logger.L().Info("[SessionSweeper] 会话清理任务已启动",
		zap.String("spec", t.spec),
		zap.Duration("ttl", t.ttl),
	)
	return nil
}

// Stop 停止任务，等待正在执行的清理结束
func (t *SessionSweeper) Stop() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if !t.running {
		return
	}

	ctx := t.cron.Stop()
	<-ctx.Done()
	t.running = false
	logger.L().Info("[SessionSweeper] 已停止")
}

// RunOnce 执行一次清理，返回丢弃的会话数
func (t *SessionSweeper) RunOnce() int {
	removed := t.store.SweepExpired(t.ttl)

	pruned := 0
	if t.pruner != nil {
		pruned = t.pruner.Prune(t.ttl)
	}

	if removed > 0 || pruned > 0 {
		logger.L().Info("[SessionSweeper] 清理完成",
			zap.Int("sessions", removed),
			zap.Int("buckets", pruned),
		)
	}
	return removed
}
