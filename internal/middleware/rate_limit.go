package middleware

import (
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ==================== SubmitLimiter 提交限流器 ====================

// SubmitLimiter 按用户的令牌桶限流
// 防止客户端反复点击发布把上架服务打满
type SubmitLimiter struct {
	limit rate.Limit
	burst int

	buckets sync.Map // key -> *bucket
}

type bucket struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewSubmitLimiter perMinute: 每分钟补充的令牌数，burst: 桶容量
func NewSubmitLimiter(perMinute, burst int) *SubmitLimiter {
	return &SubmitLimiter{
		limit: rate.Limit(float64(perMinute) / 60),
		burst: burst,
	}
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 消耗一个令牌；不够时返回需要等待的时间，不占用令牌
func (l *SubmitLimiter) Check(key string) CheckResult {
	return l.checkAt(key, time.Now())
}

func (l *SubmitLimiter) checkAt(key string, now time.Time) CheckResult {
	actual, _ := l.buckets.LoadOrStore(key, &bucket{limiter: rate.NewLimiter(l.limit, l.burst)})
	b := actual.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastSeen = now

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return CheckResult{Allowed: false, RetryAfter: time.Minute}
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return CheckResult{Allowed: false, RetryAfter: delay}
	}
	return CheckResult{Allowed: true}
}

// Prune 清理长时间未使用的桶，返回清理数量
func (l *SubmitLimiter) Prune(idle time.Duration) int {
	threshold := time.Now().Add(-idle)
	removed := 0
	l.buckets.Range(func(key, value any) bool {
		b := value.(*bucket)
		b.mu.Lock()
		stale := b.lastSeen.Before(threshold)
		b.mu.Unlock()
		if stale {
			l.buckets.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// SubmitKey 用户级限流 Key
func SubmitKey(userID int64) string {
	return fmt.Sprintf("user:%d:submit", userID)
}

// ==================== Gin 中间件 ====================

// SubmitRateLimit 发布接口限流中间件，需放在 JWTAuth 之后
func SubmitRateLimit(l *SubmitLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP() + ":submit"
		if userID := GetUserID(c); userID > 0 {
			key = SubmitKey(userID)
		}

		result := l.Check(key)
		if !result.Allowed {
			retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": formatRetryMessage(result.RetryAfter),
				"data": gin.H{
					"retry_after": retryAfter,
				},
			})
			return
		}

		c.Next()
	}
}

// formatRetryMessage 格式化重试提示信息
func formatRetryMessage(d time.Duration) string {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 60 {
		return fmt.Sprintf("操作过于频繁，请 %d 秒后重试", seconds)
	}

	minutes := seconds / 60
	remainingSeconds := seconds % 60
	if remainingSeconds == 0 {
		return fmt.Sprintf("操作过于频繁，请 %d 分钟后重试", minutes)
	}
	return fmt.Sprintf("操作过于频繁，请 %d 分 %d 秒后重试", minutes, remainingSeconds)
}
