package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"astrapix-server/internal/common/httpx"
	"astrapix-server/internal/config"
	"astrapix-server/internal/logger"
	"astrapix-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	tooManyRequestsMessage = "too many requests, please try again later"
	redisLimitTimeout      = 200 * time.Millisecond
	limiterIdleTTL         = 3 * time.Minute
)

// LimitSelector 从当前配置中取出某一组接口的速率与突发量。
type LimitSelector func(cfg config.RateLimitConfig) (rps float64, burst int)

// AuthLimit 登录、注册、验证码相关接口。
func AuthLimit(cfg config.RateLimitConfig) (float64, int) {
	return cfg.AuthRPS, cfg.AuthBurst
}

// GenerateLimit 图片生成接口。
func GenerateLimit(cfg config.RateLimitConfig) (float64, int) {
	return cfg.GenerateRPS, cfg.GenerateBurst
}

type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nano
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		r: r,
		b: b,
	}

	go i.cleanupLoop()

	return i
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen.Store(time.Now().UnixNano())
		return c.limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Double check
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen.Store(time.Now().UnixNano())
		return c.limiter
	}

	c := &client{limiter: rate.NewLimiter(i.r, i.b)}
	c.lastSeen.Store(time.Now().UnixNano())
	i.ips.Store(ip, c)

	return c.limiter
}

// Allow 按最新配置调整该 IP 的令牌桶后尝试取一个令牌。
func (i *IPRateLimiter) Allow(ip string, r rate.Limit, b int) bool {
	l := i.getLimiter(ip)
	if l.Limit() != r {
		l.SetLimit(r)
	}
	if l.Burst() != b {
		l.SetBurst(b)
	}
	return l.Allow()
}

func (i *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		i.prune(time.Now())
	}
}

func (i *IPRateLimiter) prune(now time.Time) {
	i.ips.Range(func(key, value interface{}) bool {
		c := value.(*client)
		if now.Sub(time.Unix(0, c.lastSeen.Load())) > limiterIdleTTL {
			i.ips.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware 创建一个动态限流中间件。
// rdb 非空时使用 Redis 固定窗口计数，多实例共享额度；Redis 出错时回退到进程内令牌桶。
func RateLimitMiddleware(rdb *redis.Client, name string, selector LimitSelector) gin.HandlerFunc {
	// 每个分组共用一个 IPRateLimiter 实例
	var limiter *IPRateLimiter
	var once sync.Once

	return func(c *gin.Context) {
		cfg := config.Get().RateLimit
		if !cfg.Enabled {
			c.Next()
			return
		}

		rps, burst := selector(cfg)
		if rps < 0 || burst <= 0 {
			c.Next()
			return
		}
		ip := c.ClientIP()

		if rdb != nil {
			allowed, err := allowByRedisRateLimit(rdb, name, ip, rps, burst)
			if err == nil {
				if !allowed {
					httpx.AbortWithError(c, http.StatusTooManyRequests, tooManyRequestsMessage)
					return
				}
				c.Next()
				return
			}
			logger.L().Warn("redis rate limit failed, falling back to memory", zap.String("limiter", name), zap.Error(err))
		}

		once.Do(func() {
			limiter = NewIPRateLimiter(rate.Limit(rps), burst)
		})

		if !limiter.Allow(ip, rate.Limit(rps), burst) {
			httpx.AbortWithError(c, http.StatusTooManyRequests, tooManyRequestsMessage)
			return
		}
		c.Next()
	}
}

// IntervalRateMiddleware 要求同一 IP 两次请求之间至少间隔 interval(cfg)。
func IntervalRateMiddleware(rdb *redis.Client, name string, interval func(cfg config.RateLimitConfig) time.Duration) gin.HandlerFunc {
	local := newIntervalLimiter()

	return func(c *gin.Context) {
		cfg := config.Get().RateLimit
		if !cfg.Enabled {
			c.Next()
			return
		}
		d := interval(cfg)
		if d <= 0 {
			c.Next()
			return
		}
		ip := c.ClientIP()

		if rdb != nil {
			allowed, err := allowByRedisInterval(rdb, name, ip, d)
			if err == nil {
				if !allowed {
					httpx.AbortWithError(c, http.StatusTooManyRequests, tooManyRequestsMessage)
					return
				}
				c.Next()
				return
			}
			logger.L().Warn("redis interval limit failed, falling back to memory", zap.String("limiter", name), zap.Error(err))
		}

		if !local.allow(ip, d, time.Now()) {
			httpx.AbortWithError(c, http.StatusTooManyRequests, tooManyRequestsMessage)
			return
		}
		c.Next()
	}
}

// OTPInterval 发送验证码的最小间隔。
func OTPInterval(cfg config.RateLimitConfig) time.Duration {
	return time.Duration(cfg.OTPIntervalSeconds) * time.Second
}

// allowByRedisRateLimit 固定窗口：窗口长度为 burst/rps 秒，窗口内最多 burst 次。
// rps 为 0 时令牌不补充，窗口取一天。
func allowByRedisRateLimit(rdb *redis.Client, name, ip string, rps float64, burst int) (bool, error) {
	if rps < 0 || burst <= 0 {
		return true, nil
	}

	window := 24 * time.Hour
	if rps > 0 {
		window = time.Duration(math.Ceil(float64(burst)/rps)) * time.Second
	}
	if window < time.Second {
		window = time.Second
	}
	slot := time.Now().UnixNano() / int64(window)
	key := service.RedisKey("ratelimit", name, ip, strconv.FormatInt(slot, 10))

	ctx, cancel := context.WithTimeout(context.Background(), redisLimitTimeout)
	defer cancel()

	pipe := rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis rate limit: %w", err)
	}
	return incr.Val() <= int64(burst), nil
}

func allowByRedisInterval(rdb *redis.Client, name, ip string, interval time.Duration) (bool, error) {
	key := service.RedisKey("interval", name, ip)

	ctx, cancel := context.WithTimeout(context.Background(), redisLimitTimeout)
	defer cancel()

	ok, err := rdb.SetNX(ctx, key, "1", interval).Result()
	if err != nil {
		return false, fmt.Errorf("redis interval limit: %w", err)
	}
	return ok, nil
}

type intervalLimiter struct {
	mu   sync.Mutex
	last map[string]time.Time
}

func newIntervalLimiter() *intervalLimiter {
	return &intervalLimiter{last: make(map[string]time.Time)}
}

func (l *intervalLimiter) allow(ip string, interval time.Duration, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if prev, ok := l.last[ip]; ok && now.Sub(prev) < interval {
		return false
	}
	l.last[ip] = now

	// 顺带清理已过间隔的记录，避免 map 无限增长
	if len(l.last) > 1024 {
		for k, t := range l.last {
			if now.Sub(t) >= interval {
				delete(l.last, k)
			}
		}
	}
	return true
}
