package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"catalog_go/internal/core/config"
	"catalog_go/internal/core/logger"

	"github.com/gin-gonic/gin"
)

// IPWhitelistConfig IP 白名单配置
type IPWhitelistConfig struct {
	AllowIPs []string // plain IPs or CIDR blocks
	DenyIPs  []string
}

// ipChecker IP 检查器
type ipChecker struct {
	allowNets []*net.IPNet
	denyNets  []*net.IPNet
	allowSet  map[string]bool
	denySet   map[string]bool
}

// newIPChecker 创建 IP 检查器
func newIPChecker(cfg *IPWhitelistConfig) *ipChecker {
	c := &ipChecker{
		allowSet: make(map[string]bool),
		denySet:  make(map[string]bool),
	}

	for _, ip := range cfg.AllowIPs {
		ip = strings.TrimSpace(ip)
		if ip == "" {
			continue
		}
		if _, ipNet, err := net.ParseCIDR(ip); err == nil {
			c.allowNets = append(c.allowNets, ipNet)
		} else {
			c.allowSet[ip] = true
		}
	}

	for _, ip := range cfg.DenyIPs {
		ip = strings.TrimSpace(ip)
		if ip == "" {
			continue
		}
		if _, ipNet, err := net.ParseCIDR(ip); err == nil {
			c.denyNets = append(c.denyNets, ipNet)
		} else {
			c.denySet[ip] = true
		}
	}

	return c
}

// isLocalIP 检查是否是本地/内网 IP (IPv4 和 IPv6)
func isLocalIP(ipStr string) bool {
	if ipStr == "localhost" || ipStr == "127.0.0.1" || ipStr == "::1" {
		return true
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}

	if ipv4 := ip.To4(); ipv4 != nil {
		if ipv4[0] == 192 && ipv4[1] == 168 {
			return true
		}
		if ipv4[0] == 10 {
			return true
		}
		if ipv4[0] == 172 && ipv4[1] >= 16 && ipv4[1] <= 31 {
			return true
		}
		if ipv4[0] == 127 {
			return true
		}
	}

	return ip.IsLoopback()
}

// isAllowed 检查 IP 是否被允许
func (c *ipChecker) isAllowed(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}

	// deny list wins
	for _, ipNet := range c.denyNets {
		if ipNet.Contains(ip) {
			return false
		}
	}
	if c.denySet[ipStr] {
		return false
	}

	for _, ipNet := range c.allowNets {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return c.allowSet[ipStr]
}

// AdminWhitelistMW Admin API IP 白名单中间件
// Local and private-network addresses pass; everything else must be on
// the configured allow list.
func AdminWhitelistMW() gin.HandlerFunc {
	cfg := config.Get()
	checker := newIPChecker(&IPWhitelistConfig{
		AllowIPs: cfg.Security.AllowIPs,
		DenyIPs:  cfg.Security.DenyIPs,
	})

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if isLocalIP(clientIP) || checker.isAllowed(clientIP) {
			c.Next()
			return
		}

		logger.Warn("admin access denied: IP not in whitelist",
			logger.String("ip", clientIP),
			logger.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code": 403,
			"msg":  "access denied: IP not in whitelist",
		})
	}
}

// IPLimiter IP频率限制器 (sliding window)
type IPLimiter struct {
	mu     sync.Mutex
	visits map[string][]int64
	limit  int
	window int64
}

// NewIPLimiter 创建IP限制器
func NewIPLimiter(limit int, windowSeconds int) *IPLimiter {
	return &IPLimiter{
		visits: make(map[string][]int64),
		limit:  limit,
		window: int64(windowSeconds),
	}
}

// Allow 检查是否允许访问
func (l *IPLimiter) Allow(ip string) bool {
	now := time.Now().Unix()

	l.mu.Lock()
	defer l.mu.Unlock()

	var valid []int64
	for _, ts := range l.visits[ip] {
		if now-ts < l.window {
			valid = append(valid, ts)
		}
	}
	l.visits[ip] = valid

	if len(l.visits[ip]) >= l.limit {
		return false
	}

	l.visits[ip] = append(l.visits[ip], now)
	return true
}

// RateLimitMW 频率限制中间件
func RateLimitMW(limiter *IPLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !limiter.Allow(ip) {
			logger.Warn("rate limit exceeded",
				logger.String("ip", ip),
				logger.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code": 429,
				"msg":  "too many requests",
			})
			return
		}

		c.Next()
	}
}
