package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIPChecker(t *testing.T) {
	checker := newIPChecker(&IPWhitelistConfig{
		AllowIPs: []string{"203.0.113.10", "198.51.100.0/24"},
		DenyIPs:  []string{"198.51.100.66"},
	})

	assert.True(t, checker.isAllowed("203.0.113.10"))
	assert.True(t, checker.isAllowed("198.51.100.1"))
	// deny wins over the covering CIDR allow
	assert.False(t, checker.isAllowed("198.51.100.66"))
	assert.False(t, checker.isAllowed("203.0.113.11"))
	assert.False(t, checker.isAllowed("not-an-ip"))
}

func TestIsLocalIP(t *testing.T) {
	cases := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"localhost", true},
		{"::1", true},
		{"10.1.2.3", true},
		{"192.168.0.10", true},
		{"172.16.5.5", true},
		{"172.32.0.1", false},
		{"8.8.8.8", false},
		{"garbage", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, isLocalIP(c.ip), "ip=%s", c.ip)
	}
}

func TestIPLimiter(t *testing.T) {
	limiter := NewIPLimiter(3, 60)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("203.0.113.10"), "request %d", i)
	}
	assert.False(t, limiter.Allow("203.0.113.10"))

	// limits are per-IP
	assert.True(t, limiter.Allow("203.0.113.11"))
}
