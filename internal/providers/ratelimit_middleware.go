package providers

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"milktracker/internal/structures"
)

// IPRateLimiter keeps one token bucket per client address.
type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.RWMutex
	r   rate.Limit
	b   int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.ips[ip]
	i.mu.RUnlock()
	if exists {
		return limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if limiter, exists = i.ips[ip]; !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}
	return limiter
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware throttles POST requests per client. GET requests and a
// zero configured rate pass through.
func RateLimitMiddleware(conf *structures.Config, metrics MetricsProviderInterface, next http.Handler) http.Handler {
	if conf.WebServer.RateLimitPerSec <= 0 {
		return next
	}
	burst := max(conf.WebServer.RateLimitBurst, 1)
	limiter := NewIPRateLimiter(rate.Limit(conf.WebServer.RateLimitPerSec), burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && !limiter.GetLimiter(clientIP(r)).Allow() {
			metrics.IncRateLimited()
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
