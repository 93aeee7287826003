// Package ratelimit, IP bazlı istek sınırlama yapılarını barındırır.
//
// İki kullanım var:
//   - LoginRateLimiter: /admin/login brute-force koruması (window içinde N deneme).
//   - Limiter (WindowLimiter, RedisLimiter): iletişim formu: bir IP, window
//     süresince sadece bir mesaj gönderebilir.
//
// pkg/ratelimit hiçbir proje içi pakete bağımlı değildir (leaf dependency).
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// bucket, bir IP adresi için istek sayacı ve window başlangıç zamanı tutar.
type bucket struct {
	count       int
	windowStart time.Time
}

// LoginRateLimiter, IP bazlı login rate limiting.
//
//	limiter := NewLoginRateLimiter(5, 2*time.Minute)
//	if !limiter.Allow(ip) { return 429 }
//	limiter.Reset(ip) // başarılı login'de
type LoginRateLimiter struct {
	mu          sync.Mutex
	buckets     map[string]*bucket
	maxAttempts int
	window      time.Duration
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewLoginRateLimiter, yeni rate limiter oluşturur ve arka plan temizleme
// goroutine'ini başlatır. Stop() ile durdurulur.
func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		buckets:     make(map[string]*bucket),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	go cleanupLoop(time.Minute, rl.stopCleanup, rl.cleanup)

	return rl
}

// Allow, verilen IP'nin login denemesine izin verilip verilmediğini döner.
// Her çağrı sayacı artırır; başarılı login'de caller Reset() çağırmalıdır.
func (rl *LoginRateLimiter) Allow(ip string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[ip]
	if !exists || now.Sub(b.windowStart) > rl.window {
		rl.buckets[ip] = &bucket{count: 1, windowStart: now}
		return true
	}

	b.count++
	return b.count <= rl.maxAttempts
}

// Reset, başarılı login sonrası IP sayacını sıfırlar.
func (rl *LoginRateLimiter) Reset(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, ip)
}

// RetryAfterSeconds, kalan bekleme süresini saniye cinsinden döner (Retry-After header'ı).
func (rl *LoginRateLimiter) RetryAfterSeconds(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[ip]
	if !exists {
		return 0
	}
	return CeilSeconds(rl.window - rl.now().Sub(b.windowStart))
}

// Stop, temizleme goroutine'ini durdurur. Birden fazla çağrı güvenlidir.
func (rl *LoginRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

func (rl *LoginRateLimiter) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window {
			delete(rl.buckets, ip)
		}
	}
}

// cleanupLoop, stop kapanana kadar her interval'de fn'i çağırır.
func cleanupLoop(interval time.Duration, stop <-chan struct{}, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fn()
		case <-stop:
			return
		}
	}
}

// CeilSeconds, süreyi yukarı yuvarlanmış tam saniyeye çevirir; negatifse 0.
func CeilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// ExtractIP, HTTP request'ten client IP adresini çıkarır.
//
// Öncelik sırası:
// 1. X-Forwarded-For header (reverse proxy arkasındaysa, ilk IP)
// 2. X-Real-IP header
// 3. RemoteAddr (doğrudan bağlantı)
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return RemoteIP(r)
}

// ClientIP, rate limit anahtarı olarak kullanılan IP'dir.
// trustForwarded kapalıyken forwarding header'ları yok sayılır; bu header'ları
// client istediği gibi yazabilir.
func ClientIP(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		return ExtractIP(r)
	}
	return RemoteIP(r)
}

// RemoteIP, TCP bağlantısının karşı ucunun adresidir (port hariç).
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if r.RemoteAddr == "" {
			return "unknown"
		}
		return r.RemoteAddr
	}
	return host
}

// FormatRetryMessage, kalan süreyi okunabilir formata çevirir.
// Örn: 120 → "2 minute(s)", 45 → "45 second(s)"
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
