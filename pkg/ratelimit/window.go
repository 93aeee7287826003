package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter, "bir anahtar window başına bir istek" kuralını uygulayan store.
//
// Allow ilk istekte zamanı kaydeder ve true döner; window dolana kadar gelen
// istekler false + kalan süre alır. Window dolduğunda anahtar tekrar serbesttir.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// WindowLimiter, Limiter'ın process içi implementasyonu.
//
// Kayıt sayısı maxEntries ile sınırlıdır: doluyken yeni bir anahtar gelirse
// önce süresi dolmuş kayıtlar, yetmezse en eski kayıt silinir.
// Restart'ta state kaybolur.
type WindowLimiter struct {
	mu          sync.Mutex
	lastSeen    map[string]time.Time
	window      time.Duration
	maxEntries  int
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewWindowLimiter, constructor. Arka planda her window'da bir süresi dolmuş
// kayıtları temizler; Stop() ile durdurulur.
func NewWindowLimiter(window time.Duration, maxEntries int) *WindowLimiter {
	l := &WindowLimiter{
		lastSeen:    make(map[string]time.Time),
		window:      window,
		maxEntries:  maxEntries,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	go cleanupLoop(window, l.stopCleanup, l.evictExpired)

	return l
}

// WithClock, testler için saat fonksiyonunu değiştirir.
func (l *WindowLimiter) WithClock(now func() time.Time) *WindowLimiter {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
	return l
}

// Allow, Limiter implementasyonu. Hata dönmez.
func (l *WindowLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if last, ok := l.lastSeen[key]; ok {
		if elapsed := now.Sub(last); elapsed < l.window {
			return false, l.window - elapsed, nil
		}
	} else if len(l.lastSeen) >= l.maxEntries {
		l.makeRoomLocked(now)
	}

	l.lastSeen[key] = now
	return true, 0, nil
}

// Len, takip edilen anahtar sayısı.
func (l *WindowLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lastSeen)
}

// Stop, temizleme goroutine'ini durdurur.
func (l *WindowLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCleanup) })
}

func (l *WindowLimiter) evictExpired() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evictExpiredLocked(l.now())
}

func (l *WindowLimiter) evictExpiredLocked(now time.Time) {
	for key, last := range l.lastSeen {
		if now.Sub(last) >= l.window {
			delete(l.lastSeen, key)
		}
	}
}

// makeRoomLocked, map doluyken yeni anahtara yer açar.
func (l *WindowLimiter) makeRoomLocked(now time.Time) {
	l.evictExpiredLocked(now)
	if len(l.lastSeen) < l.maxEntries {
		return
	}

	var oldestKey string
	var oldest time.Time
	for key, last := range l.lastSeen {
		if oldestKey == "" || last.Before(oldest) {
			oldestKey, oldest = key, last
		}
	}
	delete(l.lastSeen, oldestKey)
}
