// Package ratelimit, kimlik bazlı mesaj spam koruması sağlar.
//
// Kurallar:
//   - window içinde maxMessages mesaja izin verilir
//   - bir fazlası cooldown başlatır; cooldown bitene kadar tüm mesajlar reddedilir
//   - cooldown bitince sayaç sıfırdan başlar
package ratelimit

import (
	"sync"
	"time"
)

// messageBucket, tek bir kimlik için sayaç.
// cooldownUntil sıfır değerse kimlik cezalı değildir.
type messageBucket struct {
	count         int
	windowStart   time.Time
	cooldownUntil time.Time
}

// MessageRateLimiter, kimlik bazlı sabit pencereli limiter.
//
//	limiter := NewMessageRateLimiter(5, 5*time.Second, 15*time.Second, time.Now)
//	defer limiter.Stop()
//	if !limiter.Allow(handle) { return pkg.ErrRateLimited }
type MessageRateLimiter struct {
	mu          sync.Mutex
	buckets     map[string]*messageBucket
	maxMessages int
	window      time.Duration
	cooldown    time.Duration
	now         func() time.Time

	stopOnce    sync.Once
	stopCleanup chan struct{}
}

// NewMessageRateLimiter, limiter'ı oluşturur ve süresi dolan bucket'ları
// silen arka plan goroutine'ini başlatır. now nil ise time.Now kullanılır.
func NewMessageRateLimiter(maxMessages int, window, cooldown time.Duration, now func() time.Time) *MessageRateLimiter {
	if now == nil {
		now = time.Now
	}

	rl := &MessageRateLimiter{
		buckets:     make(map[string]*messageBucket),
		maxMessages: maxMessages,
		window:      window,
		cooldown:    cooldown,
		now:         now,
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()

	return rl
}

// Allow, handle'ın şimdi mesaj gönderip gönderemeyeceğini döner ve sayacı ilerletir.
func (rl *MessageRateLimiter) Allow(handle string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[handle]
	if !ok {
		rl.buckets[handle] = &messageBucket{count: 1, windowStart: now}
		return true
	}

	if !b.cooldownUntil.IsZero() {
		if now.Before(b.cooldownUntil) {
			return false
		}
		*b = messageBucket{count: 1, windowStart: now}
		return true
	}

	if now.Sub(b.windowStart) > rl.window {
		b.count = 1
		b.windowStart = now
		return true
	}

	b.count++
	if b.count > rl.maxMessages {
		b.cooldownUntil = now.Add(rl.cooldown)
		return false
	}

	return true
}

// RetryAfter, kalan cooldown süresini döner (Retry-After header için). Cezasızsa 0.
func (rl *MessageRateLimiter) RetryAfter(handle string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[handle]
	if !ok || b.cooldownUntil.IsZero() {
		return 0
	}

	if remaining := b.cooldownUntil.Sub(rl.now()); remaining > 0 {
		return remaining
	}
	return 0
}

// Stop, temizleme goroutine'ini durdurur. Birden fazla çağrılabilir.
func (rl *MessageRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

func (rl *MessageRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanup, penceresi ve cooldown'u bitmiş bucket'ları siler.
func (rl *MessageRateLimiter) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for handle, b := range rl.buckets {
		windowExpired := now.Sub(b.windowStart) > rl.window
		cooldownExpired := b.cooldownUntil.IsZero() || !now.Before(b.cooldownUntil)
		if windowExpired && cooldownExpired {
			delete(rl.buckets, handle)
		}
	}
}
