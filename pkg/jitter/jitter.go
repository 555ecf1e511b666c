// Package jitter добавляет случайность к интервалам повторов (backoff),
// чтобы экземпляры, стартующие одновременно, не били в базу синхронно.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%).
const DefaultJitter = 0.5

// Duration возвращает d, увеличенную на случайную долю в диапазоне [0, jitterFactor).
// Результат лежит в [d, d*(1+jitterFactor)).
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	return DurationWithRand(d, jitterFactor, rand.Float64)
}

// DurationWithRand — то же, что Duration, но с заданным источником случайности (для детерминированных тестов).
func DurationWithRand(d time.Duration, jitterFactor float64, float64Fn func() float64) time.Duration {
	return d + time.Duration(float64Fn()*jitterFactor*float64(d))
}

// ExponentialBackoff удваивает base на каждую попытку (attempt с нуля), ограничивает результат max
// и добавляет джиттер.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt && backoff < max; i++ {
		backoff *= 2
	}

	return Duration(min(backoff, max), jitterFactor)
}
