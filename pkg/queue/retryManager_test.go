package queue

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldRetry_ExhaustedAttempts(t *testing.T) {
	rm := NewRetryManager(3, time.Second)
	task := &Task{Attempts: 3, MaxRetries: 3}

	retry, _ := rm.ShouldRetry(task, errors.New("dial tcp: i/o timeout"))
	assert.False(t, retry)
}

func TestShouldRetry_InfrastructureError(t *testing.T) {
	rm := NewRetryManager(3, time.Second)
	task := &Task{Attempts: 1, MaxRetries: 3}

	retry, delay := rm.ShouldRetry(task, errors.New("dial tcp: connection refused"))
	assert.True(t, retry)
	assert.Greater(t, delay, time.Duration(0))
}

// Доменные отказы не ретраятся: повтор не изменит исход
func TestShouldRetry_DomainErrors(t *testing.T) {
	rm := NewRetryManager(3, time.Second)
	task := &Task{Attempts: 0, MaxRetries: 3}

	for _, msg := range []string{
		"booking not found",
		"slot is already booked",
		"invalid slot id format",
		"booking is no longer active",
		"request validation failed",
	} {
		retry, _ := rm.ShouldRetry(task, errors.New(msg))
		assert.False(t, retry, "error %q must not be retried", msg)
	}
}

func TestCalculateBackoff_CappedAtMaxDelay(t *testing.T) {
	rm := NewRetryManager(10, time.Second)

	for attempt := 0; attempt <= 10; attempt++ {
		delay := rm.calculateBackoff(attempt)
		assert.LessOrEqual(t, delay, 16*time.Second, "attempt %d", attempt)
		assert.Greater(t, delay, time.Duration(0), "attempt %d", attempt)
	}
}
