package circuit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func recordFailures(b *Breaker, n int) (lastChange StateChange) {
	for i := 0; i < n; i++ {
		_, lastChange = b.RecordFailure()
	}
	return lastChange
}

func TestBreaker_StartsClosed(t *testing.T) {
	b := New("platform-api")
	assert.Equal(t, "platform-api", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.False(t, b.IsOpen())
}

func TestBreaker_OpensOnConsecutiveFailures(t *testing.T) {
	b := New("platform-api", WithFailureThreshold(3))

	change := recordFailures(b, 2)
	assert.False(t, change.Opened)
	require.False(t, b.IsOpen(), "below threshold must stay closed")

	fallback, change := b.RecordFailure()
	assert.True(t, fallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())

	// Further failures while open report fallback without another transition.
	fallback, change = b.RecordFailure()
	assert.True(t, fallback)
	assert.False(t, change.Opened)
}

func TestBreaker_InterleavedSuccessResetsProgress(t *testing.T) {
	b := New("platform-api", WithFailureThreshold(3))

	recordFailures(b, 2)
	b.RecordSuccess()
	recordFailures(b, 2)
	assert.False(t, b.IsOpen(), "failure streak was broken by a success")

	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

func TestBreaker_ClosesAfterSuccessStreak(t *testing.T) {
	b := New("platform-api", WithFailureThreshold(1), WithSuccessThreshold(2))

	recordFailures(b, 1)
	require.True(t, b.IsOpen())

	primary, change := b.RecordSuccess()
	assert.False(t, primary)
	assert.False(t, change.Closed)

	primary, change = b.RecordSuccess()
	assert.True(t, primary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestBreaker_FailureWhileOpenResetsSuccessStreak(t *testing.T) {
	b := New("platform-api", WithFailureThreshold(1), WithSuccessThreshold(3))

	recordFailures(b, 1)
	b.RecordSuccess()
	b.RecordSuccess()
	b.RecordFailure()

	b.RecordSuccess()
	b.RecordSuccess()
	assert.True(t, b.IsOpen(), "streak restarted after the failure")

	primary, _ := b.RecordSuccess()
	assert.True(t, primary)
	assert.False(t, b.IsOpen())
}

func TestBreaker_HalfOpenAfterCooldown(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	b := New("platform-api",
		WithFailureThreshold(2),
		WithCooldown(30*time.Second),
		WithClock(clock.Now))

	recordFailures(b, 2)
	require.True(t, b.IsOpen())

	clock.Advance(29 * time.Second)
	assert.True(t, b.IsOpen(), "still inside the cooldown")

	clock.Advance(2 * time.Second)
	assert.False(t, b.IsOpen(), "cooldown elapsed, probes must flow")
	assert.Equal(t, StateHalfOpen, b.State())

	primary, change := b.RecordSuccess()
	assert.True(t, primary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_FailedProbeReArmsCooldown(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	b := New("platform-api",
		WithFailureThreshold(1),
		WithCooldown(time.Minute),
		WithClock(clock.Now))

	recordFailures(b, 1)
	clock.Advance(61 * time.Second)
	require.False(t, b.IsOpen())

	_, change := b.RecordFailure()
	assert.False(t, change.Opened, "re-arming is not a new transition")
	assert.True(t, b.IsOpen(), "failed probe restarts the cooldown")

	clock.Advance(61 * time.Second)
	assert.False(t, b.IsOpen())
}

func TestBreaker_ConcurrentOutcomes(t *testing.T) {
	b := New("platform-api", WithFailureThreshold(5))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(fail bool) {
			defer wg.Done()
			if fail {
				b.RecordFailure()
			} else {
				b.RecordSuccess()
			}
			b.IsOpen()
		}(i%2 == 0)
	}
	wg.Wait()

	// State depends on interleaving; the pass criterion is the race detector.
	st := b.State()
	assert.Contains(t, []State{StateClosed, StateOpen, StateHalfOpen}, st)
}
