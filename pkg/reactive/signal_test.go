package reactive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalGetSetRoundTrip(t *testing.T) {
	s := CreateSignal(1)
	assert.Equal(t, 1, s.Get())
	s.Set(2)
	assert.Equal(t, 2, s.Get())
}

func TestSignalSetSuppressesNoOpChange(t *testing.T) {
	s := CreateSignal(5)
	calls := 0
	s.Subscribe(func() { calls++ })
	s.Set(5)
	assert.Equal(t, 0, calls, "setting the same value must not notify")
	s.Set(6)
	assert.Equal(t, 1, calls)
}

func TestSignalUpdateAppliesTransform(t *testing.T) {
	s := CreateSignal(10)
	s.Update(func(v int) int { return v + 5 })
	assert.Equal(t, 15, s.Get())
}

func TestSignalSubscribeUnsubscribe(t *testing.T) {
	s := CreateSignal("a")
	calls := 0
	unsub := s.Subscribe(func() { calls++ })
	s.Set("b")
	assert.Equal(t, 1, calls)
	unsub()
	s.Set("c")
	assert.Equal(t, 1, calls, "no further notifications after unsubscribe")
}

func TestSignalCustomEquals(t *testing.T) {
	type point struct{ x, y int }
	s := CreateSignalWithEquals(point{1, 1}, func(a, b point) bool { return a.x == b.x })
	calls := 0
	s.Subscribe(func() { calls++ })
	s.Set(point{1, 99})
	assert.Equal(t, 0, calls, "custom equals treats same-x points as unchanged")
	s.Set(point{2, 99})
	assert.Equal(t, 1, calls)
}

func TestPeekDoesNotTrackDependency(t *testing.T) {
	s := CreateSignal(1)
	invalidated := 0
	BeginBuild(func() { invalidated++ })
	_ = s.Peek()
	unsub := EndBuild()
	defer unsub()

	s.Set(2)
	assert.Equal(t, 0, invalidated, "Peek must not create a subscription")
}

func TestGetDuringBuildTracksAndInvalidates(t *testing.T) {
	s := CreateSignal(1)
	invalidated := 0
	BeginBuild(func() { invalidated++ })
	_ = s.Get()
	unsub := EndBuild()
	defer unsub()

	s.Set(2)
	assert.Equal(t, 1, invalidated)
	s.Set(3)
	assert.Equal(t, 1, invalidated, "the invalidate callback fires only once per build")
}

func TestUntrackSuppressesTracking(t *testing.T) {
	s := CreateSignal(1)
	invalidated := 0
	BeginBuild(func() { invalidated++ })
	Untrack(func() any { return s.Get() })
	unsub := EndBuild()
	defer unsub()

	s.Set(2)
	assert.Equal(t, 0, invalidated, "reads inside Untrack must not subscribe the enclosing build")
}

func TestDisposeAllRunsConcurrentlyAndRecoversPanics(t *testing.T) {
	normal := &HookStore{}
	UseState(normal, 1)

	panicking := &HookStore{}
	UseEffect(panicking, []any{1}, func() func() {
		return func() { panic("boom") }
	})

	err := DisposeAll(context.Background(), []*HookStore{normal, panicking})
	require.Error(t, err)
}
