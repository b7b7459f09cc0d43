//go:build unit

package wifi

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"golang-quizlink/internal/mock"
	"golang-quizlink/internal/port"
	"golang-quizlink/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testIdentity = types.NetworkIdentity{SSID: "Sagaz", Passphrase: "secret"}

// fakeClock replaces the manager's sleep and accumulates the time it would have waited.
type fakeClock struct {
	slept time.Duration
	calls int
}

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.calls++
	c.slept += d
	return nil
}

func newTestManager(t *testing.T, stack port.NetworkStack, attempts int, delay time.Duration) (*Manager, *fakeClock) {
	t.Helper()

	manager, err := NewManager(stack, testIdentity, Config{
		Interface:   "wlan0",
		MaxAttempts: attempts,
		RetryDelay:  delay,
	})
	require.NoError(t, err)

	clock := &fakeClock{}
	manager.sleep = clock.sleep
	return manager, clock
}

type recordedEvents struct {
	attempts int
	results  []bool
	states   []string
	linkUp   []bool
}

func (r *recordedEvents) ObserveAttempt()       { r.attempts++ }
func (r *recordedEvents) ObserveResult(ok bool) { r.results = append(r.results, ok) }
func (r *recordedEvents) ObserveState(s string) { r.states = append(r.states, s) }
func (r *recordedEvents) ObserveLinkUp(up bool) { r.linkUp = append(r.linkUp, up) }

func TestNewManager(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stack := mock.NewMockNetworkStack(ctrl)

	t.Run("ValidConfig", func(t *testing.T) {
		manager, err := NewManager(stack, testIdentity, Config{MaxAttempts: 30, RetryDelay: 500 * time.Millisecond})
		require.NoError(t, err)
		assert.Equal(t, StateDisconnected, manager.State())
	})

	t.Run("ZeroDelayAllowed", func(t *testing.T) {
		_, err := NewManager(stack, testIdentity, Config{MaxAttempts: 1})
		assert.NoError(t, err)
	})

	t.Run("NilStack", func(t *testing.T) {
		_, err := NewManager(nil, testIdentity, Config{MaxAttempts: 1})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "network stack is required")
	})

	t.Run("ZeroAttempts", func(t *testing.T) {
		_, err := NewManager(stack, testIdentity, Config{MaxAttempts: 0})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "max attempts must be at least 1")
	})

	t.Run("NegativeDelay", func(t *testing.T) {
		_, err := NewManager(stack, testIdentity, Config{MaxAttempts: 1, RetryDelay: -time.Second})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "retry delay must not be negative")
	})
}

func TestManager_Connect(t *testing.T) {
	t.Run("ConnectsWithinTwoAttempts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		stack := mock.NewMockNetworkStack(ctrl)
		manager, clock := newTestManager(t, stack, 30, 500*time.Millisecond)

		gomock.InOrder(
			stack.EXPECT().Begin(gomock.Any(), testIdentity).Return(nil),
			stack.EXPECT().Status().Return(port.LinkStatusNoLink),
			stack.EXPECT().Status().Return(port.LinkStatusConnecting),
			stack.EXPECT().Status().Return(port.LinkStatusConnected),
			stack.EXPECT().LocalAddress().Return(net.ParseIP("192.168.1.50")),
		)

		ok := manager.Connect(context.Background())
		assert.True(t, ok)
		assert.Equal(t, StateConnected, manager.State())
		assert.Equal(t, 2, clock.calls)
		assert.LessOrEqual(t, clock.slept, time.Second)

		stack.EXPECT().Status().Return(port.LinkStatusConnected)
		stack.EXPECT().LocalAddress().Return(net.ParseIP("192.168.1.50"))
		assert.Equal(t, "192.168.1.50", manager.Address())
	})

	t.Run("AlreadyUpNeedsNoWait", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		stack := mock.NewMockNetworkStack(ctrl)
		manager, clock := newTestManager(t, stack, 30, 500*time.Millisecond)

		stack.EXPECT().Begin(gomock.Any(), testIdentity).Return(nil)
		stack.EXPECT().Status().Return(port.LinkStatusConnected)
		stack.EXPECT().LocalAddress().Return(net.ParseIP("10.0.0.7"))

		assert.True(t, manager.Connect(context.Background()))
		assert.Equal(t, 0, clock.calls)
	})

	t.Run("NeverReachableExhaustsBudget", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		stack := mock.NewMockNetworkStack(ctrl)
		manager, clock := newTestManager(t, stack, 30, 500*time.Millisecond)

		stack.EXPECT().Begin(gomock.Any(), testIdentity).Return(nil)
		// One check right after Begin, then one per attempt
		stack.EXPECT().Status().Return(port.LinkStatusConnecting).Times(31)

		ok := manager.Connect(context.Background())
		assert.False(t, ok)
		assert.Equal(t, StateFailed, manager.State())
		assert.Equal(t, 30, clock.calls)
		assert.Equal(t, 15*time.Second, clock.slept)

		stack.EXPECT().Status().Return(port.LinkStatusNoLink)
		assert.Equal(t, UnassignedAddress, manager.Address())
	})

	t.Run("BeginError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		stack := mock.NewMockNetworkStack(ctrl)
		manager, clock := newTestManager(t, stack, 30, 500*time.Millisecond)

		stack.EXPECT().Begin(gomock.Any(), testIdentity).Return(errors.New("interface wlan0 not found"))

		assert.False(t, manager.Connect(context.Background()))
		assert.Equal(t, StateFailed, manager.State())
		assert.Equal(t, 0, clock.calls)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		stack := mock.NewMockNetworkStack(ctrl)
		manager, err := NewManager(stack, testIdentity, Config{MaxAttempts: 30, RetryDelay: time.Hour})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		stack.EXPECT().Begin(gomock.Any(), testIdentity).Return(nil)
		stack.EXPECT().Status().Return(port.LinkStatusConnecting)

		assert.False(t, manager.Connect(ctx))
		assert.Equal(t, StateFailed, manager.State())
	})

	t.Run("ResultMatchesState", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		stack := mock.NewMockNetworkStack(ctrl)
		manager, _ := newTestManager(t, stack, 3, 0)

		statuses := []port.LinkStatus{
			port.LinkStatusNoLink,
			port.LinkStatusConnectFailed,
			port.LinkStatusConnecting,
			port.LinkStatusConnected,
		}
		for _, final := range statuses {
			stack.EXPECT().Begin(gomock.Any(), testIdentity).Return(nil)
			stack.EXPECT().Status().Return(final).Times(1)
			if final == port.LinkStatusConnected {
				stack.EXPECT().LocalAddress().Return(net.ParseIP("10.0.0.7"))
			} else {
				stack.EXPECT().Status().Return(final).Times(3)
			}

			ok := manager.Connect(context.Background())
			assert.Equal(t, ok, manager.State() == StateConnected, "status %s", final)
		}
	})
}

func TestManager_Connect_RealTimeBound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stack := mock.NewMockNetworkStack(ctrl)
	manager, err := NewManager(stack, testIdentity, Config{MaxAttempts: 5, RetryDelay: 10 * time.Millisecond})
	require.NoError(t, err)

	stack.EXPECT().Begin(gomock.Any(), testIdentity).Return(nil)
	stack.EXPECT().Status().Return(port.LinkStatusNoLink).AnyTimes()

	start := time.Now()
	ok := manager.Connect(context.Background())
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, 50*time.Millisecond+500*time.Millisecond)
}

func TestManager_IsConnected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stack := mock.NewMockNetworkStack(ctrl)
	manager, _ := newTestManager(t, stack, 30, 500*time.Millisecond)

	stack.EXPECT().Begin(gomock.Any(), testIdentity).Return(nil)
	stack.EXPECT().Status().Return(port.LinkStatusConnected)
	stack.EXPECT().LocalAddress().Return(net.ParseIP("192.168.1.50"))
	require.True(t, manager.Connect(context.Background()))

	t.Run("LiveCheckSeesDroppedLink", func(t *testing.T) {
		stack.EXPECT().Status().Return(port.LinkStatusNoLink)

		assert.False(t, manager.IsConnected())
		assert.Equal(t, StateDisconnected, manager.State())
		assert.Empty(t, manager.address)
	})

	t.Run("AddressIsSentinelAfterDrop", func(t *testing.T) {
		stack.EXPECT().Status().Return(port.LinkStatusNoLink)

		assert.Equal(t, UnassignedAddress, manager.Address())
	})

	t.Run("LinkBackWithoutConnect", func(t *testing.T) {
		stack.EXPECT().Status().Return(port.LinkStatusConnected)

		assert.True(t, manager.IsConnected())
		// Only Connect moves the state back to Connected
		assert.Equal(t, StateDisconnected, manager.State())
	})
}

func TestManager_Address(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stack := mock.NewMockNetworkStack(ctrl)
	manager, _ := newTestManager(t, stack, 1, 0)

	t.Run("NeverConnected", func(t *testing.T) {
		stack.EXPECT().Status().Return(port.LinkStatusIdle)
		assert.Equal(t, UnassignedAddress, manager.Address())
	})

	t.Run("ConnectedWithoutAddress", func(t *testing.T) {
		stack.EXPECT().Status().Return(port.LinkStatusConnected)
		stack.EXPECT().LocalAddress().Return(nil)
		assert.Equal(t, UnassignedAddress, manager.Address())
	})

	t.Run("FollowsLiveAddress", func(t *testing.T) {
		stack.EXPECT().Status().Return(port.LinkStatusConnected)
		stack.EXPECT().LocalAddress().Return(net.ParseIP("172.16.0.9"))
		assert.Equal(t, "172.16.0.9", manager.Address())
	})
}

func TestManager_EnsureConnected(t *testing.T) {
	t.Run("ConnectedIsNoop", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		stack := mock.NewMockNetworkStack(ctrl)
		manager, clock := newTestManager(t, stack, 30, 500*time.Millisecond)

		stack.EXPECT().Begin(gomock.Any(), testIdentity).Return(nil)
		stack.EXPECT().Status().Return(port.LinkStatusConnected)
		stack.EXPECT().LocalAddress().Return(net.ParseIP("192.168.1.50"))
		require.True(t, manager.Connect(context.Background()))

		// No Begin expected: gomock fails the test on any retry
		stack.EXPECT().Status().Return(port.LinkStatusConnected).Times(3)
		for i := 0; i < 3; i++ {
			assert.True(t, manager.EnsureConnected(context.Background()))
		}
		assert.Equal(t, "192.168.1.50", manager.address)
		assert.Equal(t, StateConnected, manager.State())
		assert.Equal(t, 0, clock.calls)
	})

	t.Run("ReconnectsAfterDrop", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		stack := mock.NewMockNetworkStack(ctrl)
		manager, clock := newTestManager(t, stack, 30, 500*time.Millisecond)

		stack.EXPECT().Begin(gomock.Any(), testIdentity).Return(nil)
		stack.EXPECT().Status().Return(port.LinkStatusConnected)
		stack.EXPECT().LocalAddress().Return(net.ParseIP("192.168.1.50"))
		require.True(t, manager.Connect(context.Background()))

		gomock.InOrder(
			stack.EXPECT().Status().Return(port.LinkStatusNoLink),
			stack.EXPECT().Begin(gomock.Any(), testIdentity).Return(nil),
			stack.EXPECT().Status().Return(port.LinkStatusConnecting),
			stack.EXPECT().Status().Return(port.LinkStatusConnected),
			stack.EXPECT().LocalAddress().Return(net.ParseIP("192.168.1.51")),
		)

		assert.True(t, manager.EnsureConnected(context.Background()))
		assert.Equal(t, StateConnected, manager.State())
		assert.Equal(t, "192.168.1.51", manager.address)
		assert.Equal(t, 1, clock.calls)
	})

	t.Run("RetriesFromFailed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		stack := mock.NewMockNetworkStack(ctrl)
		manager, _ := newTestManager(t, stack, 2, 500*time.Millisecond)

		stack.EXPECT().Begin(gomock.Any(), testIdentity).Return(nil).Times(2)
		// Connect: 3 checks; EnsureConnected: live check plus 3 more
		stack.EXPECT().Status().Return(port.LinkStatusNoLink).Times(7)

		assert.False(t, manager.Connect(context.Background()))
		assert.False(t, manager.EnsureConnected(context.Background()))
		assert.Equal(t, StateFailed, manager.State())
	})
}

func TestManager_WithRecorder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stack := mock.NewMockNetworkStack(ctrl)
	manager, _ := newTestManager(t, stack, 30, 500*time.Millisecond)
	events := &recordedEvents{}
	manager.WithRecorder(events)

	gomock.InOrder(
		stack.EXPECT().Begin(gomock.Any(), testIdentity).Return(nil),
		stack.EXPECT().Status().Return(port.LinkStatusConnecting),
		stack.EXPECT().Status().Return(port.LinkStatusConnected),
		stack.EXPECT().LocalAddress().Return(net.ParseIP("192.168.1.50")),
	)
	require.True(t, manager.Connect(context.Background()))

	stack.EXPECT().Status().Return(port.LinkStatusNoLink)
	require.False(t, manager.IsConnected())

	assert.Equal(t, 1, events.attempts)
	assert.Equal(t, []bool{true}, events.results)
	assert.Equal(t, []string{"disconnected", "connecting", "connected", "disconnected"}, events.states)
	assert.Equal(t, []bool{true, false}, events.linkUp)
}

func TestManager_WithRecorder_LinkRecoveredAfterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stack := mock.NewMockNetworkStack(ctrl)
	manager, _ := newTestManager(t, stack, 2, 500*time.Millisecond)
	events := &recordedEvents{}
	manager.WithRecorder(events)

	stack.EXPECT().Begin(gomock.Any(), testIdentity).Return(nil)
	stack.EXPECT().Status().Return(port.LinkStatusConnecting).Times(3)
	require.False(t, manager.Connect(context.Background()))

	// Background acquisition finished after the budget ran out
	stack.EXPECT().Status().Return(port.LinkStatusConnected)
	require.True(t, manager.EnsureConnected(context.Background()))

	assert.Equal(t, StateFailed, manager.State())
	assert.Equal(t, "failed", events.states[len(events.states)-1])
	assert.Equal(t, []bool{true}, events.linkUp)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(42).String())
}
