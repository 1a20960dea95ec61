package application

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu    sync.Mutex
	seen  []string
	hook  func(sess *Session, in Inbound)
	delay time.Duration
}

func (h *recordingHandler) handle(sess *Session, in Inbound) {
	if h.hook != nil {
		h.hook(sess, in)
	}
	if h.delay > 0 {
		time.Sleep(h.delay)
	}
	h.mu.Lock()
	h.seen = append(h.seen, fmt.Sprintf("%d:%s", sess.ChatID, in.Text))
	h.mu.Unlock()
}

func (h *recordingHandler) snapshot() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.seen...)
}

func TestSameChatHandledInArrivalOrder(t *testing.T) {
	h := &recordingHandler{delay: time.Millisecond}
	st := NewSessionStore(time.Hour, clockwork.NewFakeClock(), nopLogger{})
	st.SetHandler(h.handle)

	for i := 0; i < 8; i++ {
		st.Dispatch(1, Inbound{Text: fmt.Sprintf("msg-%d", i)})
	}

	require.Eventually(t, func() bool {
		return len(h.snapshot()) == 8
	}, 5*time.Second, 10*time.Millisecond)

	for i, got := range h.snapshot() {
		require.Equal(t, fmt.Sprintf("1:msg-%d", i), got)
	}
}

func TestChatsProceedIndependently(t *testing.T) {
	release := make(chan struct{})
	h := &recordingHandler{
		hook: func(sess *Session, in Inbound) {
			if sess.ChatID == 1 {
				<-release
			}
		},
	}
	st := NewSessionStore(time.Hour, clockwork.NewFakeClock(), nopLogger{})
	st.SetHandler(h.handle)

	st.Dispatch(1, Inbound{Text: "slow"})
	st.Dispatch(2, Inbound{Text: "fast"})

	// Chat 2 finishes while chat 1 is still blocked.
	require.Eventually(t, func() bool {
		for _, s := range h.snapshot() {
			if s == "2:fast" {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)
	require.NotContains(t, h.snapshot(), "1:slow")

	close(release)
	require.Eventually(t, func() bool {
		return len(h.snapshot()) == 2
	}, 5*time.Second, 10*time.Millisecond)
}

func TestIdleSessionEvictedAfterTTL(t *testing.T) {
	clock := clockwork.NewFakeClock()
	h := &recordingHandler{}
	st := NewSessionStore(30*time.Minute, clock, nopLogger{})
	st.SetHandler(h.handle)

	st.Dispatch(1, Inbound{Text: "hi"})
	require.Eventually(t, func() bool {
		return len(h.snapshot()) == 1
	}, 5*time.Second, 10*time.Millisecond)
	require.Equal(t, 1, st.Len())

	clock.BlockUntil(1)
	clock.Advance(30 * time.Minute)

	require.Eventually(t, func() bool {
		return st.Len() == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestCompletedSessionEvictedWithoutWaitingForTTL(t *testing.T) {
	h := &recordingHandler{
		hook: func(sess *Session, in Inbound) {
			sess.Complete()
		},
	}
	st := NewSessionStore(time.Hour, clockwork.NewFakeClock(), nopLogger{})
	st.SetHandler(h.handle)

	st.Dispatch(1, Inbound{Text: "done"})

	require.Eventually(t, func() bool {
		return st.Len() == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestInterruptCancelsInflightVerification(t *testing.T) {
	started := make(chan struct{})
	h := &recordingHandler{
		hook: func(sess *Session, in Inbound) {
			if in.Text != "roster" {
				return
			}
			ctx := sess.BeginVerification()
			close(started)
			<-ctx.Done()
			sess.EndVerification()
		},
	}
	st := NewSessionStore(time.Hour, clockwork.NewFakeClock(), nopLogger{})
	st.SetHandler(h.handle)

	st.Dispatch(1, Inbound{Text: "roster"})
	<-started

	// The restart both cancels the blocked check and queues behind it.
	st.Dispatch(1, Inbound{Text: "/start"})

	require.Eventually(t, func() bool {
		return len(h.snapshot()) == 2
	}, 5*time.Second, 10*time.Millisecond)
	require.Equal(t, []string{"1:roster", "1:/start"}, h.snapshot())
}

func TestSessionRecreatedAfterEviction(t *testing.T) {
	h := &recordingHandler{
		hook: func(sess *Session, in Inbound) {
			sess.Complete()
		},
	}
	st := NewSessionStore(time.Hour, clockwork.NewFakeClock(), nopLogger{})
	st.SetHandler(h.handle)

	st.Dispatch(1, Inbound{Text: "first"})
	require.Eventually(t, func() bool {
		return st.Len() == 0
	}, 5*time.Second, 10*time.Millisecond)

	st.Dispatch(1, Inbound{Text: "second"})
	require.Eventually(t, func() bool {
		return len(h.snapshot()) == 2
	}, 5*time.Second, 10*time.Millisecond)
}
