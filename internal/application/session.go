package application

import (
	"context"
	"sync"
	"time"

	"m5cup/internal/models"
	"m5cup/internal/verifier"

	"github.com/jonboulle/clockwork"
)

const mailboxSize = 16

// Draft is the in-progress registration accumulated across states. It
// lives only in the session; nothing is persisted until the final
// handoff.
type Draft struct {
	TeamName       string
	Players        []models.NewPlayer
	CaptainContact string
	Report         *verifier.Report
}

// Inbound is one user message as seen by the engine.
type Inbound struct {
	UserID   int64
	Username string
	Text     string
}

type Session struct {
	ChatID int64
	State  string
	Draft  Draft

	mailbox chan Inbound
	ctx     context.Context
	cancel  context.CancelFunc
	done    bool

	inflightMu     sync.Mutex
	inflightCancel context.CancelFunc
}

// BeginVerification derives a cancellable context for an external check
// batch. CancelInflight from another goroutine aborts it.
func (s *Session) BeginVerification() context.Context {
	ctx, cancel := context.WithCancel(s.ctx)
	s.inflightMu.Lock()
	s.inflightCancel = cancel
	s.inflightMu.Unlock()
	return ctx
}

func (s *Session) EndVerification() {
	s.inflightMu.Lock()
	if s.inflightCancel != nil {
		s.inflightCancel()
		s.inflightCancel = nil
	}
	s.inflightMu.Unlock()
}

func (s *Session) CancelInflight() {
	s.inflightMu.Lock()
	if s.inflightCancel != nil {
		s.inflightCancel()
	}
	s.inflightMu.Unlock()
}

// Complete marks the session for eviction once its mailbox drains.
func (s *Session) Complete() {
	s.done = true
}

// Handler processes one inbound message for a session. Called from the
// session's worker goroutine only, so Session fields need no locking
// inside it.
type Handler func(sess *Session, in Inbound)

// SessionStore keeps one live session per chat. Messages for the same
// chat are handled strictly in arrival order by a dedicated worker;
// different chats proceed concurrently. Idle sessions are evicted after
// the TTL.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	clock    clockwork.Clock
	ttl      time.Duration
	handle   Handler
	logger   Logger
}

func NewSessionStore(ttl time.Duration, clock clockwork.Clock, logger Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*Session),
		clock:    clock,
		ttl:      ttl,
		logger:   logger,
	}
}

// SetHandler must be called once before the first Dispatch.
func (st *SessionStore) SetHandler(h Handler) {
	st.handle = h
}

// Dispatch enqueues a message for the chat's session, creating the
// session on first contact. Restart and back inputs cancel any
// verification batch still in flight so the worker can get to them.
func (st *SessionStore) Dispatch(chatID int64, in Inbound) {
	st.mu.Lock()
	sess, ok := st.sessions[chatID]
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		sess = &Session{
			ChatID:  chatID,
			State:   models.StateIdle,
			mailbox: make(chan Inbound, mailboxSize),
			ctx:     ctx,
			cancel:  cancel,
		}
		st.sessions[chatID] = sess
		go st.worker(sess)
	}

	if isInterrupt(in.Text) {
		sess.CancelInflight()
	}

	select {
	case sess.mailbox <- in:
	default:
		st.logger.Warn("mailbox full for chat %d, dropping message", chatID)
	}
	st.mu.Unlock()
}

func isInterrupt(text string) bool {
	return text == "/start" || text == BtnBack || text == BtnRegister
}

func (st *SessionStore) worker(sess *Session) {
	timer := st.clock.NewTimer(st.ttl)
	defer timer.Stop()

	for {
		select {
		case in := <-sess.mailbox:
			st.handle(sess, in)
			if sess.done && st.tryEvict(sess) {
				return
			}
			timer.Reset(st.ttl)
		case <-timer.Chan():
			if st.tryEvict(sess) {
				return
			}
			timer.Reset(st.ttl)
		}
	}
}

// tryEvict removes the session unless new messages arrived; the store
// lock closes the race with Dispatch.
func (st *SessionStore) tryEvict(sess *Session) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(sess.mailbox) > 0 {
		sess.done = false
		return false
	}
	delete(st.sessions, sess.ChatID)
	sess.cancel()
	return true
}

// Len reports the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
