package verifier

import (
	"context"
	"errors"
	"sync"
	"time"

	"m5cup/internal/models"
)

// Per-player check outcomes. A failure to resolve or query one player
// never affects the rest of the batch.
const (
	StatusSubscribed    = "subscribed"
	StatusNotSubscribed = "not_subscribed"
	StatusUnresolved    = "unresolved"
	StatusFailed        = "failed"
)

// ErrUnresolved is returned by a MembershipClient when a handle does not
// map to any known identity.
var ErrUnresolved = errors.New("username cannot be resolved")

// MembershipClient resolves a handle to a stable identity and queries
// that identity's membership in the gating channel.
type MembershipClient interface {
	ResolveUsername(ctx context.Context, username string) (int64, error)
	IsMember(ctx context.Context, userID int64) (bool, error)
}

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

type Result struct {
	Nickname string
	Username string
	Status   string
}

func (r Result) Subscribed() bool {
	return r.Status == StatusSubscribed
}

type Report struct {
	Results []Result
}

func (r Report) AllSubscribed() bool {
	for _, res := range r.Results {
		if !res.Subscribed() {
			return false
		}
	}
	return true
}

type Verifier struct {
	client  MembershipClient
	timeout time.Duration
	logger  Logger
}

func New(client MembershipClient, timeout time.Duration, logger Logger) *Verifier {
	return &Verifier{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

// CheckRequester checks the membership of the user starting the
// registration, by identity rather than handle.
func (v *Verifier) CheckRequester(ctx context.Context, userID int64) (bool, error) {
	cctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	return v.client.IsMember(cctx, userID)
}

// CheckPlayers runs one check per roster entry concurrently and joins
// before returning. The report always covers every input in order.
// Cancelling ctx abandons outstanding lookups; their entries come back
// as StatusFailed.
func (v *Verifier) CheckPlayers(ctx context.Context, players []models.NewPlayer) Report {
	results := make([]Result, len(players))

	var wg sync.WaitGroup
	for i, p := range players {
		wg.Add(1)
		go func(i int, p models.NewPlayer) {
			defer wg.Done()
			results[i] = v.checkOne(ctx, p)
		}(i, p)
	}
	wg.Wait()

	return Report{Results: results}
}

func (v *Verifier) checkOne(ctx context.Context, p models.NewPlayer) Result {
	res := Result{Nickname: p.Nickname, Username: p.TelegramUsername}

	cctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	done := make(chan string, 1)
	go func() {
		done <- v.lookup(cctx, p.TelegramUsername)
	}()

	select {
	case <-cctx.Done():
		v.logger.Warn("membership check for @%s abandoned: %v", p.TelegramUsername, cctx.Err())
		res.Status = StatusFailed
	case status := <-done:
		res.Status = status
	}
	return res
}

func (v *Verifier) lookup(ctx context.Context, username string) string {
	userID, err := v.client.ResolveUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUnresolved) {
			return StatusUnresolved
		}
		v.logger.Error("failed to resolve @%s: %v", username, err)
		return StatusFailed
	}

	member, err := v.client.IsMember(ctx, userID)
	if err != nil {
		v.logger.Error("membership query for @%s (%d) failed: %v", username, userID, err)
		return StatusFailed
	}

	if member {
		return StatusSubscribed
	}
	return StatusNotSubscribed
}
