package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/naveenspark/rxadmin/internal/notify"
	"github.com/naveenspark/rxadmin/pkg/client"
)

// State is where a collection's most recent refresh stands.
type State int

const (
	Idle State = iota
	Loading
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// ErrSuperseded is returned by a refresh that finished after a newer refresh
// (or a Clear) started. Its result is discarded.
var ErrSuperseded = errors.New("cache: superseded by a newer refresh")

// Snapshot is a point-in-time copy of a collection.
type Snapshot[T any] struct {
	Value   T
	State   State
	Err     error
	Updated time.Time
}

// Collection mirrors one backend resource. Every successful refresh replaces
// the value wholesale; a failed one leaves it as it was.
type Collection[T any] struct {
	name  string
	fetch func(context.Context) (T, error)
	note  notify.Notifier
	log   *logrus.Entry

	mu      sync.Mutex
	value   T
	state   State
	err     error
	updated time.Time
	gen     uint64
	cancel  context.CancelFunc
}

// NewCollection returns an idle collection filled by fetch.
func NewCollection[T any](name string, fetch func(context.Context) (T, error), note notify.Notifier, log *logrus.Entry) *Collection[T] {
	return &Collection[T]{
		name:  name,
		fetch: fetch,
		note:  note,
		log:   log.WithField("collection", name),
	}
}

// Name returns the collection's name.
func (c *Collection[T]) Name() string { return c.name }

// Refresh fetches the collection, cancelling any refresh still in flight.
// On failure it notifies the error, keeps the previous value and returns the
// zero value. A canceled refresh is not notified and puts the collection back
// in the state it was in before.
func (c *Collection[T]) Refresh(ctx context.Context) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	c.cancel = cancel
	prevState, prevErr := c.state, c.err
	c.state = Loading
	c.err = nil
	c.mu.Unlock()

	start := time.Now()
	v, err := c.fetch(ctx)

	var zero T
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.log.WithField("gen", gen).Debug("discarding superseded refresh")
		return zero, ErrSuperseded
	}
	c.cancel = nil
	if err != nil && (errors.Is(err, context.Canceled) || ctx.Err() != nil) {
		c.state, c.err = prevState, prevErr
		c.mu.Unlock()
		c.log.Debug("refresh canceled")
		return zero, err
	}
	if err != nil {
		c.state = Failed
		c.err = err
		c.mu.Unlock()
		c.log.WithError(err).Warn("refresh failed")
		c.note.Notify(notify.LevelError, client.Message(err))
		return zero, err
	}
	c.value = v
	c.state = Succeeded
	c.err = nil
	c.updated = time.Now()
	c.mu.Unlock()

	c.log.WithField("took", time.Since(start).String()).Debug("refreshed")
	return v, nil
}

// Cancel aborts the in-flight refresh, if any.
func (c *Collection[T]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// Clear drops the value and returns the collection to Idle. A refresh in
// flight is cancelled and its result discarded.
func (c *Collection[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	var zero T
	c.value = zero
	c.state = Idle
	c.err = nil
	c.updated = time.Time{}
}

// Value returns the cached value.
func (c *Collection[T]) Value() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Snapshot returns the value together with its refresh state.
func (c *Collection[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot[T]{Value: c.value, State: c.state, Err: c.err, Updated: c.updated}
}
