// Package notify carries transient user notifications (toasts) from the
// session and data layers to whatever renders them.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Level is the notification severity.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is one toast.
type Notification struct {
	ID    string
	Level Level
	Text  string
	At    time.Time
}

// Notifier receives notifications.
type Notifier interface {
	Notify(level Level, text string)
}

// Queue is a buffered Notifier drained by the UI. When the buffer is full the
// notification is dropped and only logged.
type Queue struct {
	ch  chan Notification
	log *logrus.Entry
}

// NewQueue returns a queue holding up to size pending notifications.
func NewQueue(size int, log *logrus.Entry) *Queue {
	return &Queue{ch: make(chan Notification, size), log: log}
}

func (q *Queue) Notify(level Level, text string) {
	n := Notification{ID: uuid.NewString(), Level: level, Text: text, At: time.Now()}
	q.log.WithFields(logrus.Fields{"level": level.String(), "id": n.ID}).Debug(text)
	select {
	case q.ch <- n:
	default:
		q.log.WithField("id", n.ID).Warn("notification dropped: queue full")
	}
}

// C is the channel the UI reads from.
func (q *Queue) C() <-chan Notification {
	return q.ch
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(level Level, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, Notification{ID: uuid.NewString(), Level: level, Text: text, At: time.Now()})
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Count returns how many notifications had the given level.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, x := range r.all {
		if x.Level == level {
			n++
		}
	}
	return n
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}

// Printer writes notifications as lines via fn; the CLI subcommands use it.
type Printer func(level Level, text string)

func (p Printer) Notify(level Level, text string) { p(level, text) }
