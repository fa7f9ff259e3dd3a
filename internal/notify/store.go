package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity tags a notification for rendering.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// DefaultDuration is the auto-close delay when the caller does not pick one.
const DefaultDuration = 5 * time.Second

// Notification is one transient user-facing message.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// Store holds notifications in insertion order. It is constructed once at
// the application root and passed by handle to everything that enqueues
// messages; there is no package-level singleton.
type Store struct {
	mu     sync.Mutex
	items  []Notification
	timers map[string]*time.Timer
}

func NewStore() *Store {
	return &Store{timers: make(map[string]*time.Timer)}
}

// Add appends a notification and returns its id. With autoClose set the
// notification removes itself after duration; a non-positive duration
// falls back to DefaultDuration.
func (s *Store) Add(message string, severity Severity, autoClose bool, duration time.Duration) string {
	if severity == "" {
		severity = SeverityInfo
	}
	if duration <= 0 {
		duration = DefaultDuration
	}

	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.items = append(s.items, n)
	if autoClose {
		id := n.ID
		s.timers[id] = time.AfterFunc(duration, func() {
			s.Remove(id)
		})
	}
	s.mu.Unlock()

	return n.ID
}

// Info, Success and Error are shorthands with auto-close defaults.
func (s *Store) Info(message string) string {
	return s.Add(message, SeverityInfo, true, DefaultDuration)
}

func (s *Store) Success(message string) string {
	return s.Add(message, SeveritySuccess, true, DefaultDuration)
}

func (s *Store) Error(message string) string {
	return s.Add(message, SeverityError, true, DefaultDuration)
}

// Remove deletes a notification by id. Removing an id that is already
// gone is a no-op, so a timer firing after manual dismissal is harmless.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}

	for i, n := range s.items {
		if n.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Snapshot returns the current notifications in insertion order.
func (s *Store) Snapshot() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports how many notifications are live.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
