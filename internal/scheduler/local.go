package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AlarmChannel is the notification channel every salah alarm is posted to.
const AlarmChannel = "salah-alarm"

// LocalScheduler keeps one in-process timer per scheduled notification.
type LocalScheduler struct {
	mu       sync.Mutex
	timers   map[string]*time.Timer
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

// NewLocalScheduler creates a scheduler delivering through notifier.
func NewLocalScheduler(notifier Notifier, log *slog.Logger) *LocalScheduler {
	return &LocalScheduler{
		timers:   make(map[string]*time.Timer),
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// ScheduleAt arms a timer firing at the given instant and returns its handle.
func (s *LocalScheduler) ScheduleAt(ctx context.Context, at time.Time, title, body string) (string, error) {
	delay := at.Sub(s.now())
	if delay <= 0 {
		return "", fmt.Errorf("%w: %s", ErrPastTrigger, at.Format(time.RFC3339))
	}

	handle := uuid.NewString()
	n := Notification{Handle: handle, Title: title, Body: body, At: at, Channel: AlarmChannel}

	s.mu.Lock()
	s.timers[handle] = time.AfterFunc(delay, func() { s.fire(n) })
	s.mu.Unlock()

	s.log.InfoContext(ctx, "Notification scheduled", "handle", handle, "at", at, "title", title)

	return handle, nil
}

// Cancel stops a pending timer.
func (s *LocalScheduler) Cancel(ctx context.Context, handle string) error {
	s.mu.Lock()
	timer, ok := s.timers[handle]
	delete(s.timers, handle)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, handle)
	}
	timer.Stop()

	s.log.InfoContext(ctx, "Notification cancelled", "handle", handle)

	return nil
}

// Pending returns the number of armed timers.
func (s *LocalScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.timers)
}

// Stop disarms every pending timer.
func (s *LocalScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for handle, timer := range s.timers {
		timer.Stop()
		delete(s.timers, handle)
	}
}

func (s *LocalScheduler) fire(n Notification) {
	s.mu.Lock()
	_, ok := s.timers[n.Handle]
	delete(s.timers, n.Handle)
	s.mu.Unlock()

	if !ok {
		return
	}

	ctx := context.Background()
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.ErrorContext(ctx, "Failed to deliver notification", "handle", n.Handle, "error", err)
		return
	}

	s.log.InfoContext(ctx, "Notification delivered", "handle", n.Handle, "title", n.Title)
}
