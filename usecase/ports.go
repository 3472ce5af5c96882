package usecase

import (
	"context"
	"time"

	"github.com/fastygo/consistency/domain"
)

// Notifier is the one-way notification sink. Delivery is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n domain.Notification)

func (f NotifierFunc) Notify(ctx context.Context, n domain.Notification) {
	f(ctx, n)
}

// Refresher re-fetches everything the board shows.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Clock decides what "today" means for daily goals.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// NewClock returns a wall clock in loc (UTC when nil).
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: time.Now, Location: loc}
}

// Time returns the current instant in the clock's location.
func (c Clock) Time() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

// Today returns the current calendar date as YYYY-MM-DD.
func (c Clock) Today() string {
	return c.Time().Format(domain.DateLayout)
}

// Notify emits a notification for the identity on sink, tolerating a nil sink.
func Notify(ctx context.Context, sink Notifier, userID string, severity domain.Severity, title, description string) {
	if sink == nil {
		return
	}
	sink.Notify(ctx, domain.Notification{
		UserID:      userID,
		Title:       title,
		Description: description,
		Severity:    severity,
		CreatedAt:   time.Now(),
	})
}
