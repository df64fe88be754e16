package notifier

import (
	"context"
	"errors"
	"fmt"
)

type Event string

const (
	EventAlert    Event = "alert"
	EventTally    Event = "tally"
	EventRelocate Event = "relocate"
	EventPrune    Event = "prune"
	EventTest     Event = "test"
)

// Message is one notification. Recipients overrides the email driver's
// default To list; other drivers ignore it.
type Message struct {
	Subject    string
	Body       string
	Station    string
	Event      Event
	Recipients []string
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Multi sends every message to all of its notifiers.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type nop struct{}

func (nop) Send(context.Context, Message) error { return nil }

// Nop discards messages. Used when notifications are disabled.
func Nop() Notifier { return nop{} }

type eventFilter map[Event]struct{}

func newEventFilter(events []string) (eventFilter, error) {
	f := make(eventFilter, len(events))
	for _, e := range events {
		switch Event(e) {
		case EventAlert, EventTally, EventRelocate, EventPrune, EventTest:
			f[Event(e)] = struct{}{}
		default:
			return nil, fmt.Errorf("unknown notification event %q", e)
		}
	}
	return f, nil
}

func (f eventFilter) allowed(e Event) bool {
	if len(f) == 0 || e == EventTest {
		return true
	}
	_, ok := f[e]
	return ok
}
