// Package lifecycle turns storage watch events into journal change
// notifications that can be supervised as a lifecycle.Source.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/dreamlog/pkg/core"
)

// Journal is the part of core.Service the source reads after each change.
type Journal interface {
	Key() string
	List(ctx context.Context) ([]core.Dream, error)
}

// Change reports that the journal's collection was changed outside this process.
// Count is the size of the collection right after the change. Err is set
// when the collection could not be read back.
type Change struct {
	Event core.Event
	Count int
	Err   error
}

// String implements fmt.Stringer.
func (c Change) String() string {
	if c.Err != nil {
		return fmt.Sprintf("%s (unreadable: %v)", c.Event, c.Err)
	}
	return fmt.Sprintf("%s: %d dreams", c.Event, c.Count)
}

type journalSource struct {
	journal Journal
	events  <-chan core.Event
	out     chan lifecycle.Event
}

// NewSource emits a Change for every event on the journal's own key.
// Events for other keys sharing the storage are dropped.
func NewSource(journal Journal, events <-chan core.Event) lifecycle.Source {
	return &journalSource{
		journal: journal,
		events:  events,
		out:     make(chan lifecycle.Event),
	}
}

func (s *journalSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start runs until the input closes or ctx is done, then closes Events.
func (s *journalSource) Start(ctx context.Context) error {
	key := s.journal.Key()
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			var e core.Event
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-s.events:
				if !ok {
					return nil
				}
				e = ev
			}
			if e.Key != key {
				continue
			}

			change := Change{Event: e}
			dreams, err := s.journal.List(ctx)
			if err != nil {
				change.Err = err
			} else {
				change.Count = len(dreams)
			}

			select {
			case s.out <- change:
			case <-ctx.Done():
				return nil
			}
		}
	})
	return nil
}
