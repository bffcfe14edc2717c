package events

import (
	"context"
	"errors"
	"testing"

	"github.com/shoenig/test/must"
)

func TestDispatcher_Publish(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()

	var calls []string
	d.Subscribe(EventParticipantRegistered, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.School)
		return errors.New("feed down")
	})
	d.Subscribe(EventParticipantRegistered, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.School)
		return nil
	})
	d.Subscribe(EventAdminRegistered, func(context.Context, Event) error {
		calls = append(calls, "admin")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventParticipantRegistered, School: "Tech High"})
	must.ErrorContains(t, err, "feed down")
	must.Eq(t, []string{"first:Tech High", "second:Tech High"}, calls)
}
