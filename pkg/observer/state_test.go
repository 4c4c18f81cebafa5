package observer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Root48/DataCollectionModule/pkg/observer"
)

func collectInto(dst *[]string) observer.Observer[string] {
	return observer.ObserverFunc[string](func(_ context.Context, evt string) error {
		*dst = append(*dst, evt)
		return nil
	})
}

func TestState_ReplaysCurrentOnAttach(t *testing.T) {
	st := observer.NewState[string]()
	ctx := context.Background()

	st.Publish(ctx, "one")
	st.Publish(ctx, "two")

	var got []string
	st.Attach(ctx, collectInto(&got))

	if len(got) != 1 || got[0] != "two" {
		t.Fatalf("expected replay of latest value only, got %v", got)
	}

	st.Publish(ctx, "three")
	if len(got) != 2 || got[1] != "three" {
		t.Fatalf("expected subsequent update, got %v", got)
	}
}

func TestState_NoReplayBeforeFirstPublish(t *testing.T) {
	st := observer.NewState[string]()
	ctx := context.Background()

	var got []string
	st.Attach(ctx, collectInto(&got))
	if len(got) != 0 {
		t.Fatalf("expected no replay on empty state, got %v", got)
	}
	if _, ok := st.Current(); ok {
		t.Fatal("Current() reported a value before the first publish")
	}

	st.Publish(ctx, "one")
	if len(got) != 1 || got[0] != "one" {
		t.Fatalf("expected first publish delivered, got %v", got)
	}
	if cur, ok := st.Current(); !ok || cur != "one" {
		t.Fatalf("Current() = %q, %v", cur, ok)
	}
}

func TestState_DetachStopsDelivery(t *testing.T) {
	st := observer.NewState[string]()
	ctx := context.Background()

	var got []string
	detach := st.Attach(ctx, collectInto(&got))

	st.Publish(ctx, "one")
	detach()
	detach() // second call is a no-op
	st.Publish(ctx, "two")

	if len(got) != 1 || got[0] != "one" {
		t.Fatalf("expected delivery to stop after detach, got %v", got)
	}
}

func TestState_OrderPreservedAcrossObservers(t *testing.T) {
	st := observer.NewState[string]()
	ctx := context.Background()

	var first, second []string
	st.Attach(ctx, collectInto(&first))
	st.Attach(ctx, collectInto(&second))

	for _, evt := range []string{"a", "b", "c"} {
		st.Publish(ctx, evt)
	}

	for _, got := range [][]string{first, second} {
		if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
			t.Fatalf("publish order not preserved: %v", got)
		}
	}
}

func TestState_ErrorHandler(t *testing.T) {
	st := observer.NewState[string]()
	ctx := context.Background()

	var errs []error
	st.SetErrorHandler(func(err error) {
		errs = append(errs, err)
	})
	st.Attach(ctx, observer.ObserverFunc[string](func(_ context.Context, _ string) error {
		return errors.New("boom")
	}))

	st.Publish(ctx, "one")

	if len(errs) != 1 || errs[0].Error() != "boom" {
		t.Fatalf("expected error handler to capture boom, got %+v", errs)
	}
}
