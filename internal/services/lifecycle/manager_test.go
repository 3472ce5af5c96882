package lifecycle

import (
	"context"
	"errors"
	"testing"
)

func TestShutdownRunsHooksInReverse(t *testing.T) {
	m := New(0, nil)
	var order []string
	for _, name := range []string{"postgres", "redis", "boards"} {
		name := name
		m.Register(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	want := []string{"boards", "redis", "postgres"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestShutdownJoinsErrorsAndRunsOnce(t *testing.T) {
	m := New(0, nil)
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	calls := 0
	m.RegisterCloser("a", func() error { calls++; return errA })
	m.Register("b", func(context.Context) error { calls++; return errB })

	err := m.Shutdown(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected both errors, got %v", err)
	}
	if err := m.Shutdown(context.Background()); err != nil || calls != 2 {
		t.Fatalf("second shutdown must be a no-op, got %v after %d calls", err, calls)
	}
}
