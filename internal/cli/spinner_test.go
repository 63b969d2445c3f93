package cli

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSpinnerCancelled(t *testing.T) {
	t.Run("interrupted", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		s := newSpinnerWithContext(ctx, "Compiling 3 sources...")
		s.Start()
		cancel()
		<-s.stopped
		if !s.Cancelled() {
			t.Error("spinner should report the interrupted run")
		}
		s.Stop()
	})

	t.Run("deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		s := newSpinnerWithContext(ctx, "Compiling 3 sources...")
		s.Start()
		<-s.stopped
		if !s.Cancelled() {
			t.Error("spinner should stop at the deadline")
		}
		s.Stop()
	})

	t.Run("running", func(t *testing.T) {
		s := newSpinnerWithContext(context.Background(), "Compiling 3 sources...")
		s.Start()
		if s.Cancelled() {
			t.Error("running spinner reported cancelled")
		}
		s.Stop()
	})
}

func TestSpinnerStopTwice(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Rendering...")
	s.Start()
	s.StopWithSuccess("Rendered 2 graphs")
	s.Stop()
}

func TestCompileProgress(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Compiling 4 sources...")
	p := &compileProgress{spinner: s, total: 4}

	p.OnCompile(context.Background(), "src/a.cpp", time.Millisecond, nil)
	p.OnCompile(context.Background(), "src/b.cpp", time.Millisecond, errors.New("exit status 1"))
	p.OnCompile(context.Background(), "src/c.cpp", time.Millisecond, nil)

	if s.message != "Compiling 3/4 sources..." {
		t.Errorf("message = %q, want failed compiles counted as done", s.message)
	}
}

func TestSpinnerSetMessage(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Compiling 0/2 sources...")
	s.Start()
	s.SetMessage("Compiling 1/2 sources...")
	time.Sleep(100 * time.Millisecond)
	s.SetMessage("Compiling 2/2 sources...")
	s.Stop()

	if s.message != "Compiling 2/2 sources..." {
		t.Errorf("message = %q", s.message)
	}
	if s.width == 0 {
		t.Error("spinner should record the drawn width")
	}
}
