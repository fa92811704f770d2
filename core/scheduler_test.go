package core

import (
	"testing"
	"time"
)

func TestLoopSchedulerDefersToNextTick(t *testing.T) {
	s := NewLoopScheduler()
	ran := false
	s.Schedule(func() { ran = true }, 0)
	if ran {
		t.Fatal("work ran synchronously")
	}
	if n := s.RunPending(); n != 1 {
		t.Fatalf("ran %d tasks", n)
	}
	if !ran {
		t.Fatal("work did not run on drain")
	}
}

func TestLoopSchedulerCancelBeforeRun(t *testing.T) {
	s := NewLoopScheduler()
	ran := false
	cancel := s.Schedule(func() { ran = true }, 0)
	cancel()
	s.RunPending()
	if ran {
		t.Fatal("cancelled work ran")
	}
}

func TestLoopSchedulerDelayedWork(t *testing.T) {
	s := NewLoopScheduler()
	wake := make(chan bool, 1)
	s.SetWakeNotifier(wake)

	ran := make(chan struct{})
	s.Schedule(func() { close(ran) }, 10*time.Millisecond)
	if s.Pending() != 0 {
		t.Fatal("delayed work queued immediately")
	}

	select {
	case <-wake:
	case <-time.After(2 * time.Second):
		t.Fatal("no wakeup after delay")
	}
	s.RunPending()
	select {
	case <-ran:
	default:
		t.Fatal("delayed work did not run")
	}
}

func TestLoopSchedulerDelayedCancel(t *testing.T) {
	s := NewLoopScheduler()
	ran := false
	cancel := s.Schedule(func() { ran = true }, 5*time.Millisecond)
	cancel()
	time.Sleep(30 * time.Millisecond)
	s.RunPending()
	if ran {
		t.Fatal("cancelled delayed work ran")
	}
}

func TestLoopSchedulerWorkScheduledDuringDrainRunsNextDrain(t *testing.T) {
	s := NewLoopScheduler()
	second := false
	s.Schedule(func() {
		s.Schedule(func() { second = true }, 0)
	}, 0)
	s.RunPending()
	if second {
		t.Fatal("nested work ran in the same drain")
	}
	s.RunPending()
	if !second {
		t.Fatal("nested work never ran")
	}
}
