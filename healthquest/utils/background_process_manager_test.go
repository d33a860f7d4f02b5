package utils

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestBackgroundProcessManager_StopProcess(t *testing.T) {
	bpm := NewBackgroundProcessManager()
	stopped := make(chan struct{})

	bpm.StartProcess("worker", "test worker", func(ctx context.Context) {
		<-ctx.Done()
		close(stopped)
	})
	if !bpm.IsRunning("worker") {
		t.Fatal("worker should be running")
	}

	bpm.StopProcess("worker")

	select {
	case <-stopped:
	default:
		t.Fatal("StopProcess returned before the process exited")
	}
	if bpm.GetProcessCount() != 0 {
		t.Errorf("GetProcessCount() = %d, want 0", bpm.GetProcessCount())
	}
}

func TestBackgroundProcessManager_StartTickerAndShutdown(t *testing.T) {
	bpm := NewBackgroundProcessManager()
	var ticks atomic.Int32

	bpm.StartTicker("ticker", "counts ticks", time.Millisecond, func(ctx context.Context) {
		ticks.Add(1)
	})

	deadline := time.Now().Add(time.Second)
	for ticks.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if ticks.Load() < 3 {
		t.Fatalf("ticker fired %d times, want at least 3", ticks.Load())
	}

	if err := bpm.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	after := ticks.Load()
	time.Sleep(10 * time.Millisecond)
	if ticks.Load() != after {
		t.Error("ticker kept firing after shutdown")
	}
}

func TestBackgroundProcessManager_RecoversPanic(t *testing.T) {
	bpm := NewBackgroundProcessManager()
	bpm.StartProcess("panicky", "panics", func(ctx context.Context) {
		panic("boom")
	})
	if err := bpm.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}
