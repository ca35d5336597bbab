package session

import (
	"bufio"
	"io"
	"testing"
	"time"

	"github.com/smazurov/nvencd/internal/logging"
)

func TestRunnerExitCode(t *testing.T) {
	r := NewRunner([]string{"true"}, logging.GetLogger("test"))
	if code := r.Run(); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}

	r = NewRunner([]string{"false"}, logging.GetLogger("test"))
	if code := r.Run(); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunnerEmptyCommand(t *testing.T) {
	r := NewRunner(nil, logging.GetLogger("test"))
	if code := r.Run(); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunnerProgressHandler(t *testing.T) {
	r := NewRunner([]string{"sh", "-c", "echo frame=1; echo progress=end"},
		logging.GetLogger("test"))

	lines := make(chan string, 8)
	r.SetProgressHandler(func(rd io.Reader) {
		scanner := bufio.NewScanner(rd)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	})

	if code := r.Run(); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	var got []string
	for line := range lines {
		got = append(got, line)
	}
	if len(got) != 2 || got[0] != "frame=1" || got[1] != "progress=end" {
		t.Errorf("progress lines = %v", got)
	}
}

func TestRunnerOnStart(t *testing.T) {
	r := NewRunner([]string{"true"}, logging.GetLogger("test"))
	pids := make(chan int, 1)
	r.OnStart(func(pid int) { pids <- pid })
	r.Run()

	select {
	case pid := <-pids:
		if pid <= 0 {
			t.Errorf("pid = %d", pid)
		}
	default:
		t.Error("OnStart was not called")
	}
}

func TestRunnerShutdown(t *testing.T) {
	r := NewRunner([]string{"sleep", "30"}, logging.GetLogger("test"))

	done := make(chan int, 1)
	go func() { done <- r.Run() }()

	// Give the process a moment to start before stopping it.
	time.Sleep(100 * time.Millisecond)
	r.Shutdown()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}

func TestRunnerRestart(t *testing.T) {
	r := NewRunner([]string{"sleep", "30"}, logging.GetLogger("test"))

	starts := make(chan int, 4)
	r.OnStart(func(pid int) { starts <- pid })

	done := make(chan int, 1)
	go func() { done <- r.Run() }()

	time.Sleep(100 * time.Millisecond)
	r.RequestRestart([]string{"true"})

	select {
	case code := <-done:
		if code != 0 {
			t.Errorf("exit code after restart = %d, want 0", code)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after restart")
	}

	if len(starts) != 2 {
		t.Errorf("process started %d times, want 2", len(starts))
	}
	if args := r.Args(); len(args) != 1 || args[0] != "true" {
		t.Errorf("args after restart = %v", args)
	}
}
