package session

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/smazurov/nvencd/internal/logging"
)

// ProgressHandler consumes the encoder's -progress output stream. It is
// called once per process start with the stdout pipe and must read until
// EOF.
type ProgressHandler func(r io.Reader)

type exitReason int

const (
	exitReasonProcessExit exitReason = iota
	exitReasonShutdown
	exitReasonRestart
)

// Runner manages one encoder subprocess: argv in, progress stream and
// parsed log lines out. Restarts with fresh argv are supported so the
// session can pick up live bitrate changes.
type Runner struct {
	args            []string
	argsMu          sync.RWMutex
	cmd             *exec.Cmd
	logger          logging.Logger
	outputLogger    logging.Logger
	progress        ProgressHandler
	onStart         func(pid int)
	restartChan     chan []string
	gracefulTimeout time.Duration
	killTimeout     time.Duration
	ctx             context.Context
	cancel          context.CancelFunc
}

// NewRunner creates a runner for the given argv. Process stderr is
// parsed with ParseLogLevel and forwarded to the "ffmpeg" module logger;
// stdout goes to the progress handler when one is set.
func NewRunner(args []string, logger logging.Logger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		args:            args,
		logger:          logger,
		outputLogger:    logging.GetLogger("ffmpeg"),
		restartChan:     make(chan []string, 1),
		gracefulTimeout: 5 * time.Second,
		killTimeout:     5 * time.Second,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// SetProgressHandler attaches the consumer for the -progress stream.
func (r *Runner) SetProgressHandler(handler ProgressHandler) {
	r.progress = handler
}

// OnStart registers a callback invoked with the PID after each start.
func (r *Runner) OnStart(fn func(pid int)) {
	r.onStart = fn
}

// Args returns the argv of the current (or next) process.
func (r *Runner) Args() []string {
	r.argsMu.RLock()
	defer r.argsMu.RUnlock()
	out := make([]string, len(r.args))
	copy(out, r.args)
	return out
}

// RequestRestart asks the run loop to stop the process and start it
// again with new argv. Non-blocking; a pending restart wins.
func (r *Runner) RequestRestart(args []string) {
	select {
	case r.restartChan <- args:
		r.logger.Info("Restart requested")
	default:
		r.logger.Warn("Restart already pending, ignoring")
	}
}

// Shutdown triggers a graceful stop of the running process.
func (r *Runner) Shutdown() {
	r.cancel()
}

// runningProcess holds channels for monitoring a running subprocess.
type runningProcess struct {
	processDone <-chan error
	outputDone  chan struct{} // receives twice, once per output stream
}

func (r *Runner) startProcess(args []string) (*runningProcess, error) {
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}

	r.cmd = exec.Command(args[0], args[1:]...)
	r.cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := r.cmd.StdoutPipe()
	if err != nil {
		r.logger.Error("Failed to create stdout pipe", "error", err)
		return nil, err
	}
	stderr, err := r.cmd.StderrPipe()
	if err != nil {
		r.logger.Error("Failed to create stderr pipe", "error", err)
		return nil, err
	}

	if err := r.cmd.Start(); err != nil {
		r.logger.Error("Failed to start process", "error", err, "command", args[0])
		return nil, err
	}

	r.logger.Info("Encoder process started", "pid", r.cmd.Process.Pid)
	if r.onStart != nil {
		r.onStart(r.cmd.Process.Pid)
	}

	outputDone := make(chan struct{}, 2)
	go func() {
		if r.progress != nil {
			r.progress(stdout)
		} else {
			io.Copy(io.Discard, stdout)
		}
		outputDone <- struct{}{}
	}()
	go func() {
		r.streamLogs(stderr)
		outputDone <- struct{}{}
	}()

	processDone := make(chan error, 1)
	go func() {
		processDone <- r.cmd.Wait()
	}()

	return &runningProcess{processDone: processDone, outputDone: outputDone}, nil
}

func (r *Runner) waitOutputDone(outputDone <-chan struct{}) {
	<-outputDone
	<-outputDone
}

// exitCodeFromError extracts exit code from process error.
// Returns 0 for nil error, the exit code for ExitError, or 1 for other errors.
func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

// Run starts the process and blocks until it exits or Shutdown is
// called, restarting on RequestRestart. Returns the final exit code.
func (r *Runner) Run() int {
	for {
		exitCode, reason := r.runOnce()

		switch reason {
		case exitReasonShutdown:
			r.logger.Info("Shutdown complete", "exit_code", exitCode)
			return exitCode
		case exitReasonRestart:
			r.logger.Info("Restarting encoder process")
			continue
		default:
			r.logger.Info("Encoder process exited", "exit_code", exitCode)
			return exitCode
		}
	}
}

func (r *Runner) runOnce() (int, exitReason) {
	r.argsMu.RLock()
	args := r.args
	r.argsMu.RUnlock()

	rp, err := r.startProcess(args)
	if err != nil {
		return 1, exitReasonProcessExit
	}
	defer r.waitOutputDone(rp.outputDone)

	select {
	case <-r.ctx.Done():
		r.logger.Info("Shutdown requested, stopping encoder")
		r.sendStopSignal()
		return r.waitForExit(rp.processDone, r.gracefulTimeout), exitReasonShutdown

	case newArgs := <-r.restartChan:
		r.logger.Info("Received restart request")
		r.sendStopSignal()
		r.argsMu.Lock()
		r.args = newArgs
		r.argsMu.Unlock()
		return r.waitForExit(rp.processDone, r.gracefulTimeout), exitReasonRestart

	case processErr := <-rp.processDone:
		exitCode := exitCodeFromError(processErr)
		if processErr != nil && exitCode == 1 {
			r.logger.Error("Encoder exited with error", "error", processErr)
		}
		return exitCode, exitReasonProcessExit
	}
}

// sendStopSignal sends SIGINT so ffmpeg finalizes the output file.
func (r *Runner) sendStopSignal() {
	if r.cmd == nil || r.cmd.Process == nil {
		return
	}
	r.logger.Info("Sending SIGINT to encoder", "pid", r.cmd.Process.Pid)
	if err := r.cmd.Process.Signal(syscall.SIGINT); err != nil {
		r.logger.Warn("Failed to send SIGINT", "error", err)
	}
}

// waitForExit waits for the process to exit with a timeout, force-killing if needed.
func (r *Runner) waitForExit(processDone <-chan error, timeout time.Duration) int {
	select {
	case err := <-processDone:
		return exitCodeFromError(err)
	case <-time.After(timeout):
		r.logger.Warn("Graceful shutdown timeout, forcing kill", "timeout", timeout)
		if r.cmd.Process != nil {
			if err := r.cmd.Process.Kill(); err != nil {
				// "os: process already finished" is OK here
				if !errors.Is(err, os.ErrProcessDone) {
					r.logger.Error("Failed to kill process", "error", err)
				}
			}
		}
		select {
		case <-processDone:
		case <-time.After(r.killTimeout):
			r.logger.Error("Process did not exit after kill signal")
		}
		return 137
	}
}

// streamLogs forwards stderr lines to the ffmpeg module logger at the
// level ffmpeg tagged them with.
func (r *Runner) streamLogs(reader io.Reader) {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		level, msg := ParseLogLevel(scanner.Text())
		switch level {
		case "panic", "fatal", "error":
			r.outputLogger.Error(msg)
		case "warning":
			r.outputLogger.Warn(msg)
		case "verbose", "debug", "trace":
			r.outputLogger.Debug(msg)
		default:
			r.outputLogger.Info(msg)
		}
	}
	if err := scanner.Err(); err != nil {
		r.logger.Warn("Error reading encoder output", "error", err)
	}
}
