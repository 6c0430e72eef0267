package compiler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"
)

// ErrSpawn marks failures to start the compiler process.
var ErrSpawn = errors.New("compiler failed to start")

// Stream identifies which child output stream a line came from.
type Stream string

const (
	StreamStdout Stream = "stdout"
	StreamStderr Stream = "stderr"
)

// Command is a fully resolved process invocation.
type Command struct {
	Binary string
	Args   []string
	Dir    string
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, cmd Command, onLine func(Stream, string)) error
}

const maxLineBytes = 1024 * 1024

// outputDrainDelay bounds how long output is read after the compiler exits.
// Background processes it leaves behind may keep the pipes open.
const outputDrainDelay = 5 * time.Second

type commandExecutor struct {
	drainDelay time.Duration
}

func (e commandExecutor) Run(ctx context.Context, command Command, onLine func(Stream, string)) error {
	cmd := exec.CommandContext(ctx, command.Binary, command.Args...) //nolint:gosec
	cmd.Dir = command.Dir
	killProcessGroup(cmd)

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("%w: stdout pipe: %w", ErrSpawn, err)
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		stdoutR.Close()
		stdoutW.Close()
		return fmt.Errorf("%w: stderr pipe: %w", ErrSpawn, err)
	}
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	startErr := cmd.Start()
	// The child holds its own copies of the write ends.
	stdoutW.Close()
	stderrW.Close()
	if startErr != nil {
		stdoutR.Close()
		stderrR.Close()
		return fmt.Errorf("%w: %w", ErrSpawn, startErr)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r *os.File, stream Stream) {
		defer wg.Done()
		defer r.Close()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for scanner.Scan() {
			if onLine != nil {
				onLine(stream, scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
			once.Do(func() {
				scanErr = err
			})
			// Drain so the child never blocks on a full pipe.
			_, _ = io.Copy(io.Discard, r)
		}
	}

	wg.Add(2)
	go scan(stdoutR, StreamStdout)
	go scan(stderrR, StreamStderr)
	scanned := make(chan struct{})
	go func() {
		wg.Wait()
		close(scanned)
	}()

	waitErr := cmd.Wait()

	delay := e.drainDelay
	if delay <= 0 {
		delay = outputDrainDelay
	}
	timer := time.NewTimer(delay)
	select {
	case <-scanned:
		timer.Stop()
	case <-timer.C:
		// Closing the read ends unblocks the scanners.
		stdoutR.Close()
		stderrR.Close()
		<-scanned
	}

	if waitErr != nil {
		return fmt.Errorf("wait command: %w", waitErr)
	}
	if scanErr != nil {
		return fmt.Errorf("scan output: %w", scanErr)
	}
	return nil
}
