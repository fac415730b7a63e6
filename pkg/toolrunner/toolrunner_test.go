package toolrunner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/filebridge/filebridge/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	logger := logging.GetLogger()
	ctx := context.Background()
	runner := NewRunner(2, logger)

	t.Run("SimpleCommand", func(t *testing.T) {
		res, err := runner.Run(ctx, Tool{Name: "echo", Bin: "echo"}, []string{"hello"})
		require.NoError(t, err)
		assert.Equal(t, "hello\n", res.Stdout)
		assert.Equal(t, 0, res.ExitCode)
	})

	t.Run("NonZeroExit", func(t *testing.T) {
		_, err := runner.Run(ctx, Tool{Name: "false", Bin: "false"}, nil)
		require.Error(t, err)

		var toolErr *ToolError
		require.True(t, errors.As(err, &toolErr))
		assert.Equal(t, "false", toolErr.Tool)
		assert.NotEqual(t, 0, toolErr.ExitCode)
	})

	t.Run("ArgsAreNotShellInterpreted", func(t *testing.T) {
		// A shell-interpolated invocation would expand this; an argv
		// invocation must print it verbatim.
		res, err := runner.Run(ctx, Tool{Name: "echo", Bin: "echo"}, []string{"$(id); rm -rf /"})
		require.NoError(t, err)
		assert.Equal(t, "$(id); rm -rf /\n", res.Stdout)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := runner.Run(cancelled, Tool{Name: "sleep", Bin: "sleep"}, []string{"5"})
		require.Error(t, err)
	})
}

func TestGateBoundsConcurrency(t *testing.T) {
	runner := NewRunner(1, logging.GetLogger())
	ctx := context.Background()

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := runner.Run(ctx, Tool{Name: "sleep", Bin: "sleep"}, []string{"0.2"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// With capacity 1 the two sleeps must serialize.
	assert.GreaterOrEqual(t, time.Since(start), 400*time.Millisecond)
}

func TestToolErrorMessage(t *testing.T) {
	err := &ToolError{Tool: "ghostscript", Stderr: "  invalid file \n", ExitCode: 1}
	assert.Equal(t, "ghostscript exited with code 1: invalid file", err.Error())

	bare := &ToolError{Tool: "ffmpeg", ExitCode: 137}
	assert.Equal(t, "ffmpeg exited with code 137", bare.Error())
}
