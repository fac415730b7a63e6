package toolrunner

import (
	"context"
	"fmt"
	"strings"
	"sync"

	execute "github.com/alexellis/go-execute/v2"
	"github.com/filebridge/filebridge/pkg/logging"
)

// Tool identifies an external executable by class name and binary path.
// The class name keys the concurrency gate so every ghostscript invocation
// shares one gate no matter which handler spawned it.
type Tool struct {
	Name string
	Bin  string
}

// Result carries the captured output of a finished process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ToolError is returned when an external tool exits non-zero or fails to
// start. The message never includes the argument list, which may embed
// temp paths that must not leak into responses.
type ToolError struct {
	Tool     string
	Stderr   string
	ExitCode int
}

func (e *ToolError) Error() string {
	detail := strings.TrimSpace(e.Stderr)
	if detail == "" {
		return fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Tool, e.ExitCode, detail)
}

// Runner invokes external tools with explicit argument vectors. Commands are
// never passed through a shell, so user-controlled filenames and URLs cannot
// inject into the command line. A per-tool semaphore bounds how many
// processes of each class run at once.
type Runner struct {
	logger   *logging.Logger
	capacity int

	mu    sync.Mutex
	gates map[string]chan struct{}
}

// NewRunner builds a runner allowing up to capacity concurrent processes
// per tool class.
func NewRunner(capacity int, logger *logging.Logger) *Runner {
	if capacity < 1 {
		capacity = 1
	}
	return &Runner{
		logger:   logger,
		capacity: capacity,
		gates:    make(map[string]chan struct{}),
	}
}

func (r *Runner) gate(name string) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.gates[name]
	if !ok {
		g = make(chan struct{}, r.capacity)
		r.gates[name] = g
	}
	return g
}

// Run executes the tool and waits for it to finish. The process inherits
// ctx, so a client disconnect cancels the child instead of orphaning it.
// Non-zero exits surface as *ToolError carrying the captured stderr.
func (r *Runner) Run(ctx context.Context, tool Tool, args []string) (Result, error) {
	gate := r.gate(tool.Name)
	select {
	case gate <- struct{}{}:
		defer func() { <-gate }()
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	r.logger.Debug("executing", "tool", tool.Name, "bin", tool.Bin, "args", args)

	task := execute.ExecTask{
		Command: tool.Bin,
		Args:    args,
	}

	res, err := task.Execute(ctx)
	result := Result{Stdout: res.Stdout, Stderr: res.Stderr, ExitCode: res.ExitCode}
	if err != nil {
		r.logger.Error("tool failed to run", "tool", tool.Name, "error", err)
		return result, &ToolError{Tool: tool.Name, Stderr: err.Error(), ExitCode: res.ExitCode}
	}

	if res.ExitCode != 0 {
		r.logger.Warn("tool exited with non-zero code", "tool", tool.Name, "code", res.ExitCode, "stderr", res.Stderr)
		return result, &ToolError{Tool: tool.Name, Stderr: res.Stderr, ExitCode: res.ExitCode}
	}

	r.logger.Debug("tool finished", "tool", tool.Name, "code", res.ExitCode)
	return result, nil
}
