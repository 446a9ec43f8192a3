package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/arlenner/agent-hooks-go/hook"
	"github.com/arlenner/agent-hooks-go/internal/fieldpath"
)

// commandAdapter spawns an external process per invocation. The process
// receives {"event", "data"} as JSON on stdin and reports its verdict by
// printing a JSON object to stdout.
//
// Protocol: exit 0 with empty stdout is continue; exit 0 with a JSON
// {action, reason, modified_data} object is that verdict; anything else
// (non-zero exit, unparseable output, timeout) is an adapter error and
// never a denial.
//
// Environment variables set for the process: HOOK_EVENT, HOOK_NAME, and,
// when present in the payload, HOOK_SESSION_ID and HOOK_TOOL.
type commandAdapter struct {
	name    string
	command string
	script  string
	workDir string
	logger  *slog.Logger
}

// NewCommand creates the adapter for a command-kind handler. workDir is
// the handler's declared search root; scripts with relative paths are
// resolved against it and the process runs inside it.
func NewCommand(cfg hook.Config, workDir string, logger *slog.Logger) Adapter {
	return &commandAdapter{
		name:    cfg.Name,
		command: cfg.Command,
		script:  cfg.Script,
		workDir: workDir,
		logger:  logger,
	}
}

type stdinEnvelope struct {
	Event hook.Event      `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (a *commandAdapter) Invoke(ctx context.Context, event hook.Event, data json.RawMessage) (*hook.Verdict, error) {
	argv, err := a.argv()
	if err != nil {
		return nil, err
	}

	input, err := json.Marshal(stdinEnvelope{Event: event, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode stdin payload: %w", err)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if a.workDir != "" {
		cmd.Dir = a.workDir
	}
	cmd.Env = a.buildEnv(event, data)
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		a.logger.Debug("hook process stderr", "handler", a.name, "stderr", msg)
	}

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("process timed out")
	}
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			return nil, fmt.Errorf("process exited with code %d", exitErr.ExitCode())
		}
		return nil, fmt.Errorf("run process: %w", runErr)
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return hook.Continue(""), nil
	}
	return parseWireVerdict([]byte(out))
}

// argv builds the command line. A command string runs through the shell;
// a script is resolved against the work dir and routed to an interpreter
// by extension.
func (a *commandAdapter) argv() ([]string, error) {
	if a.command != "" {
		return []string{"sh", "-c", a.command}, nil
	}

	script := a.script
	if !filepath.IsAbs(script) && a.workDir != "" {
		script = filepath.Join(a.workDir, script)
	}
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("script not found: %s", script)
	}

	switch strings.ToLower(filepath.Ext(script)) {
	case ".sh":
		return []string{"bash", script}, nil
	case ".py":
		return []string{"python3", script}, nil
	default:
		return []string{script}, nil
	}
}

func (a *commandAdapter) buildEnv(event hook.Event, data json.RawMessage) []string {
	env := append(os.Environ(),
		"HOOK_EVENT="+string(event),
		"HOOK_NAME="+a.name,
	)
	if sid, ok := fieldpath.Lookup(data, "session_id"); ok && sid != "" {
		env = append(env, "HOOK_SESSION_ID="+sid)
	}
	if tool, ok := fieldpath.Lookup(data, "tool"); ok && tool != "" {
		env = append(env, "HOOK_TOOL="+tool)
	}
	return env
}
