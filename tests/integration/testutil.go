// Package integration provides CLI and end-to-end integration tests for
// framecheck.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// framecheckBin is the path to the built framecheck binary.
	framecheckBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetFramecheckBin sets the path to the framecheck binary (called from TestMain).
func SetFramecheckBin(path string) {
	framecheckBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated test environment with its own config and
// schema directories.
type TestEnv struct {
	t         *testing.T
	TempDir   string
	ConfigDir string
	SchemaDir string
}

// NewTestEnv creates a new isolated test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build framecheck: %v", buildErr)
	}
	if framecheckBin == "" {
		t.Fatal("framecheck binary not built (framecheckBin is empty)")
	}

	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, "config")
	schemaDir := filepath.Join(tempDir, "schemas")

	for _, dir := range []string{configDir, schemaDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	configContent := "schema_dir: " + schemaDir + "\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:         t,
		TempDir:   tempDir,
		ConfigDir: configDir,
		SchemaDir: schemaDir,
	}
}

// WriteFile writes content under the test temp directory and returns the path.
func (e *TestEnv) WriteFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.TempDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// WriteSchemaFile writes a schema declaration into the schema directory and
// returns its bare name, so tests exercise schema-dir resolution.
func (e *TestEnv) WriteSchemaFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.SchemaDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("failed to write schema %s: %v", name, err)
	}
	return name
}

// writeFile writes content to an absolute path, failing the test on error.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// CmdResult holds the result of a framecheck command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunFramecheck executes the framecheck CLI with the given arguments.
// Returns stdout, stderr, and exit code.
func (e *TestEnv) RunFramecheck(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.ConfigDir}, args...)
	cmd := exec.Command(framecheckBin, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run framecheck: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunFramecheck executes the framecheck CLI and fails the test if it
// returns non-zero.
func (e *TestEnv) MustRunFramecheck(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunFramecheck(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("framecheck %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}
