package main

// Notes:
// - Shared test infrastructure: a buffered environment, a scripted converter
//   and small file helpers. Not under test itself.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	mdslide "github.com/alnah/go-mdslide"
)

// ---------------------------------------------------------------------------
// Environment
// ---------------------------------------------------------------------------

var testNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// testEnv returns an environment writing to buffers, with a frozen clock and
// colors disabled.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return testNow },
		Stdout: &stdout,
		Stderr: &stderr,
	}
	return env, &stdout, &stderr
}

// ---------------------------------------------------------------------------
// Mock Converter
// ---------------------------------------------------------------------------

// mockConverter returns an empty tree and a page holding the title.
type mockConverter struct {
	convertErr error
	pageErr    error
	calls      atomic.Int32
}

func (m *mockConverter) Convert(_ context.Context, input mdslide.Input) (*mdslide.Result, error) {
	m.calls.Add(1)
	if m.convertErr != nil {
		return nil, m.convertErr
	}
	return &mdslide.Result{Tree: &mdslide.Tree{}, Title: "Mock " + input.Markdown}, nil
}

func (m *mockConverter) RenderPage(_ context.Context, _ *mdslide.Tree, opts mdslide.PageOptions) (string, error) {
	if m.pageErr != nil {
		return "", m.pageErr
	}
	return "<title>" + opts.Title + "</title>", nil
}

// ---------------------------------------------------------------------------
// File Helpers
// ---------------------------------------------------------------------------

// writeFile creates dir/name with content, creating parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
