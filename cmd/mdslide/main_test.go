package main

// Notes:
// - End-to-end tests drive runMain with the real converter and temp dirs.
//   The client math engine keeps formulas as delimited text so assertions do
//   not depend on MathML output.
// - Watch mode is covered in watch_test.go; signals are not simulated.

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDeck = `---
title: Quarterly Review
---
# Results

Revenue is up.

## Details

- north
- south

# Next steps

` + "```go\nfmt.Println(\"ship\")\n```\n"

// ---------------------------------------------------------------------------
// TestRunMain - Command dispatch
// ---------------------------------------------------------------------------

func TestRunMain_Commands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no args", []string{"mdslide"}, ExitUsage, "", "Usage: mdslide"},
		{"version", []string{"mdslide", "version"}, ExitSuccess, "mdslide dev", ""},
		{"help", []string{"mdslide", "help"}, ExitSuccess, "Commands:", ""},
		{"help convert", []string{"mdslide", "help", "convert"}, ExitSuccess, "--math-engine", ""},
		{"help unknown", []string{"mdslide", "help", "render"}, ExitUsage, "", "Unknown command: render"},
		{"unknown flag", []string{"mdslide", "convert", "--pdf"}, ExitUsage, "", "unknown flag"},
		{"no input", []string{"mdslide", "convert"}, ExitIO, "", "no input specified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			if got := runMain(tt.args, env); got != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", got, tt.wantCode, stderr)
			}
			if !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want containing %q", stdout.String(), tt.wantStdout)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want containing %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Convert - End-to-end conversion
// ---------------------------------------------------------------------------

func TestRunMain_ConvertHTML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "review.md", sampleDeck)

	env, stdout, stderr := testEnv()
	code := runMain([]string{"mdslide", in, "--math-engine", "client", "--style", "dark"}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	out := filepath.Join(dir, "review.html")
	if !strings.Contains(stdout.String(), "Created "+out) {
		t.Errorf("stdout = %q, want Created line", stdout.String())
	}

	page := readFile(t, out)
	for _, want := range []string{
		"<title>Quarterly Review</title>",
		`<section class="slide" data-depth="1">`,
		`<section class="slide" data-depth="2">`,
		`<div class="slide-content">`,
		`class="chroma"`,
		"<style>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if got := strings.Count(page, `<section class="slide"`); got != 3 {
		t.Errorf("page has %d sections, want 3", got)
	}
}

func TestRunMain_ConvertJSONWithConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, filepath.Join("talks", "review.md"), sampleDeck)
	writeFile(t, dir, filepath.Join("talks", "empty.md"), "")
	cfgPath := writeFile(t, dir, "mdslide.yaml", "output:\n  format: json\nmath:\n  engine: client\n")

	env, stdout, stderr := testEnv()
	code := runMain([]string{"mdslide", "convert", "-c", cfgPath, "-o", filepath.Join(dir, "out"), filepath.Join(dir, "talks")}, env)
	if code != ExitGeneral {
		t.Fatalf("exit code = %d, want %d (one empty input fails)", code, ExitGeneral)
	}
	if !strings.Contains(stderr.String(), "FAILED") || !strings.Contains(stderr.String(), "empty.md") {
		t.Errorf("stderr = %q, want failure for empty.md", stderr.String())
	}
	if !strings.Contains(stdout.String(), "1 succeeded, 1 failed") {
		t.Errorf("stdout = %q, want summary", stdout.String())
	}

	var deck deckView
	if err := json.Unmarshal([]byte(readFile(t, filepath.Join(dir, "out", "review.slides.json"))), &deck); err != nil {
		t.Fatalf("decoding deck: %v", err)
	}
	if deck.Title != "Quarterly Review" || len(deck.Slides) != 2 {
		t.Errorf("deck = %q with %d slides, want Quarterly Review with 2", deck.Title, len(deck.Slides))
	}
}

func TestRunMain_ConvertTreeInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "tree.json", `{"type":"root","children":[
		{"type":"heading","depth":1,"children":[{"type":"text","value":"From JSON"}]},
		{"type":"paragraph","children":[{"type":"text","value":"parsed elsewhere"}]}
	]}`)

	env, _, stderr := testEnv()
	if code := runMain([]string{"mdslide", in, "-q"}, env); code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	page := readFile(t, filepath.Join(dir, "tree.html"))
	if !strings.Contains(page, "<title>From JSON</title>") || !strings.Contains(page, "parsed elsewhere") {
		t.Errorf("page does not reflect the tree input:\n%s", page)
	}
}

func TestRunMain_ConvertErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "deck.md", "# Deck")
	writeFile(t, dir, "notes.txt", "x")

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStderr string
	}{
		{"missing file", []string{filepath.Join(dir, "nope.md")}, ExitIO, "no such file"},
		{"unsupported extension", []string{filepath.Join(dir, "notes.txt")}, ExitUsage, "hint: accepted inputs"},
		{"bad format", []string{in, "-f", "pdf"}, ExitUsage, "invalid output format"},
		{"bad workers", []string{in, "-w", "99"}, ExitUsage, "invalid worker count"},
		{"bad code style", []string{in, "--code-style", "nope"}, ExitUsage, "hint: try one of"},
		{"bad math engine", []string{in, "--math-engine", "nope"}, ExitUsage, "hint: available"},
		{"bad math policy", []string{in, "--math-policy", "lenient"}, ExitUsage, "must be soft or strict"},
		{"bad deck style", []string{in, "--style", "neon"}, ExitUsage, "hint: available"},
		{"missing config", []string{in, "-c", "no-such-config"}, ExitUsage, "hint: use --config"},
		{"missing css", []string{in, "--css", filepath.Join(dir, "none.css")}, ExitIO, "failed to read CSS file"},
		{"missing script", []string{in, "--script", filepath.Join(dir, "none.js")}, ExitUsage, "script file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, stderr := testEnv()
			args := append([]string{"mdslide", "convert"}, tt.args...)
			if got := runMain(args, env); got != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", got, tt.wantCode, stderr)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want containing %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}
