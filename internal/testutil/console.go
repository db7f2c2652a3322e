//go:build !windows
// +build !windows

// Package testutil hosts the virtual-terminal harness used to test
// interactive prompts.
package testutil

import (
	"testing"
	"time"

	"github.com/AlecAivazis/survey/v2/terminal"
	expect "github.com/Netflix/go-expect"
	pseudotty "github.com/creack/pty"
	"github.com/hinshun/vt10x"
)

// Console drives the virtual terminal from the test side.
type Console interface {
	ExpectString(string)
	SendLine(string)
}

type console struct {
	c *expect.Console
	t *testing.T
}

func (w *console) ExpectString(s string) {
	w.t.Helper()
	if _, err := w.c.ExpectString(s); err != nil {
		w.t.Logf("ExpectString(%q): %v", s, err)
	}
}

func (w *console) SendLine(s string) {
	w.t.Helper()
	if _, err := w.c.SendLine(s); err != nil {
		w.t.Fatalf("SendLine(%q): %v", s, err)
	}
}

// WithPrompt runs an interactive prompt under a pty/vt10x pair: drive
// scripts the user's keystrokes, run executes the prompt with the virtual
// stdio.
func WithPrompt(t *testing.T, drive func(Console), run func(terminal.Stdio) error) {
	t.Helper()

	ptm, pts, err := pseudotty.Open()
	if err != nil {
		t.Fatalf("open pseudotty: %v", err)
	}

	term := vt10x.New(vt10x.WithWriter(pts))
	c, err := expect.NewConsole(
		expect.WithStdin(ptm),
		expect.WithStdout(term),
		expect.WithCloser(ptm, pts),
		expect.WithDefaultTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("create console: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		drive(&console{c: c, t: t})
		// Keep draining console output so the vt10x terminal sees (and
		// answers) survey's cursor-position queries until the tty closes.
		_, _ = c.ExpectEOF()
	}()

	stdio := terminal.Stdio{In: c.Tty(), Out: c.Tty(), Err: c.Tty()}
	runErr := run(stdio)

	c.Tty().Close()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for console script")
	}

	if runErr != nil {
		t.Logf("prompt returned error: %v", runErr)
	}
}
