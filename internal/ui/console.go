package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Console renders toasts and dialogs on a terminal.
type Console struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer

	success func(format string, a ...interface{}) string
	failure func(format string, a ...interface{}) string
}

// NewConsole reads answers from in and writes to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:      bufio.NewReader(in),
		out:     out,
		success: color.New(color.FgWhite, color.BgGreen).SprintfFunc(),
		failure: color.New(color.FgWhite, color.BgRed).SprintfFunc(),
	}
}

// Notify implements Notifier.
func (c *Console) Notify(message string, level Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	paint := c.success
	if level == LevelError {
		paint = c.failure
	}
	fmt.Fprintln(c.out, paint(" %s ", message))
}

// Prompt implements Dialogs. End of input counts as cancel.
func (c *Console) Prompt(ctx context.Context, message string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s ", message)
	line, err := c.readLine(ctx)
	if err != nil {
		return "", false
	}
	return line, true
}

// Confirm implements Dialogs.
func (c *Console) Confirm(ctx context.Context, message string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s [y/N] ", message)
	line, err := c.readLine(ctx)
	if err != nil {
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}

// Alert implements Dialogs.
func (c *Console) Alert(_ context.Context, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, color.CyanString(message))
}

func (c *Console) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
