// Package input reads single keypresses and whole lines from the console.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/RenatoCabral2022/eartone/internal/trainer"
)

const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

// Console implements trainer.KeyReader and trainer.LineReader over one
// buffered reader, so bytes left over from a key read are seen by the next
// line read and vice versa.
//
// When the input is a terminal, ReadKey switches it to raw mode for the
// duration of the read only. Otherwise each key is read as a line: "u"/"up",
// "d"/"down", a single space, or "q".
//
// A blocked ReadKey leaves the terminal raw until a key arrives. Restore
// puts it back from any goroutine, so a caller that stops waiting on
// shutdown can hand the shell a cooked terminal.
type Console struct {
	r      *bufio.Reader
	out    io.Writer
	fd     int
	isTerm bool
	logger *zap.Logger

	makeRaw func(fd int) (*term.State, error)
	restore func(fd int, state *term.State) error

	mu  sync.Mutex
	raw *term.State // saved cooked state while a raw read is in progress
}

// NewStdio returns a Console on the process's stdin and stdout.
func NewStdio(logger *zap.Logger) *Console {
	c := New(os.Stdin, os.Stdout, logger)
	fd := int(os.Stdin.Fd())
	c.fd = fd
	c.isTerm = term.IsTerminal(fd)
	return c
}

// New returns a non-terminal Console over r. Prompts go to out.
func New(r io.Reader, out io.Writer, logger *zap.Logger) *Console {
	if out == nil {
		out = io.Discard
	}
	return &Console{
		r:       bufio.NewReader(r),
		out:     out,
		fd:      -1,
		logger:  logger,
		makeRaw: term.MakeRaw,
		restore: term.Restore,
	}
}

// IsTerminal reports whether keys are read in raw mode.
func (c *Console) IsTerminal() bool {
	return c.isTerm
}

// ReadKey blocks for one key. Ctrl-C is reported as trainer.KeyQuit.
func (c *Console) ReadKey() (trainer.Key, error) {
	if !c.isTerm {
		return c.readLineKey()
	}

	if err := c.enterRaw(); err != nil {
		return trainer.KeyOther, err
	}
	defer func() {
		if err := c.Restore(); err != nil {
			c.logger.Warn("restore terminal failed", zap.Error(err))
		}
	}()
	return c.readRawKey()
}

func (c *Console) enterRaw() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, err := c.makeRaw(c.fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	c.raw = state
	return nil
}

// Restore returns the terminal to the mode it had before the current raw
// read. It is a no-op when no raw read is in progress and safe to call
// more than once.
func (c *Console) Restore() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.raw == nil {
		return nil
	}
	state := c.raw
	c.raw = nil
	if err := c.restore(c.fd, state); err != nil {
		return fmt.Errorf("restore terminal: %w", err)
	}
	return nil
}

func (c *Console) readRawKey() (trainer.Key, error) {
	b, err := c.r.ReadByte()
	if err != nil {
		return trainer.KeyOther, err
	}
	switch b {
	case ' ':
		return trainer.KeySpace, nil
	case 'q', 'Q', keyCtrlC:
		return trainer.KeyQuit, nil
	case keyEscape:
		return c.readEscape()
	}
	return trainer.KeyOther, nil
}

// readEscape decodes the CSI arrow sequences ESC [ A and ESC [ B. Only
// bytes already buffered are consumed so a lone Escape does not block.
func (c *Console) readEscape() (trainer.Key, error) {
	if c.r.Buffered() < 2 {
		return trainer.KeyOther, nil
	}
	seq, err := c.r.Peek(2)
	if err != nil {
		return trainer.KeyOther, nil
	}
	if seq[0] != '[' && seq[0] != 'O' {
		return trainer.KeyOther, nil
	}
	if _, err := c.r.Discard(2); err != nil {
		return trainer.KeyOther, err
	}
	switch seq[1] {
	case 'A':
		return trainer.KeyUp, nil
	case 'B':
		return trainer.KeyDown, nil
	}
	return trainer.KeyOther, nil
}

func (c *Console) readLineKey() (trainer.Key, error) {
	line, err := c.readLine()
	if err != nil {
		return trainer.KeyOther, err
	}
	return ParseKeyLine(line), nil
}

// ParseKeyLine maps a line typed in place of a keypress.
func ParseKeyLine(line string) trainer.Key {
	if line == " " {
		return trainer.KeySpace
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "u", "up", "\x1b[a":
		return trainer.KeyUp
	case "d", "down", "\x1b[b":
		return trainer.KeyDown
	case "q", "quit":
		return trainer.KeyQuit
	}
	return trainer.KeyOther
}

// ReadLine writes prompt and returns the next line without its terminator.
// A final line without a newline is returned as is; io.EOF follows it.
func (c *Console) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(c.out, prompt)
	}
	return c.readLine()
}

func (c *Console) readLine() (string, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
