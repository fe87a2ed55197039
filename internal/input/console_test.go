package input

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"golang.org/x/term"

	"github.com/RenatoCabral2022/eartone/internal/trainer"
)

func TestReadKeyFromLines(t *testing.T) {
	c := New(strings.NewReader("up\nD\n \nx\nq\n"), nil, zaptest.NewLogger(t))
	want := []trainer.Key{trainer.KeyUp, trainer.KeyDown, trainer.KeySpace, trainer.KeyOther, trainer.KeyQuit}
	for i, w := range want {
		got, err := c.ReadKey()
		if err != nil {
			t.Fatalf("key %d: %v", i, err)
		}
		if got != w {
			t.Errorf("key %d = %v, want %v", i, got, w)
		}
	}
	if _, err := c.ReadKey(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF after input, got %v", err)
	}
}

func TestReadRawKey(t *testing.T) {
	c := New(strings.NewReader("\x1b[A\x1b[B \x03Qz\x1bOA"), nil, zaptest.NewLogger(t))
	want := []trainer.Key{
		trainer.KeyUp, trainer.KeyDown, trainer.KeySpace,
		trainer.KeyQuit, trainer.KeyQuit, trainer.KeyOther, trainer.KeyUp,
	}
	for i, w := range want {
		got, err := c.readRawKey()
		if err != nil {
			t.Fatalf("key %d: %v", i, err)
		}
		if got != w {
			t.Errorf("key %d = %v, want %v", i, got, w)
		}
	}
}

func TestReadRawKeyLoneEscape(t *testing.T) {
	c := New(strings.NewReader("\x1b"), nil, zaptest.NewLogger(t))
	got, err := c.readRawKey()
	if err != nil {
		t.Fatal(err)
	}
	if got != trainer.KeyOther {
		t.Fatalf("lone escape = %v, want other", got)
	}
}

func TestReadLine(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("12.5\r\n \n  q  \nlast"), &out, zaptest.NewLogger(t))

	want := []string{"12.5", " ", "  q  ", "last"}
	for i, w := range want {
		got, err := c.ReadLine("> ")
		if err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if got != w {
			t.Errorf("line %d = %q, want %q", i, got, w)
		}
	}
	if _, err := c.ReadLine("> "); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
	if got := strings.Count(out.String(), "> "); got != 5 {
		t.Fatalf("prompt written %d times, want 5", got)
	}
}

func TestKeysAndLinesShareBuffer(t *testing.T) {
	c := New(strings.NewReader("down\n42\n"), nil, zaptest.NewLogger(t))
	key, err := c.ReadKey()
	if err != nil || key != trainer.KeyDown {
		t.Fatalf("ReadKey() = %v, %v", key, err)
	}
	line, err := c.ReadLine("")
	if err != nil || line != "42" {
		t.Fatalf("ReadLine() = %q, %v", line, err)
	}
}

func TestParseKeyLine(t *testing.T) {
	cases := map[string]trainer.Key{
		"u":      trainer.KeyUp,
		" UP ":   trainer.KeyUp,
		"\x1b[A": trainer.KeyUp,
		"down":   trainer.KeyDown,
		" ":      trainer.KeySpace,
		"":       trainer.KeyOther,
		"  ":     trainer.KeyOther,
		"Quit":   trainer.KeyQuit,
		"sharp":  trainer.KeyOther,
	}
	for in, want := range cases {
		if got := ParseKeyLine(in); got != want {
			t.Errorf("ParseKeyLine(%q) = %v, want %v", in, got, want)
		}
	}
}

// fakeTerm counts raw-mode transitions in place of a real tty.
type fakeTerm struct {
	mu       sync.Mutex
	raw      int
	restored int
}

func (f *fakeTerm) makeRaw(int) (*term.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.raw++
	return &term.State{}, nil
}

func (f *fakeTerm) restore(int, *term.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restored++
	return nil
}

func (f *fakeTerm) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.raw, f.restored
}

func newRawConsole(t *testing.T, r io.Reader) (*Console, *fakeTerm) {
	t.Helper()
	ft := &fakeTerm{}
	c := New(r, nil, zaptest.NewLogger(t))
	c.isTerm = true
	c.makeRaw = ft.makeRaw
	c.restore = ft.restore
	return c, ft
}

func TestReadKeyRestoresTerminal(t *testing.T) {
	c, ft := newRawConsole(t, strings.NewReader("\x1b[A"))
	key, err := c.ReadKey()
	if err != nil || key != trainer.KeyUp {
		t.Fatalf("ReadKey() = %v, %v", key, err)
	}
	if raw, restored := ft.counts(); raw != 1 || restored != 1 {
		t.Fatalf("raw %d restored %d, want 1 and 1", raw, restored)
	}
	if err := c.Restore(); err != nil {
		t.Fatalf("Restore() after read = %v", err)
	}
	if _, restored := ft.counts(); restored != 1 {
		t.Fatalf("idle Restore should be a no-op, restored %d times", restored)
	}
}

func TestRestoreWhileReadBlocked(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	c, ft := newRawConsole(t, pr)

	done := make(chan trainer.Key, 1)
	go func() {
		key, _ := c.ReadKey()
		done <- key
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if raw, _ := ft.counts(); raw == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("ReadKey never entered raw mode")
		}
		time.Sleep(time.Millisecond)
	}

	// Shutdown path: the reader is still blocked, the terminal must come back.
	if err := c.Restore(); err != nil {
		t.Fatalf("Restore() = %v", err)
	}
	if _, restored := ft.counts(); restored != 1 {
		t.Fatalf("expected terminal restored once, got %d", restored)
	}

	pw.Write([]byte("q"))
	if key := <-done; key != trainer.KeyQuit {
		t.Fatalf("ReadKey() = %v, want quit", key)
	}
	if _, restored := ft.counts(); restored != 1 {
		t.Fatalf("late read must not restore again, got %d", restored)
	}
}

func TestRestoreNonTerminal(t *testing.T) {
	c := New(strings.NewReader(""), nil, zaptest.NewLogger(t))
	if err := c.Restore(); err != nil {
		t.Fatalf("Restore() on a non-terminal = %v", err)
	}
}
