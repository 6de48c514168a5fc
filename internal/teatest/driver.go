// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and every Cmd it returns is run before the next
// input, so a test can observe each state the chart editor passes through.
// Cmds that sleep (tea.Tick, cursor blink) miss the deadline and are dropped;
// tests deliver those messages themselves with Send.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// maxSteps bounds the messages processed for one input.
	maxSteps = 100

	// cmdDeadline separates message factories from timers.
	cmdDeadline = 10 * time.Millisecond
)

// Driver feeds input to a tea.Model and applies the results in place.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting records a tea.Quit, which a real Program would consume.
	Quitting bool
}

type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// New wraps model. Call DrainInit to run its Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) DrainInit() {
	d.T.Helper()
	d.run(d.Model.Init())
}

// Send delivers msg and everything it leads to. Input after a quit is
// ignored.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.run(cmd)
}

func (d *Driver) press(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

func (d *Driver) PressEnter() { d.press(tea.KeyEnter) }
func (d *Driver) PressEsc() { d.press(tea.KeyEsc) }
func (d *Driver) PressCtrlC() { d.press(tea.KeyCtrlC) }
func (d *Driver) PressUp() { d.press(tea.KeyUp) }
func (d *Driver) PressDown() { d.press(tea.KeyDown) }
func (d *Driver) PressLeft() { d.press(tea.KeyLeft) }
func (d *Driver) PressRight() { d.press(tea.KeyRight) }

// PressRepeat calls press n times, e.g. to drag a bar several days.
func (d *Driver) PressRepeat(n int, press func()) {
	d.T.Helper()
	for range n {
		press()
	}
}

func (d *Driver) View() string { return d.Model.View() }

func (d *Driver) ViewContains(s string) bool {
	return strings.Contains(d.View(), s)
}

// run works through cmd and its descendants breadth first.
func (d *Driver) run(cmd tea.Cmd) {
	d.T.Helper()
	pending := []tea.Cmd{cmd}
	for steps := 0; len(pending) > 0; steps++ {
		if steps == maxSteps {
			d.T.Logf("teatest: stopped after %d steps, %d cmds pending", maxSteps, len(pending))
			return
		}
		next := pending[0]
		pending = pending[1:]
		if next == nil {
			continue
		}

		switch msg := await(next).(type) {
		case nil:
		case tea.BatchMsg:
			pending = append(pending, msg...)
		case tea.QuitMsg:
			d.Quitting = true
			d.Model, _ = d.Model.Update(msg)
			return
		default:
			if blink(msg) {
				continue
			}
			var follow tea.Cmd
			d.Model, follow = d.Model.Update(msg)
			pending = append(pending, follow)
		}
	}
}

// await returns cmd's message, or nil if it is still running at the deadline.
func await(cmd tea.Cmd) tea.Msg {
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	select {
	case msg := <-out:
		return msg
	case <-time.After(cmdDeadline):
		return nil
	}
}

// blink matches bubbles/cursor's unexported blink messages, which would
// otherwise chain into more timers.
func blink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
