package selector

import (
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

const (
	TooltipDelay  = 300 * time.Millisecond
	TooltipOffset = 12
)

// Point is a page position in pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Tooltip shows the full label of a truncated leaf option after a short
// hover delay. The delay timer fires on the clock's goroutine, so state is
// guarded by a mutex.
type Tooltip struct {
	mu       sync.Mutex
	clock    clock.Clock
	timer    *clock.Timer
	gen      uint64
	anchor   Point
	last     *Point
	active   string
	text     string
	position Point
	visible  bool
}

// NewTooltip creates a hidden tooltip. anchor is used as the position when
// no pointer coordinates are known, typically the bottom centre of the
// dropdown.
func NewTooltip(clk clock.Clock, anchor Point) *Tooltip {
	if clk == nil {
		clk = clock.New()
	}
	return &Tooltip{clock: clk, anchor: anchor}
}

// Hover reacts to the pointer entering or moving over opt, or to focus and
// change events when at is nil. Hovering the visible option only moves the
// tooltip; any other option restarts the delay.
func (t *Tooltip) Hover(opt *Option, at *Point) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if opt == nil {
		t.hideLocked()
		return
	}

	pos := t.resolveLocked(at)
	t.last = &pos

	if t.visible && t.active == opt.Value {
		t.position = offset(pos)
		return
	}

	t.stopLocked()
	option := *opt
	gen := t.gen
	t.timer = t.clock.AfterFunc(TooltipDelay, func() {
		t.show(gen, option, pos)
	})
}

// Hide dismisses the tooltip on blur, pointer leave or scroll
func (t *Tooltip) Hide() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hideLocked()
}

func (t *Tooltip) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

func (t *Tooltip) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text
}

func (t *Tooltip) Position() Point {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

func (t *Tooltip) show(gen uint64, opt Option, at Point) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// a timer stopped too late must not resurrect an old target
	if gen != t.gen {
		return
	}
	t.timer = nil
	full := opt.FullLabel
	display := strings.TrimSpace(opt.Text)
	if full == "" || display == "" || full == display {
		t.hideLocked()
		return
	}

	t.active = opt.Value
	t.text = full
	t.position = offset(at)
	t.visible = true
}

func (t *Tooltip) resolveLocked(at *Point) Point {
	if at != nil {
		return *at
	}
	if t.last != nil {
		return *t.last
	}
	return t.anchor
}

func (t *Tooltip) stopLocked() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Tooltip) hideLocked() {
	t.stopLocked()
	t.active = ""
	t.last = nil
	t.visible = false
}

func offset(p Point) Point {
	return Point{X: p.X + TooltipOffset, Y: p.Y + TooltipOffset}
}
