// Package overlay tracks modal dialogs and closes them on outside clicks.
//
// A pointer-down is classified per open dialog by an explicit hit test
// against that dialog's content Region. Presses that start inside the
// content never dismiss it, however deeply nested the target is; no
// propagation tricks or allow-lists are involved.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/fruitpie/internal/logging"
)

var ErrUnknownDialog = errors.New("unknown dialog")

// State of a single dialog.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

type dialog struct {
	content Region
	state   State
}

// Controller owns the open/closed state of every registered dialog.
// It is safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	dialogs map[string]*dialog
	order   []string
	log     logging.Logger
}

func NewController(log logging.Logger) *Controller {
	return &Controller{
		dialogs: make(map[string]*dialog),
		log:     log.With("component", "overlay"),
	}
}

// Add registers a dialog in the Closed state. Adding an existing name
// replaces its content region and keeps its state.
func (c *Controller) Add(name string, content Region) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.dialogs[name]; ok {
		d.content = content
		return
	}
	c.dialogs[name] = &dialog{content: content}
	c.order = append(c.order, name)
}

// Open shows the dialog. Other dialogs are left as they are.
func (c *Controller) Open(name string) error {
	return c.set(name, Open)
}

// Close hides the dialog. Closing a closed dialog is a no-op.
func (c *Controller) Close(name string) error {
	return c.set(name, Closed)
}

// CloseAll hides every dialog.
func (c *Controller) CloseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.dialogs {
		d.state = Closed
	}
}

func (c *Controller) set(name string, s State) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.dialogs[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownDialog)
	}
	d.state = s
	return nil
}

// State returns the state of the named dialog; unknown dialogs are Closed.
func (c *Controller) State(name string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d, ok := c.dialogs[name]; ok {
		return d.state
	}
	return Closed
}

func (c *Controller) IsOpen(name string) bool {
	return c.State(name) == Open
}

// OpenDialogs lists open dialogs in registration order.
func (c *Controller) OpenDialogs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var open []string
	for _, name := range c.order {
		if c.dialogs[name].state == Open {
			open = append(open, name)
		}
	}
	return open
}

// PointerDown evaluates ev against every open dialog independently and
// closes each one whose content does not contain it. It returns the names
// of the dialogs it closed, in registration order. A dialog added without a
// content region is never dismissed this way.
func (c *Controller) PointerDown(ctx context.Context, ev PointerEvent) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var closed []string
	for _, name := range c.order {
		d := c.dialogs[name]
		if d.state != Open {
			continue
		}
		if d.content == nil || d.content.Contains(ev) {
			c.log.Debug(ctx, "pointer-down inside dialog content", "dialog", name)
			continue
		}
		d.state = Closed
		closed = append(closed, name)
		c.log.Debug(ctx, "pointer-down outside dialog content, closing", "dialog", name)
	}
	return closed
}
