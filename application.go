package treeview

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
)

const (
	eventQueueSize  = 100
	updateQueueSize = 100
	// minRedrawInterval is the shortest time between two requested redraws.
	minRedrawInterval = 16 * time.Millisecond
)

// DoubleClickInterval is the longest pause between two clicks that still
// makes a double click.
var DoubleClickInterval = 500 * time.Millisecond

// MouseAction is what the mouse logically did, derived from the raw button
// state of consecutive events.
type MouseAction int16

const (
	MouseMove MouseAction = iota
	MouseLeftDown
	MouseLeftUp
	MouseLeftClick
	MouseLeftDoubleClick
	MouseScrollUp
	MouseScrollDown
	MouseScrollLeft
	MouseScrollRight
)

var wheelActions = []struct {
	button tcell.ButtonMask
	action MouseAction
}{
	{tcell.WheelUp, MouseScrollUp},
	{tcell.WheelDown, MouseScrollDown},
	{tcell.WheelLeft, MouseScrollLeft},
	{tcell.WheelRight, MouseScrollRight},
}

// mouseState remembers enough of past mouse events to turn the next one into
// actions.
type mouseState struct {
	x, y         int
	downX, downY int
	buttons      tcell.ButtonMask
	lastClick    time.Time
	// capture receives every action until it returns nil from MouseHandler.
	capture Primitive
}

// actions returns the actions event stands for, in the order they happened.
func (m *mouseState) actions(event *tcell.EventMouse, now time.Time) []MouseAction {
	var out []MouseAction
	x, y := event.Position()
	buttons := event.Buttons()

	if x != m.x || y != m.y {
		out = append(out, MouseMove)
		m.x, m.y = x, y
	}

	if (buttons^m.buttons)&tcell.ButtonPrimary != 0 {
		if buttons&tcell.ButtonPrimary != 0 {
			out = append(out, MouseLeftDown)
			m.downX, m.downY = x, y
		} else {
			out = append(out, MouseLeftUp)
			if x == m.downX && y == m.downY {
				if now.Sub(m.lastClick) > DoubleClickInterval {
					out = append(out, MouseLeftClick)
					m.lastClick = now
				} else {
					out = append(out, MouseLeftDoubleClick)
					m.lastClick = time.Time{}
				}
			}
		}
	}

	for _, w := range wheelActions {
		if buttons&w.button != 0 {
			out = append(out, w.action)
		}
	}
	m.buttons = buttons
	return out
}

// redrawEvent wakes the event loop for a requested redraw.
type redrawEvent struct {
	tcell.EventTime
}

// Application owns the screen and runs the event loop. Primitives are only
// touched on the loop goroutine; other goroutines go through QueueUpdate or
// RequestRedraw.
type Application struct {
	mu     sync.Mutex
	screen tcell.Screen
	root   Primitive
	focus  Primitive
	quit   chan struct{}
	// fullRedraw clears the screen before the next draw.
	fullRedraw bool

	events  chan tcell.Event
	updates chan func()
	mouse   mouseState

	// redrawPending merges redraw requests made before the loop gets to them.
	redrawPending atomic.Bool
	lastDraw      time.Time
	redrawTimer   *time.Timer
}

func NewApplication() *Application {
	return &Application{
		events:  make(chan tcell.Event, eventQueueSize),
		updates: make(chan func(), updateQueueSize),
	}
}

// SetScreen makes the application use screen instead of the terminal. It
// must be called before Run.
func (a *Application) SetScreen(screen tcell.Screen) *Application {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.screen == nil {
		a.screen = screen
		a.fullRedraw = true
	}
	return a
}

// SetRoot sets the primitive that covers the whole screen and gives it the
// focus. A root that redraws on its own gets RequestRedraw as its trigger.
func (a *Application) SetRoot(root Primitive) *Application {
	a.mu.Lock()
	a.root = root
	a.fullRedraw = true
	a.mu.Unlock()

	if r, ok := root.(redrawRequester); ok {
		r.SetRedrawFunc(a.RequestRedraw)
	}
	return a.SetFocus(root)
}

// SetFocus blurs the focused primitive and focuses p, which may pass the
// focus on to one of its children.
func (a *Application) SetFocus(p Primitive) *Application {
	a.mu.Lock()
	old := a.focus
	a.focus = p
	a.mu.Unlock()

	if old != nil && old != p {
		old.Blur()
	}
	if p != nil {
		p.Focus(func(child Primitive) { a.SetFocus(child) })
	}
	return a
}

// GetFocus returns the primitive receiving key events, or nil.
func (a *Application) GetFocus() Primitive {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.focus
}

// Run initializes the screen and handles events until Stop is called, the
// screen fails or ctx is done.
func (a *Application) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			a.mu.Unlock()
			return fmt.Errorf("create screen: %w", err)
		}
		a.screen = screen
	}
	screen := a.screen
	if err := screen.Init(); err != nil {
		a.mu.Unlock()
		return fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse()
	quit := make(chan struct{})
	a.quit = quit
	a.mu.Unlock()

	// A panic would leave the terminal in raw mode.
	defer func() {
		if p := recover(); p != nil {
			a.Stop()
			panic(p)
		}
	}()

	go screen.ChannelEvents(a.events, quit)
	a.draw()

	for {
		select {
		case <-ctx.Done():
			a.Stop()
			return ctx.Err()
		case <-quit:
			return nil
		case f := <-a.updates:
			f()
		case event := <-a.events:
			if event == nil {
				return nil
			}
			if err := a.handleEvent(event); err != nil {
				Logger().Error("screen failed", "err", err)
				a.Stop()
				return err
			}
		}
	}
}

func (a *Application) handleEvent(event tcell.Event) error {
	switch event := event.(type) {
	case *tcell.EventKey:
		focus := a.GetFocus()
		if focus != nil && focus.HasFocus() && a.execute(focus.InputHandler(event)) {
			a.draw()
		}
	case *tcell.EventMouse:
		if a.handleMouse(event) {
			a.draw()
		}
	case *tcell.EventResize:
		// The terminal may have dropped its contents even if the size did
		// not change.
		a.mu.Lock()
		screen := a.screen
		a.fullRedraw = true
		a.mu.Unlock()
		if screen != nil {
			screen.Sync()
		}
		a.draw()
	case *redrawEvent:
		a.handleRedraw()
	case *tcell.EventError:
		return event
	}
	return nil
}

// handleMouse sends the actions of event to the capturing primitive, or to
// the root. It reports whether a redraw was requested.
func (a *Application) handleMouse(event *tcell.EventMouse) bool {
	a.mu.Lock()
	root := a.root
	a.mu.Unlock()

	redraw := false
	for _, action := range a.mouse.actions(event, time.Now()) {
		target := a.mouse.capture
		if target == nil {
			target = root
		}
		if target == nil {
			return redraw
		}
		capture, cmd := target.MouseHandler(action, event)
		a.mouse.capture = capture
		if a.execute(cmd) {
			redraw = true
		}
	}
	return redraw
}

// execute carries out cmd and reports whether the screen must be drawn.
func (a *Application) execute(cmd Command) bool {
	switch c := cmd.(type) {
	case BatchCommand:
		redraw := false
		for _, sub := range c {
			redraw = a.execute(sub) || redraw
		}
		return redraw
	case RedrawCommand:
		return true
	case FocusCommand:
		a.SetFocus(c.Target)
		return true
	case QuitCommand:
		a.Stop()
	}
	return false
}

// RequestRedraw asks the event loop for a redraw. It is safe to call from any
// goroutine; requests made before the redraw happens are merged into one.
func (a *Application) RequestRedraw() {
	if a.redrawPending.Swap(true) {
		return
	}
	a.mu.Lock()
	screen := a.screen
	a.mu.Unlock()
	if screen == nil {
		a.redrawPending.Store(false)
		return
	}
	event := &redrawEvent{}
	event.SetEventNow()
	if err := screen.PostEvent(event); err != nil {
		// The event queue is full and will cause draws anyway.
		a.redrawPending.Store(false)
	}
}

// handleRedraw draws for a pending request, or waits until
// minRedrawInterval has passed since the last draw.
func (a *Application) handleRedraw() {
	if !a.redrawPending.Load() {
		return
	}
	wait := minRedrawInterval - time.Since(a.lastDraw)
	if wait <= 0 {
		a.draw()
		return
	}
	if a.redrawTimer == nil {
		a.redrawTimer = time.AfterFunc(wait, func() {
			a.updates <- func() {
				a.redrawTimer = nil
				a.handleRedraw()
			}
		})
	}
}

// Stop ends Run and restores the terminal.
func (a *Application) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.screen == nil {
		return
	}
	if a.quit != nil {
		close(a.quit)
		a.quit = nil
	}
	a.screen.Fini()
	a.screen = nil
}

// QueueUpdate runs f on the event loop and returns once it has run.
func (a *Application) QueueUpdate(f func()) {
	done := make(chan struct{})
	a.updates <- func() {
		defer close(done)
		f()
	}
	<-done
}

// QueueUpdateDraw is QueueUpdate followed by a draw.
func (a *Application) QueueUpdateDraw(f func()) {
	a.QueueUpdate(func() {
		f()
		a.draw()
	})
}

func (a *Application) draw() {
	a.mu.Lock()
	screen, root, full := a.screen, a.root, a.fullRedraw
	a.fullRedraw = false
	a.mu.Unlock()

	a.redrawPending.Store(false)
	if screen == nil || root == nil {
		return
	}

	width, height := screen.Size()
	root.SetRect(0, 0, width, height)
	if full {
		screen.Clear()
		if inv, ok := root.(screenInvalidator); ok {
			inv.ScreenCleared()
		}
	}
	root.Draw(screen)
	screen.Show()
	a.lastDraw = time.Now()
}
