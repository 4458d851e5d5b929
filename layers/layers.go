// Package layers stacks primitives on top of each other, for example a help
// overlay above a tree view.
package layers

import (
	"slices"

	"github.com/ayn2op/treeview"
	"github.com/gdamore/tcell/v2"
)

// layer represents one layer of a Layers object.
type layer struct {
	name    string             // The layer's name.
	item    treeview.Primitive // The layer's primitive.
	resize  bool               // Whether or not to resize the layer when it is drawn.
	visible bool               // Whether or not this layer is visible.
	enabled bool               // Whether or not this layer can receive focus/input.
}

// Layers draws its visible layers from back to front. Keyboard focus goes to
// the front-most visible enabled layer.
//
// Views that keep an offscreen copy of what they drew only send changed cells
// to the screen. When a layer in front of them is hidden, Layers tells them
// to send everything again.
type Layers struct {
	*treeview.Box

	layers []*layer

	// We keep a reference to the function which allows us to set the focus to
	// a newly visible layer.
	setFocus func(p treeview.Primitive)
	redraw   func()
}

// Option configures a layer on Add.
type Option func(*layer)

// WithName sets the layer's name.
func WithName(name string) Option {
	return func(l *layer) {
		l.name = name
	}
}

// WithResize sets whether the layer is resized to the container's inner rect.
func WithResize(resize bool) Option {
	return func(l *layer) {
		l.resize = resize
	}
}

// WithVisible sets the initial visibility of the layer.
func WithVisible(visible bool) Option {
	return func(l *layer) {
		l.visible = visible
	}
}

// WithEnabled sets whether the layer can receive focus and input.
func WithEnabled(enabled bool) Option {
	return func(l *layer) {
		l.enabled = enabled
	}
}

// New returns an empty stack.
func New() *Layers {
	return &Layers{Box: treeview.NewBox()}
}

// AddLayer adds item in front of every other layer. Layers are visible,
// enabled and resized unless options say otherwise.
func (l *Layers) AddLayer(item treeview.Primitive, opts ...Option) *Layers {
	ly := &layer{item: item, resize: true, visible: true, enabled: true}
	for _, opt := range opts {
		opt(ly)
	}
	l.layers = append(l.layers, ly)
	if r, ok := item.(redrawRequester); ok && l.redraw != nil {
		r.SetRedrawFunc(l.redraw)
	}
	l.refocus()
	return l
}

// RemoveLayer removes the layer with name.
func (l *Layers) RemoveLayer(name string) *Layers {
	i := l.index(name)
	if i < 0 {
		return l
	}
	l.layers = slices.Delete(l.layers, i, i+1)
	l.uncovered(i)
	l.refocus()
	return l
}

// HasLayer reports whether a layer with name exists.
func (l *Layers) HasLayer(name string) bool {
	return l.index(name) >= 0
}

// GetVisible reports whether the layer with name is shown.
func (l *Layers) GetVisible(name string) bool {
	i := l.index(name)
	return i >= 0 && l.layers[i].visible
}

// ShowLayer makes the layer with name visible.
func (l *Layers) ShowLayer(name string) *Layers {
	if i := l.index(name); i >= 0 && !l.layers[i].visible {
		l.layers[i].visible = true
		l.refocus()
	}
	return l
}

// HideLayer hides the layer with name.
func (l *Layers) HideLayer(name string) *Layers {
	if i := l.index(name); i >= 0 && l.layers[i].visible {
		l.layers[i].visible = false
		l.uncovered(i)
		l.refocus()
	}
	return l
}

// ToggleLayer shows a hidden layer or hides a shown one.
func (l *Layers) ToggleLayer(name string) *Layers {
	if l.GetVisible(name) {
		return l.HideLayer(name)
	}
	return l.ShowLayer(name)
}

// GetFrontLayer returns the front-most visible layer.
func (l *Layers) GetFrontLayer() (name string, item treeview.Primitive) {
	for i := len(l.layers) - 1; i >= 0; i-- {
		if ly := l.layers[i]; ly.visible {
			return ly.name, ly.item
		}
	}
	return "", nil
}

func (l *Layers) index(name string) int {
	return slices.IndexFunc(l.layers, func(ly *layer) bool { return ly.name == name })
}

// uncovered tells the layers behind position i that the cells they showed
// may have been overwritten.
func (l *Layers) uncovered(i int) {
	for _, ly := range l.layers[:min(i, len(l.layers))] {
		if inv, ok := ly.item.(screenInvalidator); ok {
			inv.ScreenCleared()
		}
	}
	l.MarkDirty()
}

func (l *Layers) refocus() {
	if l.setFocus != nil && l.HasFocus() {
		l.Focus(l.setFocus)
	}
}

type redrawRequester interface {
	SetRedrawFunc(f func())
}

type screenInvalidator interface {
	ScreenCleared()
}

// SetRedrawFunc hands f to every layer that redraws on its own.
func (l *Layers) SetRedrawFunc(f func()) {
	l.redraw = f
	for _, ly := range l.layers {
		if r, ok := ly.item.(redrawRequester); ok {
			r.SetRedrawFunc(f)
		}
	}
}

// ScreenCleared is forwarded to every layer.
func (l *Layers) ScreenCleared() {
	l.uncovered(len(l.layers))
}

// HasFocus returns whether any layer has focus.
func (l *Layers) HasFocus() bool {
	for _, ly := range l.layers {
		if ly.item.HasFocus() {
			return true
		}
	}
	return l.Box.HasFocus()
}

// Focus passes the focus to the front-most visible enabled layer.
func (l *Layers) Focus(delegate func(p treeview.Primitive)) {
	l.setFocus = delegate
	for i := len(l.layers) - 1; i >= 0; i-- {
		if ly := l.layers[i]; ly.visible && ly.enabled {
			delegate(ly.item)
			return
		}
	}
	l.Box.Focus(delegate)
}

// Draw draws this primitive onto the screen.
func (l *Layers) Draw(screen tcell.Screen) {
	// The background is not cleared: layers that send only changed cells
	// rely on the screen keeping the rest.
	x, y, width, height := l.GetInnerRect()
	for _, ly := range l.layers {
		if !ly.visible {
			continue
		}
		if ly.resize {
			ly.item.SetRect(x, y, width, height)
		}
		ly.item.Draw(screen)
	}
	l.MarkClean()
}

// InputHandler forwards key events to the front-most visible enabled layer.
func (l *Layers) InputHandler(event *tcell.EventKey) treeview.Command {
	for i := len(l.layers) - 1; i >= 0; i-- {
		if ly := l.layers[i]; ly.visible && ly.enabled {
			return ly.item.InputHandler(event)
		}
	}
	return nil
}

// MouseHandler offers mouse events to the visible enabled layers from front
// to back until one of them returns a command.
func (l *Layers) MouseHandler(action treeview.MouseAction, event *tcell.EventMouse) (treeview.Primitive, treeview.Command) {
	x, y := event.Position()
	if !l.InRect(x, y) {
		return nil, nil
	}
	for i := len(l.layers) - 1; i >= 0; i-- {
		ly := l.layers[i]
		if !ly.visible || !ly.enabled {
			continue
		}
		capture, cmd := ly.item.MouseHandler(action, event)
		if capture != nil || cmd != nil {
			return capture, cmd
		}
		rx, ry, rw, rh := ly.item.GetRect()
		if x >= rx && x < rx+rw && y >= ry && y < ry+rh {
			// The front-most layer under the pointer swallows the event.
			return nil, nil
		}
	}
	return nil, nil
}

var _ treeview.Primitive = &Layers{}
