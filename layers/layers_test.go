package layers

import (
	"testing"

	"github.com/ayn2op/treeview"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probe records what a layer is asked to do.
type probe struct {
	*treeview.Box
	draws   int
	cleared int
	mouse   int
	keys    []tcell.Key
	redraw  func()
}

func newProbe() *probe {
	return &probe{Box: treeview.NewBox()}
}

func (p *probe) Draw(screen tcell.Screen) { p.draws++ }
func (p *probe) ScreenCleared()           { p.cleared++ }
func (p *probe) SetRedrawFunc(f func())   { p.redraw = f }

func (p *probe) InputHandler(event *tcell.EventKey) treeview.Command {
	p.keys = append(p.keys, event.Key())
	return treeview.RedrawCommand{}
}

func (p *probe) MouseHandler(action treeview.MouseAction, event *tcell.EventMouse) (treeview.Primitive, treeview.Command) {
	p.mouse++
	return nil, nil
}

func newTestLayers(t *testing.T) (*Layers, *probe, *probe, tcell.Screen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(20, 10)

	main, overlay := newProbe(), newProbe()
	overlay.SetRect(0, 0, 15, 10)
	l := New()
	l.SetRect(0, 0, 20, 10)
	l.AddLayer(main, WithName("main"))
	l.AddLayer(overlay, WithName("help"), WithResize(false), WithVisible(false))
	return l, main, overlay, screen
}

func TestLayersDraw(t *testing.T) {
	l, main, overlay, screen := newTestLayers(t)

	l.Draw(screen)
	assert.Equal(t, 1, main.draws)
	assert.Equal(t, 0, overlay.draws)
	x, y, w, h := main.GetRect()
	assert.Equal(t, []int{0, 0, 20, 10}, []int{x, y, w, h})

	l.ToggleLayer("help")
	assert.True(t, l.GetVisible("help"))
	l.Draw(screen)
	assert.Equal(t, 2, main.draws)
	assert.Equal(t, 1, overlay.draws)
	_, _, w, _ = overlay.GetRect()
	assert.Equal(t, 15, w)

	name, front := l.GetFrontLayer()
	assert.Equal(t, "help", name)
	assert.Same(t, overlay, front)
}

func TestLayersHideClearsLayersBehind(t *testing.T) {
	l, main, overlay, _ := newTestLayers(t)
	l.ShowLayer("help")
	l.HideLayer("help")

	assert.Equal(t, 1, main.cleared)
	assert.Equal(t, 0, overlay.cleared)
	assert.True(t, l.IsDirty())

	l.ScreenCleared()
	assert.Equal(t, 2, main.cleared)
	assert.Equal(t, 1, overlay.cleared)

	l.RemoveLayer("help")
	assert.False(t, l.HasLayer("help"))
	assert.Equal(t, 3, main.cleared)
}

func TestLayersInput(t *testing.T) {
	l, main, overlay, _ := newTestLayers(t)
	key := tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)

	assert.Equal(t, treeview.RedrawCommand{}, l.InputHandler(key))
	assert.Equal(t, []tcell.Key{tcell.KeyDown}, main.keys)

	l.ShowLayer("help")
	l.InputHandler(key)
	assert.Equal(t, []tcell.Key{tcell.KeyDown}, overlay.keys)

	disabled := newProbe()
	l.AddLayer(disabled, WithName("status"), WithEnabled(false))
	l.InputHandler(key)
	assert.Len(t, overlay.keys, 2)
	assert.Empty(t, disabled.keys)

	var focused treeview.Primitive
	l.Focus(func(p treeview.Primitive) { focused = p })
	assert.Same(t, overlay, focused)
}

func TestLayersMouse(t *testing.T) {
	l, main, overlay, _ := newTestLayers(t)
	l.ShowLayer("help")

	// The overlay covers x < 15 and swallows events there.
	l.MouseHandler(treeview.MouseLeftClick, tcell.NewEventMouse(2, 2, tcell.Button1, tcell.ModNone))
	assert.Equal(t, 1, overlay.mouse)
	assert.Equal(t, 0, main.mouse)

	l.MouseHandler(treeview.MouseLeftClick, tcell.NewEventMouse(17, 2, tcell.Button1, tcell.ModNone))
	assert.Equal(t, 2, overlay.mouse)
	assert.Equal(t, 1, main.mouse)

	l.MouseHandler(treeview.MouseLeftClick, tcell.NewEventMouse(25, 2, tcell.Button1, tcell.ModNone))
	assert.Equal(t, 2, overlay.mouse)
}

func TestLayersRedrawFunc(t *testing.T) {
	l, main, overlay, _ := newTestLayers(t)
	calls := 0
	l.SetRedrawFunc(func() { calls++ })
	require.NotNil(t, main.redraw)
	require.NotNil(t, overlay.redraw)

	late := newProbe()
	l.AddLayer(late, WithName("late"))
	require.NotNil(t, late.redraw)
	late.redraw()
	assert.Equal(t, 1, calls)
}
