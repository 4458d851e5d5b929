package treeview

import "github.com/gdamore/tcell/v2"

// Primitive is anything the Application can lay out, draw and send input to.
type Primitive interface {
	Draw(screen tcell.Screen)

	// GetRect returns x, y, width and height.
	GetRect() (int, int, int, int)
	SetRect(x, y, width, height int)

	// InputHandler handles a key event while the primitive has focus.
	InputHandler(event *tcell.EventKey) Command
	// MouseHandler handles one mouse action. A non-nil primitive returned
	// here gets all following mouse actions until it stops returning itself.
	MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command)

	HasFocus() bool
	// Focus gives the primitive the focus. Containers call delegate with the
	// child that should have it instead.
	Focus(delegate func(p Primitive))
	Blur()
}

// redrawRequester is a primitive that asks for redraws outside of event
// handling, for example when its data changes.
type redrawRequester interface {
	SetRedrawFunc(f func())
}

// screenInvalidator is a primitive that sends only changed cells and must
// send all of them after the screen was cleared.
type screenInvalidator interface {
	ScreenCleared()
}
