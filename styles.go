package treeview

import "github.com/gdamore/tcell/v2"

// Theme defines the colors used when primitives are initialized.
type Theme struct {
	PrimitiveBackgroundColor tcell.Color // Main background color for primitives.
	ContrastBackgroundColor  tcell.Color // Background color for contrasting elements.
	BorderColor              tcell.Color // Box borders.
	FocusBorderColor         tcell.Color // Box borders while focused.
	TitleColor               tcell.Color // Box titles.
	GraphicsColor            tcell.Color // Tree guides and scroll bars.
	PrimaryTextColor         tcell.Color // Primary text.
	SecondaryTextColor       tcell.Color // Secondary text (e.g. header titles).
}

// Styles defines the theme for applications. The default is for a black
// background and some basic colors: white, yellow and blue.
var Styles = Theme{
	PrimitiveBackgroundColor: tcell.ColorBlack,
	ContrastBackgroundColor:  tcell.ColorNavy,
	BorderColor:              tcell.ColorWhite,
	FocusBorderColor:         tcell.ColorYellow,
	TitleColor:               tcell.ColorWhite,
	GraphicsColor:            tcell.ColorGray,
	PrimaryTextColor:         tcell.ColorWhite,
	SecondaryTextColor:       tcell.ColorYellow,
}
