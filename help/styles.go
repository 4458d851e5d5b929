package help

import (
	"github.com/ayn2op/treeview"
	"github.com/gdamore/tcell/v2"
)

type Styles struct {
	KeyStyle       tcell.Style
	DescStyle      tcell.Style
	SeparatorStyle tcell.Style
	StatusStyle    tcell.Style
}

func DefaultStyles() Styles {
	base := tcell.StyleDefault.Background(treeview.Styles.PrimitiveBackgroundColor)
	return Styles{
		KeyStyle:       base.Foreground(treeview.Styles.SecondaryTextColor),
		DescStyle:      base.Foreground(treeview.Styles.PrimaryTextColor),
		SeparatorStyle: base.Foreground(treeview.Styles.GraphicsColor).Dim(true),
		StatusStyle:    base.Foreground(treeview.Styles.GraphicsColor),
	}
}
