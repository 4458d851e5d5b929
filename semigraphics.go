package treeview

// Semigraphics used by borders, the header and tree guides.
const (
	// General Punctuation U+2000-U+206F
	SemigraphicsHorizontalEllipsis = '…' // …

	// Box Drawing U+2500-U+257F
	BoxDrawingsLightHorizontal        = '─' // ─
	BoxDrawingsHeavyHorizontal        = '━' // ━
	BoxDrawingsLightVertical          = '│' // │
	BoxDrawingsHeavyVertical          = '┃' // ┃
	BoxDrawingsLightDownAndRight      = '┌' // ┌
	BoxDrawingsHeavyDownAndRight      = '┏' // ┏
	BoxDrawingsLightDownAndLeft       = '┐' // ┐
	BoxDrawingsHeavyDownAndLeft       = '┓' // ┓
	BoxDrawingsLightUpAndRight        = '└' // └
	BoxDrawingsHeavyUpAndRight        = '┗' // ┗
	BoxDrawingsLightUpAndLeft         = '┘' // ┘
	BoxDrawingsHeavyUpAndLeft         = '┛' // ┛
	BoxDrawingsLightVerticalAndRight  = '├' // ├
	BoxDrawingsDoubleHorizontal       = '═' // ═
	BoxDrawingsDoubleVertical         = '║' // ║
	BoxDrawingsDoubleDownAndRight     = '╔' // ╔
	BoxDrawingsDoubleDownAndLeft      = '╗' // ╗
	BoxDrawingsDoubleUpAndRight       = '╚' // ╚
	BoxDrawingsDoubleUpAndLeft        = '╝' // ╝
	BoxDrawingsLightArcDownAndRight   = '╭' // ╭
	BoxDrawingsLightArcDownAndLeft    = '╮' // ╮
	BoxDrawingsLightArcUpAndLeft      = '╯' // ╯
	BoxDrawingsLightArcUpAndRight     = '╰' // ╰

	// Geometric Shapes U+25A0-U+25FF
	SemigraphicsTriangleRight = '▸' // ▸
	SemigraphicsTriangleDown  = '▾' // ▾
)

// TreeGuides are the runes drawn in front of nested items. Each level takes
// two cells.
type TreeGuides struct {
	Pipe   rune // a level whose node has more siblings below
	Branch rune // the item itself, more siblings follow
	Last   rune // the item itself, last sibling
	Dash   rune
}

// TreeGuidesLight returns guides drawn with light box drawing lines.
func TreeGuidesLight() TreeGuides {
	return TreeGuides{
		Pipe:   BoxDrawingsLightVertical,
		Branch: BoxDrawingsLightVerticalAndRight,
		Last:   BoxDrawingsLightUpAndRight,
		Dash:   BoxDrawingsLightHorizontal,
	}
}

// TreeGuidesRound is like TreeGuidesLight with a rounded last branch.
func TreeGuidesRound() TreeGuides {
	g := TreeGuidesLight()
	g.Last = BoxDrawingsLightArcUpAndRight
	return g
}
