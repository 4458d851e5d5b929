// Command treeview-demo shows a generated tree with a few columns. Clicking a
// row expands or collapses it; "?" shows the key bindings.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"

	"github.com/BurntSushi/toml"
	"github.com/ayn2op/treeview"
	"github.com/ayn2op/treeview/help"
	"github.com/ayn2op/treeview/keybind"
	"github.com/ayn2op/treeview/layers"
	"github.com/gdamore/tcell/v2"
)

type config struct {
	View treeview.Options `toml:"view"`
	Keys treeview.Keymap  `toml:"keys"`
	Demo demoConfig         `toml:"demo"`
}

type demoConfig struct {
	Help keybind.Keybind `toml:"help"`
	Quit keybind.Keybind `toml:"quit"`
	// Border names the help overlay border: plain, round, thick or double.
	Border string `toml:"border"`
	// PlainGlyphs avoids runes that many fonts lack.
	PlainGlyphs  bool `toml:"plain_glyphs"`
	ScrollArrows bool `toml:"scroll_arrows"`
}

func defaultConfig() config {
	opts := treeview.DefaultOptions()
	opts.ShowScrollBar = true
	opts.RowColors = []string{"black", "#1c1c1c"}
	return config{
		View: opts,
		Keys: treeview.DefaultKeymap(),
		Demo: demoConfig{
			Help:   keybind.NewKeybind(keybind.WithKeys("?"), keybind.WithHelp("?", "keys")),
			Quit:   keybind.NewKeybind(keybind.WithKeys("q", "ctrl+c"), keybind.WithHelp("q", "quit")),
			Border: "round",
		},
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.View.Validate(); err != nil {
		return config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("treeview-demo", flag.ContinueOnError)
	configPath := fs.String("config", "", "TOML file with [view], [keys] and [demo] tables")
	rows := fs.Int("rows", 200, "number of top-level rows")
	snapshot := fs.String("snapshot", "", "render one 80x24 frame to this PNG file and exit")
	logPath := fs.String("log", "", "append debug logs to this file")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		treeview.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	tree := buildTree(*rows)

	if *snapshot != "" {
		return writeSnapshot(tree, cfg.View, *snapshot)
	}
	return runApp(tree, cfg)
}

func buildTree(rows int) *treeview.Tree {
	tree := treeview.NewTree(
		treeview.Column{Title: "Name", MinWidth: 12, Squeeze: true, Lock: treeview.LockLeft},
		treeview.Column{Title: "Size", Width: 8},
		treeview.Column{Title: "Kind", MinWidth: 6},
		treeview.Column{Title: "Description", Expand: true, Squeeze: true, MaxWidth: 60},
	)
	for i := range rows {
		dir := treeview.NewTreeNode(fmt.Sprintf("dir-%03d", i), "", "folder", fmt.Sprintf("directory number %d", i))
		tree.Add(nil, dir)
		for j := range 3 + i%4 {
			file := treeview.NewTreeNode(
				fmt.Sprintf("file-%d.txt", j),
				fmt.Sprintf("%d KB", (i+1)*(j+3)%997),
				"text",
				"a generated file",
			)
			tree.Add(dir, file)
		}
	}
	return tree
}

// writeSnapshot renders one frame without a terminal.
func writeSnapshot(tree *treeview.Tree, opts treeview.Options, path string) error {
	engine := treeview.NewEngine(tree)
	tree.SetTarget(engine)
	if err := engine.SetOptions(opts); err != nil {
		return err
	}
	surface := treeview.NewImageSurface(image.Rect(0, 0, 80, 24))
	if _, err := engine.Render(surface, surface.Bounds()); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := surface.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// screenLayout puts the tree above a one line help bar. It keeps the focus
// and handles the demo keys before passing the rest to the tree.
type screenLayout struct {
	*treeview.Box
	tree    *treeview.TreeView
	bar     *help.Bar
	overlay *help.Bar
	stack   *layers.Layers
	keys    demoConfig
}

func (s *screenLayout) Draw(screen tcell.Screen) {
	x, y, width, height := s.GetRect()
	s.tree.SetRect(x, y, width, max(height-1, 0))
	s.bar.SetRect(x, y+height-1, width, 1)
	s.tree.Draw(screen)
	s.bar.Draw(screen)

	h := s.overlay.Height() + 2
	s.overlay.SetRect(x+2, max(y+height-1-h, y), max(width-4, 0), min(h, height))
}

func (s *screenLayout) InputHandler(event *tcell.EventKey) treeview.Command {
	switch {
	case keybind.Matches(event, s.keys.Quit):
		return treeview.QuitCommand{}
	case keybind.Matches(event, s.keys.Help):
		s.stack.ToggleLayer("help")
		// The overlay takes no input; keep the keys coming here.
		return treeview.Batch(treeview.FocusCommand{Target: s}, treeview.RedrawCommand{})
	}
	return s.tree.InputHandler(event)
}

func (s *screenLayout) MouseHandler(action treeview.MouseAction, event *tcell.EventMouse) (treeview.Primitive, treeview.Command) {
	return s.tree.MouseHandler(action, event)
}

func (s *screenLayout) SetRedrawFunc(f func()) {
	s.tree.SetRedrawFunc(f)
}

func (s *screenLayout) ScreenCleared() {
	s.tree.ScreenCleared()
}

func runApp(tree *treeview.Tree, cfg config) error {
	view := treeview.NewTreeView(tree)
	if err := view.SetOptions(cfg.View); err != nil {
		return err
	}
	view.SetKeymap(cfg.Keys)
	if cfg.Demo.PlainGlyphs {
		view.ScrollBar().Glyphs = treeview.PlainScrollBarGlyphs()
	} else {
		tree.SetGuides(treeview.TreeGuidesRound())
	}
	view.ScrollBar().Arrows = cfg.Demo.ScrollArrows
	tree.SetTarget(view)
	view.SetSelectedFunc(tree.Toggle)

	bar := help.New().SetKeyMap(cfg.Keys).SetStatusFunc(func() string {
		top, bottom := view.ScrollFractions(treeview.AxisY)
		res, _ := view.LastResult()
		return fmt.Sprintf("%3.0f%%-%3.0f%%  %d shown  %d painted", top*100, bottom*100, tree.OnScreen(), res.Painted)
	})
	overlay := help.New().SetKeyMap(cfg.Keys).SetShowAll(true)
	overlay.SetBorders(treeview.BordersAll).SetBorderSet(treeview.BorderSetByName(cfg.Demo.Border)).SetTitle(" keys ")

	stack := layers.New()
	layout := &screenLayout{Box: treeview.NewBox(), tree: view, bar: bar, overlay: overlay, stack: stack, keys: cfg.Demo}
	stack.AddLayer(layout, layers.WithName("main"))
	stack.AddLayer(overlay, layers.WithName("help"), layers.WithResize(false), layers.WithVisible(false), layers.WithEnabled(false))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	app := treeview.NewApplication()
	app.SetRoot(stack)
	defer view.Destroy()
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
