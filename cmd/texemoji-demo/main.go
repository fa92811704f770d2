package main

import (
	"flag"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/framegrace/texemoji/core"
	"github.com/framegrace/texemoji/emoji"
	"github.com/framegrace/texemoji/overlay"
	"github.com/framegrace/texemoji/widgets"
)

var (
	storePath = flag.String("store", "", "path to the persistent image store (empty disables it)")
	delay     = flag.Duration("delay", 0, "overlay rebuild delay per render pass")
	lowQual   = flag.Bool("lowquality", false, "use nearest-neighbour image scaling")
)

func main() {
	flag.Parse()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		log.Fatal("texemoji-demo: stdout is not a terminal")
	}

	catalog := emoji.Catalog{
		"smile":    emoji.Character("😄"),
		"rocket":   emoji.Character("🚀"),
		"partyhat": emoji.ImageURL("https://raw.githubusercontent.com/twitter/twemoji/master/assets/72x72/1f973.png"),
		"party":    emoji.Alias("partyhat"),
	}

	opts := emoji.HighQuality
	if *lowQual {
		opts = emoji.LowQuality
	}

	bg := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	ui := core.NewUIManager(bg)

	ea := widgets.NewEmojiArea(0, 0, 0, 0, bg)
	ui.AddWidget(ea)
	ui.Focus(ea)

	screen, err := core.NewScreen(ui)
	if err != nil {
		log.Fatalf("texemoji-demo: %v", err)
	}
	defer screen.Close()
	screen.AfterFrame = ea.EmitGraphics

	cfg := overlay.DefaultLoaderConfig()
	cfg.Scheduler = screen.Scheduler()
	if *storePath != "" {
		store, err := overlay.OpenStore(*storePath)
		if err != nil {
			log.Fatalf("texemoji-demo: %v", err)
		}
		defer store.Close()
		cfg.Store = store
	}

	rt := overlay.Runtime{
		Cache:     overlay.NewCache(),
		Loader:    overlay.NewLoader(cfg),
		Scheduler: screen.Scheduler(),
		Placer:    overlay.NewStdoutKittyPlacer(),
	}

	w, _, _ := term.GetSize(int(os.Stdout.Fd()))
	ea.Resize(w, 24)
	ea.SetPlainText("Type :smile: or :rocket: and watch them render.\nCtrl-Q quits.\n")
	ea.ConfigureEmojis(catalog, opts, rt, *delay)

	if err := screen.Run(); err != nil {
		log.Fatalf("texemoji-demo: %v", err)
	}
}
