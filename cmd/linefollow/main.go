package main

import (
	"flag"
	"log"

	"chosenoffset.com/linefollow/internal/game"
	ebitenrender "chosenoffset.com/linefollow/internal/render/ebiten"
	"chosenoffset.com/linefollow/internal/simulation"
)

func main() {
	configPath := flag.String("config", simulation.DefaultConfigPath, "path to the YAML settings file")
	flag.Parse()

	cfg, err := simulation.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	session := simulation.NewSession()
	app := game.NewApp(session, renderer, inputMgr, cfg)

	// Set up the window; one Update per follow tick
	scale := cfg.Display.Scale
	engine.SetWindowSize(app.ScreenWidth*scale, app.ScreenHeight*scale)
	engine.SetWindowTitle("Line Follower - 6 sensors")
	engine.SetWindowResizable(true)
	engine.SetTPS(cfg.TicksPerSecond())

	log.Printf("Starting line follower at %d ticks/s...", cfg.TicksPerSecond())
	if err := engine.RunGame(app); err != nil {
		log.Fatal(err)
	}
}
