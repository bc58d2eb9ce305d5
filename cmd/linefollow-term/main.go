package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/linefollow/internal/simulation"
	"chosenoffset.com/linefollow/internal/terminal"
)

func main() {
	configPath := flag.String("config", simulation.DefaultConfigPath, "path to the YAML settings file")
	logPath := flag.String("log", "linefollow-term.log", "file receiving log output while the screen is active")
	flag.Parse()

	cfg, err := simulation.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The screen owns the terminal, so logs go to a file
	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to init screen: %v", err)
	}
	screen.EnableMouse()
	screen.HideCursor()

	var cue terminal.Cue = terminal.SilentCue{}
	if cfg.Audio.Enabled {
		if c, err := terminal.NewToneCue(); err != nil {
			// Non-fatal, the demo runs without sound
			log.Printf("Audio initialization failed: %v", err)
		} else {
			cue = c
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	view := terminal.NewView(screen, simulation.NewSession(), cfg, cue)

	log.Println("Starting terminal line follower...")
	err = view.Run(ctx)

	stop()
	cue.Close()
	screen.Fini()

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
