package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lume/config"
	"lume/engine"
	"lume/model"
	"lume/provider"
	"lume/storage"
	"lume/tools"
	"lume/ui"
)

const Version = "v0.1.0"

func main() {
	if err := config.CreateDefaultSettings(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	config.InitDebugLog(cfg.DataDir())

	store, err := storage.Open(cfg.DataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Without a credential the app still starts; sending fails fast with a
	// clear message instead.
	var transport model.Transport
	if cfg.HasCredential() {
		t, err := provider.NewTransport(cfg, tools.NewRegistry())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		transport = t
	}

	eng := engine.New(cfg, transport)

	p := tea.NewProgram(
		ui.NewAppView(cfg, eng, store),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
