package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tasktrove/internal/tui"
)

func main() {
	configPath := flag.String("config", "tasktrove-tui.toml", "path to config file")
	server := flag.String("server", "", "server URL, overrides the config file")
	flag.Parse()

	cfg, err := tui.LoadOrCreateConfig(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *server != "" {
		cfg.ServerURL = *server
	}

	client := tui.NewClient(cfg.ServerURL)
	program := tea.NewProgram(tui.NewModel(client, cfg))
	if _, err := program.Run(); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}
