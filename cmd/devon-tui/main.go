package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sitais/devon/internal/app"
	"github.com/sitais/devon/internal/client"
	"github.com/sitais/devon/internal/config"
	"github.com/sitais/devon/internal/terminal"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "Path to config file")
	baseURL := flag.String("url", "", "Override devond base URL")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.Client.BaseURL = *baseURL
	}

	api := client.NewHTTPClient(cfg.Client.BaseURL)
	poller := terminal.NewPoller(api, cfg.Client.PollInterval)
	defer poller.Stop()

	m := app.New(api, poller, cfg.Client.BaseURL)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "devon.yaml"
	}
	return home + "/.devon/config.yaml"
}
