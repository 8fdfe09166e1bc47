package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"listgrip/internal/catalog"
	"listgrip/internal/config"
	"listgrip/internal/controller"
	"listgrip/internal/domain"
	"listgrip/internal/eventbus"
	"listgrip/internal/ui"
)

func main() {
	// Parse command line arguments
	var dbPath string
	var configPath string
	var seed int
	flag.StringVar(&dbPath, "db", "", "Path to the catalog database (overrides config)")
	flag.StringVar(&configPath, "config", "", "Path to the config file")
	flag.IntVar(&seed, "seed", 0, "Seed the catalog with N sample entries and exit")
	flag.Parse()

	// Set up logging
	logFile, err := os.OpenFile("listgrip.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create event bus
	bus := eventbus.New()

	// Load configuration with event bus support
	configSvc := config.NewConfigServiceWithBus(bus)
	cfg := loadConfig(configSvc, configPath)
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}

	// Open the catalog
	store, err := catalog.Open(cfg.DatabasePath)
	if err != nil {
		fmt.Printf("Error opening catalog: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if seed > 0 {
		if err := store.Seed(ctx, seed); err != nil {
			fmt.Printf("Error seeding catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Seeded %d entries into %s\n", seed, cfg.DatabasePath)
		return
	}

	// Create the search controller backed by the catalog
	ctrl, err := controller.New(
		store.Fetcher(cfg.Search.BatchSize),
		controller.Options{
			BatchSize: cfg.Search.BatchSize,
			Debounce:  time.Duration(cfg.Search.DebounceMs) * time.Millisecond,
			Cooldown:  time.Duration(cfg.Search.CooldownMs) * time.Millisecond,
		},
		domain.KindFilter(cfg.LastKind),
	)
	if err != nil {
		fmt.Printf("Error creating search controller: %v\n", err)
		os.Exit(1)
	}
	defer ctrl.Close()
	ctrl.SetEventBus(bus)

	// Remember the last selected kind filter across runs
	bus.Subscribe(eventbus.EventConfigChanged, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ConfigChangedEvent); ok {
			cfg.LastKind = event.LastKind
			if err := saveConfig(configSvc, cfg, configPath); err != nil {
				log.Printf("Failed to save config: %v", err)
			}
		}
	})

	// Create UI model
	log.Printf("Creating UI model...")
	uiModel := ui.NewModel(bus, cfg, ctrl)

	// Create Bubble Tea program
	p := tea.NewProgram(uiModel, tea.WithAltScreen())
	uiModel.SetProgram(p)

	// Forward controller state transitions into the program. The channel is
	// drained by a goroutine so a busy render loop never blocks the
	// controller's publish path.
	stateChan := make(chan controller.State[domain.Entry], 100)
	unsubscribe := ctrl.Subscribe(func(st controller.State[domain.Entry]) {
		select {
		case stateChan <- st:
		default:
			log.Println("State channel full, dropping state")
		}
	})
	go func() {
		for st := range stateChan {
			p.Send(ui.NewStateMsg(st))
		}
	}()

	// Run the UI
	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Printf("UI exited normally")

	// Cleanup
	unsubscribe()
	close(stateChan)
	if cfg.UI.AutosaveOnExit {
		if err := saveConfig(configSvc, cfg, configPath); err != nil {
			log.Printf("Failed to save config on exit: %v", err)
		}
	}
}

// loadConfig loads the config from the given path, or the default location
// when path is empty. Load errors fall back to defaults so a corrupt config
// never blocks startup.
func loadConfig(configSvc config.ConfigService, path string) *config.Config {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = configSvc.LoadFromPath(path)
	} else {
		cfg, err = configSvc.Load()
	}
	if err != nil {
		log.Printf("Failed to load config, using defaults: %v", err)
		return config.DefaultConfig()
	}
	return cfg
}

func saveConfig(configSvc config.ConfigService, cfg *config.Config, path string) error {
	if path != "" {
		return configSvc.SaveToPath(cfg, path)
	}
	return configSvc.Save(cfg)
}
