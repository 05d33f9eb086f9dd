package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sitais/devon/internal/config"
	"github.com/sitais/devon/internal/monitor"
	"github.com/sitais/devon/internal/secrets"
	"github.com/sitais/devon/internal/secrets/chain"
	filestore "github.com/sitais/devon/internal/secrets/file"
	passstore "github.com/sitais/devon/internal/secrets/pass"
	"github.com/sitais/devon/internal/session"
	"github.com/sitais/devon/internal/ws"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	addKey := flag.String("add-key", "", "Store an API key as name=value and exit")
	removeKey := flag.String("remove-key", "", "Remove the named API key and exit")
	useModel := flag.String("use-model", "", "Record the preferred model name and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	keyring := secrets.NewKeyring(newSecretStore(cfg))

	if *addKey != "" || *removeKey != "" || *useModel != "" {
		if err := runKeyringMaintenance(keyring, *addKey, *removeKey, *useModel); err != nil {
			log.Fatalf("Keyring: %v", err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if model, err := keyring.GetUseModelName(ctx); err != nil {
		log.Printf("Keyring unavailable: %v", err)
	} else if model != "" {
		log.Printf("Preferred model: %s", model)
	}

	store := session.NewStore()
	journal, err := session.NewJournal(cfg.Server.DataDir)
	if err != nil {
		log.Fatalf("Failed to open journal: %v", err)
	}
	if err := journal.Replay(store); err != nil {
		log.Printf("Journal replay: %v", err)
	}

	broadcaster := ws.NewBroadcaster(store)
	store.SetObserver(broadcaster.BroadcastEvent)

	mon := monitor.New(store, broadcaster, cfg.Monitor.LivenessInterval)
	go mon.Start(ctx)

	server := ws.NewServer(store, broadcaster, journal)
	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
		broadcaster.CloseAll()
		os.Exit(0)
	}()

	if err := ws.ListenAndServe(cfg.Server.Host, cfg.Server.Port, mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// newSecretStore builds the secret backend the config asks for.
func newSecretStore(cfg *config.Config) secrets.Store {
	switch cfg.Secrets.Backend {
	case "pass":
		return passstore.NewStore()
	case "file":
		return filestore.NewStore(cfg.Secrets.FileRoot)
	default:
		return chain.NewDefault(cfg.Secrets.FileRoot)
	}
}

func runKeyringMaintenance(keyring *secrets.Keyring, addKey, removeKey, useModel string) error {
	ctx := context.Background()
	if addKey != "" {
		name, value, ok := strings.Cut(addKey, "=")
		if !ok || name == "" || value == "" {
			return fmt.Errorf("-add-key wants name=value, got %q", addKey)
		}
		if err := keyring.AddAPIKey(ctx, name, value); err != nil {
			return err
		}
		log.Printf("Stored API key %q", name)
	}
	if removeKey != "" {
		if err := keyring.RemoveAPIKey(ctx, removeKey); err != nil {
			return err
		}
		log.Printf("Removed API key %q", removeKey)
	}
	if useModel != "" {
		if err := keyring.SetUseModelName(ctx, useModel); err != nil {
			return err
		}
		log.Printf("Preferred model set to %q", useModel)
	}
	return nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "devon.yaml"
	}
	return home + "/.devon/config.yaml"
}
