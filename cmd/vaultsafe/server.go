package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cli/browser"
	"github.com/spf13/cobra"

	"github.com/indrajit912/vaultsafe/pkg/config"
	"github.com/indrajit912/vaultsafe/pkg/db"
	"github.com/indrajit912/vaultsafe/pkg/server"
	"github.com/indrajit912/vaultsafe/pkg/server/endpoints"
	gormstore "github.com/indrajit912/vaultsafe/pkg/store/gorm"
	"github.com/indrajit912/vaultsafe/pkg/vault"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the VaultSafe web interface",
	Long: `Run the local web interface.

The browser UI covers the everyday operations: unlock, browse, add,
update, and delete credentials. The master password entered at login is
verified and discarded; only the derived vault key is held, in memory,
for the lifetime of the web session.

By default the server binds to 127.0.0.1 and opens your browser. Use
--watch-config to reload the config file on change.

Example:
  vaultsafe server
  vaultsafe server --port 9000 --no-browser`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServer(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 0, "server listen port (default from config)")
	serverCmd.Flags().StringP("bind-address", "b", "", "server bind address (default from config)")
	serverCmd.Flags().Bool("no-browser", false, "do not open the web browser")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Bool("watch-config", false, "reload the config file on change")
}

func runServer(cmd *cobra.Command) error {
	cfg := config.Get()
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Port = port
	}
	if bind, _ := cmd.Flags().GetString("bind-address"); bind != "" {
		cfg.Host = bind
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	gdb, err := db.Connect(db.Config{URL: cfg.ResolvedDatabaseURL()})
	if err != nil {
		return err
	}

	if noMigrate, _ := cmd.Flags().GetBool("no-migrate"); !noMigrate {
		log.Println("Running database migrations...")
		if err := db.RunMigrations(gdb); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	svc := vault.NewService(gormstore.NewStore(gdb))
	s := server.NewServer(svc, cfg)
	endpoints.RegisterAll(s)

	if watch, _ := cmd.Flags().GetBool("watch-config"); watch {
		done := make(chan struct{})
		defer close(done)
		go func() {
			if err := config.Watch(done, func(fresh *config.VaultSafeConfig) {
				log.Printf("Configuration reloaded from %s", fresh.ConfigFilePath())
			}); err != nil {
				log.Printf("Config watch stopped: %v", err)
			}
		}()
	}

	// Shut down cleanly on Ctrl-C so held session keys get wiped.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	}()

	if noBrowser, _ := cmd.Flags().GetBool("no-browser"); !noBrowser {
		go func() {
			// Give the listener a moment to come up.
			time.Sleep(300 * time.Millisecond)
			if err := browser.OpenURL(browseURL(cfg)); err != nil {
				log.Printf("Could not open browser: %v", err)
			}
		}()
	}

	log.Printf("Running server at http://%s...\n", cfg.Addr())
	if err := s.Start(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// browseURL is the address a local browser can reach, even when the
// server binds to all interfaces.
func browseURL(cfg *config.VaultSafeConfig) string {
	host := cfg.Host
	if host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(cfg.Port))
}
