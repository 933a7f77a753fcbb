// ReadyDay CLI - daily readiness briefings from your wearable and calendar.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/readyday/readyday/internal/api"
	"github.com/readyday/readyday/internal/briefing"
	"github.com/readyday/readyday/internal/calendar"
	"github.com/readyday/readyday/internal/config"
	"github.com/readyday/readyday/internal/logging"
	"github.com/readyday/readyday/internal/scheduler"
	"github.com/readyday/readyday/internal/storage"
	"github.com/readyday/readyday/internal/whoop"
)

var (
	dataDir    string
	configPath string

	version = "0.1.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "readyday",
		Short: "ReadyDay - your morning readiness briefing",
		Long: `ReadyDay fuses Whoop recovery and sleep data with your Google
Calendar to answer one question every morning: what does today
actually ask of you, and what do you have to meet it with?

All data stays in a local encrypted database.`,
	}

	home, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(home, ".readyday")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <data-dir>/config.json)")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(connectCmd())
	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(briefingCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dbPath() string {
	return filepath.Join(dataDir, "readyday.db")
}

func openDB() (*storage.DB, error) {
	if _, err := os.Stat(dbPath()); os.IsNotExist(err) {
		return nil, fmt.Errorf("not initialized, run 'readyday init' first")
	}
	return storage.Open(storage.Config{Path: dbPath()})
}

// readPassphrase gets the credential passphrase from the environment or an
// interactive prompt.
func readPassphrase() (string, error) {
	if p := os.Getenv("READYDAY_PASSPHRASE"); p != "" {
		return p, nil
	}

	fmt.Print("Passphrase: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return string(raw), nil
}

// engine bundles the wired briefing pipeline for the CLI commands.
type engine struct {
	db       *storage.DB
	users    *storage.UserStore
	repo     *whoop.Repository
	source   *calendar.Source
	windows  *briefing.WindowFinder
	service  *briefing.Service
	whoopOA  *whoop.OAuthClient
	googleOA *calendar.OAuthClient
}

// repoSyncer adapts whoop.Repository to the briefing.Syncer interface.
type repoSyncer struct {
	repo *whoop.Repository
}

func (s repoSyncer) Sync(ctx context.Context, userID uuid.UUID) error {
	_, err := s.repo.Sync(ctx, userID)
	return err
}

func buildEngine(cfg *config.Config, passphrase string) (*engine, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	creds := storage.NewCredentialStore(db, passphrase)
	users := storage.NewUserStore(db)

	whoopOA := whoop.NewOAuthClient(whoop.OAuthConfig{
		ClientID:     cfg.Whoop.ClientID,
		ClientSecret: cfg.Whoop.ClientSecret,
		RedirectURL:  cfg.Whoop.RedirectURL,
		Scopes:       whoop.DefaultScopes,
	})
	googleOA := calendar.NewOAuthClient(calendar.OAuthConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
	})

	repo := whoop.NewRepository(whoopOA, creds, db)
	source := calendar.NewSource(googleOA, creds)
	windows := briefing.NewWindowFinder(source)
	generator := briefing.NewGenerator(repo, source, windows)
	service := briefing.NewService(generator, repoSyncer{repo}, users, storage.NewBriefingStore(db))

	return &engine{
		db:       db,
		users:    users,
		repo:     repo,
		source:   source,
		windows:  windows,
		service:  service,
		whoopOA:  whoopOA,
		googleOA: googleOA,
	}, nil
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize ReadyDay",
		Long: `Creates the local database and your user profile.

Connector tokens are encrypted at rest with your passphrase.
Whoop and Google client credentials come from the environment:
WHOOP_CLIENT_ID, WHOOP_CLIENT_SECRET, GOOGLE_CLIENT_ID,
GOOGLE_CLIENT_SECRET.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(dbPath()); err == nil {
				fmt.Println("ReadyDay is already initialized.")
				fmt.Printf("  Data directory: %s\n", dataDir)
				fmt.Println("\nUse 'readyday status' to check connections.")
				return nil
			}

			fmt.Println("Welcome to ReadyDay.")
			fmt.Println()

			reader := bufio.NewReader(os.Stdin)
			fmt.Print("Your name: ")
			name, _ := reader.ReadString('\n')
			name = strings.TrimSpace(name)
			if name == "" {
				name = "You"
			}

			fmt.Print("\nCreate a passphrase (min 8 chars): ")
			pass1, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return fmt.Errorf("failed to read passphrase: %w", err)
			}
			fmt.Println()

			if len(pass1) < 8 {
				return fmt.Errorf("passphrase must be at least 8 characters")
			}

			fmt.Print("Confirm passphrase: ")
			pass2, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return fmt.Errorf("failed to read passphrase: %w", err)
			}
			fmt.Println()

			if string(pass1) != string(pass2) {
				return fmt.Errorf("passphrases don't match")
			}

			if err := os.MkdirAll(dataDir, 0700); err != nil {
				return err
			}

			db, err := storage.Open(storage.Config{Path: dbPath()})
			if err != nil {
				return fmt.Errorf("failed to create database: %w", err)
			}
			defer db.Close()

			if err := db.Migrate(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			users := storage.NewUserStore(db)
			user, err := users.Create(name)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			cfg := config.Default()
			cfg.DataDir = dataDir
			if err := cfg.Save(configPath); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Println("\nReadyDay initialized.")
			fmt.Printf("  User: %s (%s)\n", user.Name, user.ID)
			fmt.Printf("  Data directory: %s\n", dataDir)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  readyday connect whoop    - link your Whoop account")
			fmt.Println("  readyday connect google   - link Google Calendar")
			fmt.Println("  readyday briefing         - generate today's briefing")

			return nil
		},
	}
}

func connectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect a data source",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "whoop",
		Short: "Link your Whoop account via OAuth",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Whoop.ClientID == "" || cfg.Whoop.ClientSecret == "" {
				return fmt.Errorf("WHOOP_CLIENT_ID and WHOOP_CLIENT_SECRET must be set")
			}

			passphrase, err := readPassphrase()
			if err != nil {
				return err
			}

			eng, err := buildEngine(cfg, passphrase)
			if err != nil {
				return err
			}
			defer eng.db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			fmt.Println("Opening Whoop authorization in your browser...")
			if err := eng.repo.Connect(ctx); err != nil {
				return fmt.Errorf("whoop connection failed: %w", err)
			}

			fmt.Println("Whoop connected. Run 'readyday sync' to pull your data.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "google",
		Short: "Link Google Calendar via OAuth",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Google.ClientID == "" || cfg.Google.ClientSecret == "" {
				return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")
			}

			passphrase, err := readPassphrase()
			if err != nil {
				return err
			}

			eng, err := buildEngine(cfg, passphrase)
			if err != nil {
				return err
			}
			defer eng.db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			fmt.Println("Opening Google authorization in your browser...")
			if err := eng.source.Connect(ctx); err != nil {
				return fmt.Errorf("google connection failed: %w", err)
			}

			fmt.Println("Google Calendar connected.")
			return nil
		},
	})

	return cmd
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull the last week of Whoop data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			passphrase, err := readPassphrase()
			if err != nil {
				return err
			}

			eng, err := buildEngine(cfg, passphrase)
			if err != nil {
				return err
			}
			defer eng.db.Close()

			userID, ok := eng.users.CurrentUserID()
			if !ok {
				return fmt.Errorf("no user found, run 'readyday init' first")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			fmt.Println("Syncing Whoop data...")
			result, err := eng.repo.Sync(ctx, userID)
			if err != nil {
				return err
			}

			fmt.Printf("Synced %d recoveries, %d sleeps, %d workouts.\n",
				result.Recoveries, result.Sleeps, result.Workouts)
			return nil
		},
	}
}

func briefingCmd() *cobra.Command {
	var (
		dateFlag string
		markdown bool
	)

	cmd := &cobra.Command{
		Use:   "briefing",
		Short: "Generate and print today's readiness briefing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			passphrase, err := readPassphrase()
			if err != nil {
				return err
			}

			eng, err := buildEngine(cfg, passphrase)
			if err != nil {
				return err
			}
			defer eng.db.Close()

			date := time.Now()
			if dateFlag != "" {
				date, err = time.ParseInLocation("2006-01-02", dateFlag, time.Local)
				if err != nil {
					return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateFlag)
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			b, err := eng.service.Load(ctx, date)
			if err != nil {
				return err
			}

			if markdown {
				fmt.Println(briefing.RenderMarkdown(b))
			} else {
				fmt.Println(briefing.RenderText(b))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "briefing date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render as markdown")

	return cmd
}

func serveCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ReadyDay API server with scheduled morning delivery",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Features.DebugMode {
				logging.SetLevel(logging.DEBUG)
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if port != 0 {
				cfg.Server.Port = port
			}

			passphrase, err := readPassphrase()
			if err != nil {
				return err
			}

			eng, err := buildEngine(cfg, passphrase)
			if err != nil {
				return err
			}
			defer eng.db.Close()

			server := api.New(api.Config{
				Host:            cfg.Server.Host,
				Port:            cfg.Server.Port,
				BriefingService: eng.service,
				WindowFinder:    eng.windows,
				WhoopRepo:       eng.repo,
				CalendarSource:  eng.source,
				UserStore:       eng.users,
				WhoopOAuth:      eng.whoopOA,
				GoogleOAuth:     eng.googleOA,
			})

			var sched *scheduler.Scheduler
			if cfg.Features.EnableScheduler {
				sched = scheduler.New(scheduler.Config{Timezone: cfg.Briefing.Timezone})
				delivery := briefing.NewDeliveryService(eng.service, server.Hub(), briefing.DeliveryConfig{
					DeliveryTime: cfg.Briefing.DeliveryTime,
					Timezone:     cfg.Briefing.Timezone,
				})
				if err := delivery.Register(sched); err != nil {
					return fmt.Errorf("failed to register delivery task: %w", err)
				}
				if err := sched.Start(); err != nil {
					return err
				}
				fmt.Printf("Morning briefing scheduled for %s\n", cfg.Briefing.DeliveryTime)
			}

			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
				<-sigCh

				fmt.Println("\nShutting down...")
				if sched != nil {
					sched.Stop()
				}
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				server.Stop(shutdownCtx)
			}()

			fmt.Printf("ReadyDay API listening on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
			return server.Start()
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "bind address (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "HTTP port (overrides config)")

	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show ReadyDay status",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(dbPath()); os.IsNotExist(err) {
				fmt.Println("ReadyDay is not initialized.")
				fmt.Println("  Run 'readyday init' to get started.")
				return nil
			}

			db, err := storage.Open(storage.Config{Path: dbPath()})
			if err != nil {
				return err
			}
			defer db.Close()

			users := storage.NewUserStore(db)
			user, err := users.Get()
			if err != nil {
				return err
			}

			var recoveries, sleeps, workouts, briefings int
			db.Conn().QueryRow("SELECT COUNT(*) FROM recoveries").Scan(&recoveries)
			db.Conn().QueryRow("SELECT COUNT(*) FROM sleeps").Scan(&sleeps)
			db.Conn().QueryRow("SELECT COUNT(*) FROM workouts").Scan(&workouts)
			db.Conn().QueryRow("SELECT COUNT(*) FROM briefings").Scan(&briefings)

			// Connection state is readable without decrypting the tokens.
			creds := storage.NewCredentialStore(db, "")

			fmt.Println("ReadyDay Status")
			fmt.Println()
			fmt.Printf("  User: %s\n", user.Name)
			fmt.Printf("  Created: %s\n", user.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Printf("  Data: %s\n", dataDir)
			fmt.Println()
			fmt.Printf("  Whoop connected: %v\n", creds.Has(storage.ProviderWhoop))
			fmt.Printf("  Calendar connected: %v\n", creds.Has(storage.ProviderGoogle))
			fmt.Println()
			fmt.Printf("  Recoveries: %d\n", recoveries)
			fmt.Printf("  Sleeps: %d\n", sleeps)
			fmt.Printf("  Workouts: %d\n", workouts)
			fmt.Printf("  Briefings: %d\n", briefings)

			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show ReadyDay version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ReadyDay %s\n", version)
		},
	}
}
