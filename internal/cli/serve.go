package cli

import (
	"fmt"

	"cvintake/internal/auth"
	"cvintake/internal/config"
	"cvintake/internal/google"
	"cvintake/internal/ingest"
	"cvintake/internal/intake"
	"cvintake/internal/schedule"
	"cvintake/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for résumé intake and interview scheduling",
	Long: `Start an HTTP server that provides REST API endpoints for résumé intake.

Available endpoints:
- POST /intake/upload: Upload a résumé and extract candidate fields
- POST /intake/acknowledge: Compose and optionally send an acknowledgement email
- POST /intake/schedule: Book an interview with a conference link
- GET /intake/slots: List free interview slots for a date
- GET /auth/login: Begin the OAuth authorization flow
- GET /auth/callback: OAuth redirect endpoint
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

Calendar invitations and emails require a completed OAuth session; until
then scheduling falls back to placeholder conference links.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")

	// Bind flags to viper config keys
	bindFlag := func(key, flagName string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flagName)); err != nil {
			panic(err)
		}
	}

	bindFlag("server.port", "port")
	bindFlag("server.host", "host")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Pull API keys and the OAuth client secret from Vault before
	// anything downstream captures the config values.
	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return fmt.Errorf("failed to apply Vault secrets: %w", err)
	}

	session := auth.NewSession(auth.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
		TokenFile:    cfg.Google.TokenFile,
		StateFile:    cfg.Google.StateFile,
	}, logger)

	// A provider-console credentials file overrides the inline client
	// settings and can be hot-reloaded without restarting the server.
	if cfg.Google.CredentialsFile != "" {
		creds, err := auth.LoadClientCredentials(cfg.Google.CredentialsFile)
		if err != nil {
			return fmt.Errorf("failed to load client credentials: %w", err)
		}
		session.SetClient(creds.ClientID, creds.ClientSecret)

		if cfg.Google.CredentialsWatch.Enabled {
			watcher := auth.NewCredentialsWatcher(
				cfg.Google.CredentialsFile,
				cfg.Google.CredentialsWatch.DebounceDelay,
				func(c auth.ClientCredentials) {
					session.SetClient(c.ClientID, c.ClientSecret)
				},
				logger,
			)
			if err := watcher.Start(); err != nil {
				return fmt.Errorf("failed to start credentials watcher: %w", err)
			}
			defer watcher.Stop()
		}
	}

	calendar := google.NewCalendar(session, cfg.Google, logger)
	mail := google.NewMail(session, cfg.Google, logger)

	planner := schedule.NewPlanner(calendar, logger, cfg.Location()).
		WithWindow(cfg.Scheduling.StartHour, cfg.Scheduling.EndHour)

	svc := intake.NewService(calendar, mail, planner,
		cfg.Location(), cfg.Scheduling.DefaultInterviewer, logger)

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxFileSize,
		RateLimit:      &cfg.Server.RateLimit,
	}
	deps := server.Dependencies{
		Session:  session,
		Intake:   svc,
		Calendar: calendar,
		Mail:     mail,
		Reader:   ingest.NewReader(cfg.App.UploadDir),
	}
	return server.NewServer(cfg, serverCfg, deps, logger).Start()
}
