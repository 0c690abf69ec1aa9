package main

import (
	"context"
	"os"

	"HealthLife/config"
	"HealthLife/config/logger"
	"HealthLife/jobs"
	"HealthLife/migrations"
	"HealthLife/repository"
	"HealthLife/routes"
	"HealthLife/server"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	startServer = server.Start
	isTest      = false
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "healthlife",
		Short:         "HealthLife telehealth API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(false)
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run migrations, the expiry notifier and the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(false)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(true)
		},
	})
	return root
}

/*
* Load config and logger
* Build the server options, only migrations run when migrateOnly is set
* Hand them to the server
 */
func run(migrateOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, cfg.IsDev())
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return err
	}

	defaultopts := server.GetDefaultOptions(cfg)

	options := server.Options{
		Config:           cfg,
		CacheEnabled:     defaultopts.CacheEnabled && !migrateOnly,
		MongoEnabled:     defaultopts.MongoEnabled,
		WebServerEnabled: defaultopts.WebServerEnabled && !migrateOnly,
		WebServerPort:    defaultopts.WebServerPort,

		JobsEnabled: !isTest && !migrateOnly,
		JobsHandler: func(ctx context.Context, res *server.Resources) error {
			if isTest {
				return nil
			}
			notifier := jobs.NewExpiryNotifier(repository.NewChatRepository(res.DB), res.Hub)
			scheduler, err := jobs.StartScheduler(cfg.ExpiryJobSpec, notifier)
			if err != nil {
				return err
			}
			go func() {
				<-ctx.Done()
				scheduler.Stop()
			}()
			return nil
		},

		MigrationEnabled: !isTest,
		MigrationHandler: func(ctx context.Context, res *server.Resources) error {
			if isTest {
				return nil
			}
			return migrations.Run(ctx, res.DB)
		},

		WebServerPreHandler: func(r *gin.Engine, res *server.Resources) {
			handlers, auth := routes.Wire(res)
			routes.Routes(r, handlers, auth)
		},
	}
	return startServer(options)
}
