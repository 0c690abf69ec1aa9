package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"HealthLife/config"
	"HealthLife/config/db"
	"HealthLife/config/mail"
	"HealthLife/config/redis"
	"HealthLife/config/upload"
	"HealthLife/events"
	"HealthLife/middleware"
	"HealthLife/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

// Resources are the shared clients built by Start and handed to the handlers.
type Resources struct {
	Config   *config.Config
	DB       *mongo.Database
	Cache    redis.Cache
	Mailer   mail.Mailer
	Uploader upload.Uploader
	Hub      *events.Hub
}

type Options struct {
	Config *config.Config

	MongoEnabled     bool
	CacheEnabled     bool
	WebServerEnabled bool
	WebServerPort    string

	JobsEnabled bool
	JobsHandler func(ctx context.Context, res *Resources) error

	MigrationEnabled bool
	MigrationHandler func(ctx context.Context, res *Resources) error

	WebServerPreHandler func(r *gin.Engine, res *Resources)
}

func GetDefaultOptions(cfg *config.Config) Options {
	return Options{
		Config:           cfg,
		MongoEnabled:     true,
		CacheEnabled:     cfg.RedisAddr != "",
		WebServerEnabled: true,
		WebServerPort:    cfg.Port,
		JobsEnabled:      true,
	}
}

/*
* Build the engine with request id, logging, recovery, cors and gzip
* Streams are excluded from gzip so events are flushed as they happen
 */
func NewEngine(cfg *config.Config) *gin.Engine {
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log.Logger), middleware.Recovery(log.Logger))

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 0 || (len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowCredentials = true
	}
	r.Use(cors.New(corsConfig))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{".*/stream/.*"})))
	return r
}

/*
* Open the resources the options ask for
* Run migrations and jobs
* Serve until SIGINT or SIGTERM, then shut down gracefully
 */
func Start(opts Options) error {
	cfg := opts.Config
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res := &Resources{Config: cfg, Hub: events.NewHub(32), Cache: redis.Noop{}}
	if opts.MongoEnabled {
		database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("mongo disconnect failed")
			}
		}()
		res.DB = database
	}
	if opts.CacheEnabled {
		cache, err := redis.Connect(ctx, cfg.RedisAddr, cfg.CacheTTL)
		if err != nil {
			return err
		}
		if closer, ok := cache.(*redis.Client); ok {
			defer closer.Close()
		}
		res.Cache = cache
	}
	res.Mailer = newMailer(cfg)
	uploader, err := newUploader(cfg)
	if err != nil {
		return err
	}
	res.Uploader = uploader

	if opts.MigrationEnabled && opts.MigrationHandler != nil {
		if err := opts.MigrationHandler(ctx, res); err != nil {
			return err
		}
	}
	if opts.JobsEnabled && opts.JobsHandler != nil {
		if err := opts.JobsHandler(ctx, res); err != nil {
			return err
		}
	}
	if !opts.WebServerEnabled {
		return nil
	}

	if err := util.RegisterValidators(); err != nil {
		return err
	}
	r := NewEngine(cfg)
	if opts.WebServerPreHandler != nil {
		opts.WebServerPreHandler(r, res)
	}
	return serve(ctx, r, opts.WebServerPort)
}

func serve(ctx context.Context, handler http.Handler, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// streams watch the request context, so they end with the process
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newMailer(cfg *config.Config) mail.Mailer {
	if cfg.SMTPHost == "" {
		log.Warn().Msg("SMTP_HOST not set, outgoing mail is only logged")
		return mail.LogMailer{}
	}
	return mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass)
}

// newUploader returns nil when cloudinary is not configured, uploads then fail per request.
func newUploader(cfg *config.Config) (upload.Uploader, error) {
	if cfg.CloudinaryCloudName == "" {
		log.Warn().Msg("cloudinary not configured, image uploads disabled")
		return nil, nil
	}
	return upload.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
}
