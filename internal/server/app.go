// Package server assembles the ShareBox server: it opens the record and
// blob backends, builds the services and runs the HTTP and gRPC APIs until
// a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/sharebox/internal/logging"
	"github.com/dmitrijs2005/sharebox/internal/server/blobs"
	"github.com/dmitrijs2005/sharebox/internal/server/config"
	"github.com/dmitrijs2005/sharebox/internal/server/httpapi"
	"github.com/dmitrijs2005/sharebox/internal/server/metrics"
	"github.com/dmitrijs2005/sharebox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sharebox/internal/server/services"

	gs "github.com/dmitrijs2005/sharebox/internal/server/grpc"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	repos         repomanager.RepositoryManager
	userService   *services.UserService
	objectService *services.ObjectService
	metrics       *metrics.Metrics
}

// openRepositories is a seam for tests.
var openRepositories = repomanager.New

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogBackend, c.LogLevel, c.LogFormat, os.Stdout)
	if err != nil {
		return nil, err
	}

	rm, err := openRepositories(repomanager.Options{
		Backend:     c.RecordBackend,
		DatabaseDSN: c.DatabaseDSN,
		BadgerPath:  c.BadgerPath,
	})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := newBlobStore(ctx, c)
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	mx := metrics.New()
	us := services.NewUserService(rm, c)
	obs := services.NewObjectService(rm, store, c, mx, logger)

	return &App{config: c, logger: logger, repos: rm, userService: us, objectService: obs, metrics: mx}, nil
}

func newBlobStore(ctx context.Context, c *config.Config) (blobs.Store, error) {
	switch c.BlobBackend {
	case "fs":
		return blobs.NewFSStore(c.BlobRoot)
	case "s3":
		return blobs.NewS3Store(ctx, blobs.S3Config{
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
		})
	case "minio":
		host, useSSL, err := minioEndpoint(c.S3BaseEndpoint)
		if err != nil {
			return nil, err
		}
		return blobs.NewMinioStore(ctx, blobs.MinioConfig{
			Endpoint:  host,
			AccessKey: c.S3RootUser,
			SecretKey: c.S3RootPassword,
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			UseSSL:    useSSL,
		})
	default:
		return nil, fmt.Errorf("unknown blob backend %q", c.BlobBackend)
	}
}

// minioEndpoint splits an endpoint URL into the host:port minio-go expects
// and whether TLS is used.
func minioEndpoint(raw string) (string, bool, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false, fmt.Errorf("invalid minio endpoint: %w", err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("invalid minio endpoint %q", raw)
	}
	return u.Host, u.Scheme == "https", nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.objectService,
		app.config.SecretKey, app.config.MaxUploadBytes)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	router := httpapi.NewRouter(app.objectService, app.userService, app.metrics, app.logger, httpapi.Options{
		MaxUploadBytes:    app.config.MaxUploadBytes,
		DownloadRateLimit: app.config.DownloadRateLimit,
		DownloadBurst:     app.config.DownloadBurst,
		TrustProxyHeaders: app.config.TrustProxyHeaders,
	})

	s := httpapi.NewServer(app.config.EndpointAddrHTTP, router, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves both APIs until ctx is cancelled, a signal arrives or one of
// the servers fails, then releases the record backend.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"records", app.config.RecordBackend, "blobs", app.config.BlobBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "error closing repositories", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
