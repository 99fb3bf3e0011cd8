package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/hhtelecom/fieldcapture/app/controllers"
	"github.com/hhtelecom/fieldcapture/app/repository"
	"github.com/hhtelecom/fieldcapture/internal/pkg/capture"
	"github.com/hhtelecom/fieldcapture/internal/pkg/database"
	"github.com/hhtelecom/fieldcapture/internal/pkg/env"
	"github.com/hhtelecom/fieldcapture/internal/pkg/export"
	"github.com/hhtelecom/fieldcapture/internal/pkg/offlinequeue"
	"github.com/hhtelecom/fieldcapture/internal/pkg/remote"
	"github.com/hhtelecom/fieldcapture/internal/pkg/router"
	"github.com/hhtelecom/fieldcapture/internal/pkg/syncengine"
	"github.com/hhtelecom/fieldcapture/internal/pkg/workflow"
)

// Same composition as the root entry point, plus graceful shutdown for
// service deployments.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env.SetupEnvFile()

	db, err := database.Open(env.GetEnv("STORE_PATH", "fieldcapture.db"))
	if err != nil {
		log.Fatal(err)
	}
	repos := repository.NewRepositories(db)

	cfg, err := remote.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	var storage syncengine.ObjectStorage
	if cfg.StorageConfigured() {
		s3Storage, err := remote.NewS3Storage(cfg)
		if err != nil {
			log.Fatal(err)
		}
		storage = s3Storage
	}

	var tables syncengine.RemoteTables
	online := func() bool { return false }
	if cfg.DatabaseConfigured() {
		tables = remote.NewTableClient(cfg, nil)
		online = remote.OnlineProbe(cfg.DatabaseURL)
	}

	engine := syncengine.New(repos.Report, repos.Photo, storage, tables, online, func(done, total int) {
		fiberlog.Info(fmt.Sprintf("[Sync] progress %d/%d", done, total))
	})

	flow := workflow.New(repos.Report, repos.Photo, online, func() { engine.TriggerAsync(ctx) })
	// No position source on the gateway; coordinates come from EXIF.
	pipeline := capture.NewPipeline(repos.Photo, nil)

	// Interception follows the wired outbound destination, so a dead
	// network queues exactly what the webhook sender posts.
	webhookURL := env.GetEnv("MAKE_WEBHOOK_URL", "")
	transport := offlinequeue.NewTransport(nil, repos.Queue, offlinequeue.AllowListFor(webhookURL))
	replayer := offlinequeue.NewReplayer(repos.Queue, nil)
	webhook := export.NewWebhookSender(
		webhookURL,
		env.GetEnv("CTM_API_KEY", ""),
		transport.Client(60*time.Second),
	)

	go syncengine.WatchConnectivity(ctx, syncengine.WatchInterval, online, func() {
		engine.TriggerAsync(ctx)
		if _, err := replayer.Replay(ctx); err != nil {
			fiberlog.Error(fmt.Sprintf("[OfflineQueue] replay failed: %v", err))
		}
	})

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024,
	})
	app.Use(recover.New(), logger.New())
	router.InstallRouter(app,
		controllers.NewDraftController(flow, pipeline, repos.Report, repos.Photo),
		controllers.NewReportController(repos.Report, repos.Photo, webhook),
		controllers.NewUploadController(storage, env.GetEnv("S3_PREFIX", "relatorios")),
		controllers.NewSyncController(engine, replayer, repos),
	)

	go func() {
		<-ctx.Done()
		fiberlog.Info("[App] shutting down")
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000"))
	if err := app.Listen(addr); err != nil {
		log.Fatal(err)
	}
}
