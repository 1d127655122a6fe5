package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ac-advisor/internal/catalog"
	"ac-advisor/internal/config"
	"ac-advisor/internal/httpapi"
	"ac-advisor/internal/recommend"
	"ac-advisor/internal/scheduler"
	"ac-advisor/internal/session"
	"ac-advisor/internal/storage"
	"ac-advisor/internal/telegram"
	"ac-advisor/internal/theory"
	"ac-advisor/internal/users"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Пустой каталог допустим: бот работает, но подбор ничего не находит
	models, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Printf("⚠️ catalog unavailable, continuing with empty catalog: %v", err)
	} else {
		log.Printf("📦 Loaded %d models from %s", models.Len(), cfg.CatalogPath)
	}

	guide, err := theory.Load(cfg.TheoryPath)
	if err != nil {
		log.Printf("⚠️ theory guide unavailable: %v", err)
	}

	var usersRepo users.Repository
	if cfg.UsersFilePath != "" {
		repo, err := users.NewFileRepository(cfg.UsersFilePath)
		if err != nil {
			log.Printf("failed to init users repo: %v", err)
		} else {
			usersRepo = repo
		}
	}
	usersSvc, err := users.NewWithRepo(usersRepo)
	if err != nil {
		log.Printf("failed to load users: %v", err)
	}

	sinks, loader, closers := openSinks(ctx, cfg)
	audit := storage.NewAsync(sinks, cfg.AuditQueueSize)

	sessions := session.NewRegistry()
	bot, err := telegram.New(cfg.TelegramBotToken, telegram.Deps{
		Sessions:    sessions,
		Engine:      recommend.NewEngine(models, cfg.BTUPerM2),
		Auditor:     audit,
		Guide:       guide,
		Users:       usersSvc,
		Stats:       loader,
		AdminUserID: cfg.AdminUserID,
		ParseMode:   cfg.MessageParseMode,
	})
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	sched := scheduler.New()
	if cfg.ReportCron != "" {
		if err := sched.Add("daily-report", cfg.ReportCron, bot.SendDailyReport); err != nil {
			log.Printf("failed to schedule daily report: %v", err)
		}
	}
	if cfg.SessionIdleTimeout > 0 && cfg.SessionSweepCron != "" {
		err := sched.Add("session-sweep", cfg.SessionSweepCron, func(ctx context.Context) error {
			if n := bot.ExpireIdle(ctx, cfg.SessionIdleTimeout); n > 0 {
				log.Printf("⌛ Queued expiry of %d idle sessions", n)
			}
			return nil
		})
		if err != nil {
			log.Printf("failed to schedule session sweep: %v", err)
		}
	}
	sched.Start()

	var server *http.Server
	if cfg.HTTPAddr != "" {
		api := httpapi.NewService(models, sessions, loader)
		server = &http.Server{Addr: cfg.HTTPAddr, Handler: api.Router(), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			log.Printf("🌐 Ops API listening on %s", cfg.HTTPAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("ops api error: %v", err)
			}
		}()
	}

	bot.Start(ctx)

	log.Println("Shutting down...")
	sched.Stop()
	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = server.Shutdown(shutdownCtx)
		cancel()
	}
	audit.Close()
	for _, c := range closers {
		if err := c.Close(); err != nil {
			log.Printf("failed to close sink: %v", err)
		}
	}
}

// openSinks builds the audit fan-out. The JSONL file is the default loader,
// Postgres replaces it when configured.
func openSinks(ctx context.Context, cfg *config.Config) (storage.Multi, storage.Loader, []io.Closer) {
	var (
		sinks   storage.Multi
		loader  storage.Loader
		closers []io.Closer
	)

	if cfg.LogFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			log.Printf("failed to init file recorder: %v", err)
		} else {
			sinks = append(sinks, fr)
			loader = fr
		}
	}

	if cfg.AuditPostgresDSN != "" {
		pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		pr, err := storage.NewPostgresRecorder(pctx, cfg.AuditPostgresDSN)
		cancel()
		if err != nil {
			log.Printf("failed to init postgres recorder: %v", err)
		} else {
			sinks = append(sinks, pr)
			loader = pr
			closers = append(closers, pr)
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		kr := storage.NewKafkaRecorder(cfg.KafkaBrokers, cfg.KafkaTopic)
		sinks = append(sinks, kr)
		closers = append(closers, kr)
	}

	if cfg.RedisAddr != "" {
		rr := storage.NewRedisRecorder(cfg.RedisAddr)
		sinks = append(sinks, rr)
		closers = append(closers, rr)
	}

	log.Printf("📝 Audit sinks configured: %d", len(sinks))
	return sinks, loader, closers
}
