package main

import (
	"context"
	"embed"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mcranksync/internal/application"
	"mcranksync/internal/delivery/api"
	"mcranksync/internal/delivery/discord"
	"mcranksync/internal/repository"
	"mcranksync/pkg/config"
	"mcranksync/pkg/logger"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

func main() {
	_ = godotenv.Load()

	cfg := config.Config{}
	if err := config.ReadEnvConfig(&cfg); err != nil {
		panic(err)
	}

	log := logger.NewLogger(&logger.Config{Level: cfg.LogLevel})

	db, err := repository.NewPostgresDB(&cfg.Repo)
	if err != nil {
		log.Error("failed to init db: %s", err.Error())
		return
	}
	defer db.Close()

	log.Info("Running migrations...")
	if err := repository.RunMigrations(db, migrationFS); err != nil {
		log.Error("failed to run migrations: %s", err.Error())
		return
	}
	log.Info("Migrations applied successfully")

	repos := repository.NewRepository(db)

	bot, err := discord.NewBot(&cfg, log)
	if err != nil {
		log.Error("failed to init bot: %s", err.Error())
		return
	}

	services := application.NewService(repos, bot.RoleManager(), log)
	bot.SetServices(services)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := bot.Init(); err != nil {
		log.Error("failed to init bot: %s", err.Error())
		return
	}

	go func() {
		if err := bot.Run(ctx); err != nil {
			log.Error("bot run error: %s", err.Error())
		}
	}()

	server := api.NewServer(&cfg, services, log)
	go func() {
		if err := server.Run(); err != nil {
			log.Error("api server error: %s", err.Error())
		}
	}()

	go sweepExpiredCodes(ctx, services.Links, cfg.CodeSweepInterval, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("api server shutdown error: %s", err.Error())
	}

	bot.Stop()
	log.Info("Bot Stopped")
}

// sweepExpiredCodes periodically deletes expired link codes. Redemption
// checks expiry on its own, so the sweep only keeps the table small.
func sweepExpiredCodes(ctx context.Context, links application.LinkService, interval time.Duration, log application.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := links.SweepExpiredCodes(); err != nil {
				log.Error("failed to sweep expired codes: %s", err.Error())
			}
		}
	}
}
