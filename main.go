package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jayasuriya321/finance/internal/config"
	"github.com/jayasuriya321/finance/internal/database"
	"github.com/jayasuriya321/finance/internal/mailer"
	"github.com/jayasuriya321/finance/internal/notify"
	"github.com/jayasuriya321/finance/internal/router"
	"github.com/jayasuriya321/finance/internal/scheduler"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// ensure the data directory exists
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		log.Fatalf("create data dir: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	mail := mailer.New(cfg.SMTP)
	if !mail.Enabled() {
		log.Printf("smtp not configured, email delivery disabled")
	}

	// recurring expense job
	var job *scheduler.Job
	if cfg.Scheduler.Enabled {
		store := scheduler.NewGormStore(db)
		engine := scheduler.NewEngine(store, notify.NewDispatcher(store, mail))
		job, err = scheduler.NewJob(engine, cfg.Scheduler.Spec)
		if err != nil {
			log.Fatalf("init scheduler: %v", err)
		}
		job.Start()
	}

	r := router.SetupRouter(cfg, db, mail)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("run server: %v", err)
		}
	}()

	// wait for interrupt, then drain in-flight requests and stop the cron
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if job != nil {
		job.Stop()
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
