package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/pressroom/pressroom/internal/auth"
	"github.com/pressroom/pressroom/internal/blog"
	"github.com/pressroom/pressroom/internal/config"
	"github.com/pressroom/pressroom/internal/db"
	"github.com/pressroom/pressroom/internal/health"
	"github.com/pressroom/pressroom/internal/middleware"
	"github.com/pressroom/pressroom/internal/session"
	"github.com/pressroom/pressroom/web"
)

func main() {
	_ = godotenv.Load(".env.local")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	gdb, err := db.Connect(cfg.DatabaseURL(), cfg.App.Debug)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.Ping(ctx, gdb); err != nil {
		log.Fatal("Failed to reach database: ", err)
	}
	log.Println("Connected to Postgres")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to reach Redis: ", err)
	}
	log.Println("Connected to Redis")

	if err := auth.Init(gdb); err != nil {
		log.Fatal("Failed to migrate auth tables: ", err)
	}
	if err := blog.Init(gdb); err != nil {
		log.Fatal("Failed to migrate blog tables: ", err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	pages := web.LoadTemplates(hostname)

	sessions := session.NewStore(rdb, cfg.Session.Lifetime())
	authSvc := auth.NewService(gdb, sessions)
	limiter := auth.NewLoginLimiter(5, time.Minute)
	authHandler := auth.NewHandler(authSvc, sessions, pages, limiter,
		cfg.Session.SecureCookies, cfg.Session.Lifetime())
	postHandler := blog.NewHandler(blog.NewRepo(gdb), pages)

	reporter := health.NewReporter()
	reporter.Register("postgres", func(ctx context.Context) error { return db.Ping(ctx, gdb) })
	reporter.Register("redis", sessions.Ping)

	requireSession := middleware.Session(authSvc)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	if cfg.App.Debug {
		r.Use(chimiddleware.Logger)
	}
	r.Use(middleware.SecureHeaders)

	r.Get("/health", reporter.Handler)
	authHandler.Routes(r, requireSession)
	postHandler.Routes(r, requireSession)

	addr := "0.0.0.0:" + cfg.App.Port
	fmt.Println("Server listening on " + addr + "...")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}
