package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ashline/cigar-cellar/internal/config"
	"github.com/ashline/cigar-cellar/internal/database"
	"github.com/ashline/cigar-cellar/internal/handler"
	"github.com/ashline/cigar-cellar/internal/middleware"
	"github.com/ashline/cigar-cellar/internal/queue"
	"github.com/ashline/cigar-cellar/internal/repository"
	"github.com/ashline/cigar-cellar/internal/router"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "run pending migrations and exit")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	if err := database.Migrate(cfg.MigrationsDir, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if *migrateOnly {
		log.Println("migrations applied")
		return
	}
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: both middlewares pass requests straight
	// through when the client is nil or disabled by config.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	brands := repository.NewBrandRepo(db)
	products := repository.NewProductRepo(db)
	sizes := repository.NewSizeRepo(db)
	locations := repository.NewLocationRepo(db)
	containerTypes := repository.NewContainerTypeRepo(db)
	containers := repository.NewContainerRepo(db)
	cigars := repository.NewCigarRepo(db)
	transfers := repository.NewTransferRepo(db)
	sessions := repository.NewSessionRepo(db)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterAPI(e, router.API{
		Cigars:     handler.NewCigarHandler(cigars, transfers, locations),
		Locations:  handler.NewLocationHandler(locations, cigars),
		Containers: handler.NewContainerHandler(containers, cigars),
		Sessions:   handler.NewSessionHandler(sessions, cigars),
		Reference:  handler.NewReferenceHandler(brands, products, sizes, containerTypes),
	}, cfg.JWTSecret,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	)

	// The consumer drains the provenance queues into the audit log. It
	// reconnects on its own, so a broker outage never takes the API down.
	go func() {
		if err := queue.StartConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
