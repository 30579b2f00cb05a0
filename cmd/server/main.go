package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spellsprint/internal/audio"
	"spellsprint/internal/config"
	"spellsprint/internal/crossword"
	"spellsprint/internal/database"
	"spellsprint/internal/handlers"
	"spellsprint/internal/repository"
	"spellsprint/internal/security"
	"spellsprint/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	sessionRepo := repository.NewSessionRepository(db)
	listRepo := repository.NewListRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)

	// Services
	listService := service.NewListService(listRepo)
	if err := listService.SeedDefaultLists(); err != nil {
		log.Fatalf("Failed to seed default lists: %v", err)
	}

	inventoryService := service.NewInventoryService(inventoryRepo, cfg)
	dictionaryService := service.NewDictionaryService(cfg.DictionaryAPIBaseURL)
	emailService := service.NewEmailService(cfg)

	audioService, err := audio.NewService(filepath.Join(cfg.StaticFilesPath, "audio"))
	if err != nil {
		log.Fatalf("Failed to set up audio cache: %v", err)
	}
	illustrationService := service.NewIllustrationService(filepath.Join(cfg.StaticFilesPath, "images"))

	gameService := service.NewGameService(cfg, sessionRepo, listService,
		inventoryService, leaderboardRepo, dictionaryService, emailService,
		crossword.NewBuilder())

	// Handlers
	tokens := security.NewTokenIssuer(cfg.TokenSecret, cfg.TokenDuration)
	playerHandler := handlers.NewPlayerHandler(tokens, inventoryService, gameService, false)
	playHandler := handlers.NewPlayHandler(gameService, audioService, illustrationService)
	listHandler := handlers.NewListHandler(listService, leaderboardRepo)

	requirePlayer := handlers.RequirePlayer(tokens)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /player/enter", playerHandler.Enter)
	mux.Handle("GET /player/inventory", requirePlayer(http.HandlerFunc(playerHandler.Inventory)))
	mux.Handle("GET /player/recover", requirePlayer(http.HandlerFunc(playerHandler.Recover)))
	mux.Handle("GET /player/achievements", requirePlayer(http.HandlerFunc(listHandler.GetAchievements)))

	mux.HandleFunc("GET /lists", listHandler.GetLists)
	mux.Handle("POST /lists", requirePlayer(http.HandlerFunc(listHandler.CreateList)))
	mux.HandleFunc("GET /leaderboard", listHandler.GetLeaderboard)

	mux.Handle("POST /play/start/{listId}", requirePlayer(http.HandlerFunc(playHandler.Start)))
	mux.Handle("POST /play/virtual", requirePlayer(http.HandlerFunc(playHandler.StartVirtual)))
	mux.Handle("GET /play", requirePlayer(http.HandlerFunc(playHandler.Get)))
	mux.Handle("GET /play/audio", requirePlayer(http.HandlerFunc(playHandler.Audio)))
	mux.Handle("GET /play/illustration", requirePlayer(http.HandlerFunc(playHandler.Illustration)))
	mux.Handle("POST /play/submit", requirePlayer(http.HandlerFunc(playHandler.Submit)))
	mux.Handle("POST /play/doover", requirePlayer(http.HandlerFunc(playHandler.DoOver)))
	mux.Handle("POST /play/advance", requirePlayer(http.HandlerFunc(playHandler.Advance)))
	mux.Handle("POST /play/skip", requirePlayer(http.HandlerFunc(playHandler.Skip)))
	mux.Handle("POST /play/scramble/place", requirePlayer(http.HandlerFunc(playHandler.ScramblePlace)))
	mux.Handle("POST /play/scramble/remove", requirePlayer(http.HandlerFunc(playHandler.ScrambleRemove)))
	mux.Handle("POST /play/scramble/clear", requirePlayer(http.HandlerFunc(playHandler.ScrambleClear)))
	mux.Handle("POST /play/secondchance", requirePlayer(http.HandlerFunc(playHandler.SecondChance)))
	mux.Handle("GET /play/results", requirePlayer(http.HandlerFunc(playHandler.Results)))
	mux.Handle("POST /play/exit", requirePlayer(http.HandlerFunc(playHandler.Exit)))

	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticFilesPath)))

	limiter := security.NewRateLimiter(10, 20)
	handler := handlers.Logging(handlers.RateLimit(limiter)(mux))

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
