package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"github.com/yukikurage/taskboard/internal/config"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/database"
	"github.com/yukikurage/taskboard/internal/graph"
	"github.com/yukikurage/taskboard/internal/graphsync"
	"github.com/yukikurage/taskboard/internal/handlers"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/realtime"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "Kanban task board API",
	Long:  `Serves the task board HTTP API and websocket change feed over a SQL-backed record store.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(config.Load())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := database.Connect(cfg); err != nil {
			return err
		}
		return database.Migrate(database.GetDB())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(cfg *config.Config) error {
	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo := repository.NewRepository(repository.NewGormKVStore(database.GetDB()))

	hub := realtime.NewHub()
	go hub.Run(ctx)

	// Initialize AI service
	var drafter services.TaskDrafter
	if cfg.OpenAIAPIKey != "" {
		drafter = services.NewAIService(cfg.OpenAIAPIKey)
	}

	directory := services.NewDirectoryService(repo, hub)
	boards := services.NewBoardService(repo, hub, drafter)
	boards.SetPlacer(graph.RandomPlacer(rand.New(rand.NewSource(time.Now().UnixNano()))))

	var mirror *graphsync.Mirror
	if cfg.Neo4jURI != "" {
		driver, err := graphsync.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			log.Printf("Graph mirror disabled: %v", err)
		} else {
			defer driver.Close(context.Background())
			mirror = graphsync.NewMirror(driver, boards)
			hub.Subscribe(mirror.Handle)
			go mirror.Run(ctx)
			log.Printf("Graph mirror enabled (%s)", cfg.Neo4jURI)
		}
	}

	if err := directory.Bootstrap(ctx); err != nil {
		log.Fatalf("Failed to bootstrap boards: %v", err)
	}

	if mirror != nil {
		go func() {
			if err := mirror.Backfill(ctx, directory); err != nil {
				log.Printf("Graph mirror backfill failed: %v", err)
			}
		}()
	}

	// Initialize Gin router
	r := gin.Default()

	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	handlers.RegisterRoutes(r, handlers.Dependencies{
		Directory:      directory,
		Boards:         boards,
		Hub:            hub,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", middleware.TabIDHeader},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     c.Handler(r),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	return nil
}

// newSessionStore keeps drag sessions in Redis when SESSION_STORE=redis,
// otherwise in a signed cookie
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.SessionStore == "redis" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		s, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = s
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400, // 1 day
		HttpOnly: true,
		Secure:   cfg.GinMode == "release",
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
