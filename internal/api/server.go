package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"hotdesk/internal/cache"
	"hotdesk/internal/config"
	"hotdesk/internal/database"
	"hotdesk/internal/handlers"
	"hotdesk/internal/messaging"
	"hotdesk/internal/middleware"
	"hotdesk/internal/models"
	"hotdesk/internal/service"
	"hotdesk/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server представляет HTTP сервер API
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	store    store.Store
	services *service.Services
}

// NewServer создает новый экземпляр сервера
func NewServer(cfg *config.Config) *Server {
	// Устанавливаем режим Gin
	gin.SetMode(cfg.GinMode)

	layout, err := models.ParseLayout(cfg.LayoutSpec)
	if err != nil {
		log.Fatalf("Invalid office layout %q: %v", cfg.LayoutSpec, err)
	}

	server := &Server{config: cfg}

	st, users := server.buildStore(cfg)
	server.store = st

	// Подключаемся к NATS
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Printf("NATS unavailable, events disabled: %v", err)
	}
	server.nats = natsClient

	// Valkey опционален: без него работаем напрямую из движка
	if cfg.Valkey.Addr != "" {
		valkeyClient, err := cache.NewValkeyClient(cfg.Valkey)
		if err != nil {
			log.Printf("Valkey unavailable, caching disabled: %v", err)
		} else {
			server.valkey = valkeyClient
		}
	}

	// Создаем сервисы
	server.services = service.NewServices(service.Deps{
		Store:       st,
		Users:       users,
		Layout:      layout,
		WindowWeeks: cfg.WindowWeeks,
		NATS:        natsClient,
		Valkey:      server.valkey,
	})

	// Справочник пользователей обязателен, без него вход невозможен
	if err := server.services.Users.VerifyDirectory(context.Background()); err != nil {
		log.Fatalf("User directory check failed: %v", err)
	}

	// Создаем роутер
	router := gin.New()

	// Применяем middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server.router = router

	// Настраиваем роуты
	server.setupRoutes()

	return server
}

// buildStore выбирает бэкенд хранилища по конфигурации
func (s *Server) buildStore(cfg *config.Config) (store.Store, store.UserDirectory) {
	switch cfg.StoreBackend {
	case "memory":
		mem := store.NewMemoryStore()
		return mem, mem

	case "csv":
		csvStore, err := store.NewCSVStore(cfg.CSV)
		if err != nil {
			log.Fatalf("Failed to open CSV store: %v", err)
		}
		return csvStore, csvStore

	case "postgres":
		db, err := database.Connect(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.RunMigrations(); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		s.db = db
		pg := store.NewPostgresStore(db)
		return pg, pg

	case "http":
		httpStore := store.NewHTTPStore(cfg.HTTPStore)
		return httpStore, httpStore

	default:
		log.Fatalf("Unknown store backend %q (expected memory, csv, postgres or http)", cfg.StoreBackend)
		return nil, nil
	}
}

// setupRoutes настраивает все API роуты
func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	// API routes
	api := s.router.Group("/api")
	{
		// Вход без заголовка идентификации
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Login)
		}

		// Остальные роуты требуют X-User-ID известного пользователя
		authed := api.Group("")
		authed.Use(middleware.Identity(s.services.Users))
		{
			authed.GET("/schedule", h.GetSchedule)

			// Seats endpoints
			seats := authed.Group("/seats")
			{
				seats.GET("", h.ListSeats)
				seats.GET("/timeslots", h.GetTimeslots)
			}

			// Bookings endpoints
			bookings := authed.Group("/bookings")
			{
				bookings.POST("", h.CreateBooking)
				bookings.GET("", h.ListBookings)
				bookings.PATCH("/cancel", h.CancelBooking)
				bookings.POST("/batch", h.ApplyBatch)
			}

			authed.POST("/reset", h.ResetStore)
		}
	}

	// Health check endpoint
	s.router.GET("/health", s.healthCheck)

	// Prometheus metrics
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// healthCheck обрабатывает health check запросы
func (s *Server) healthCheck(c *gin.Context) {
	status := gin.H{
		"status":  "ok",
		"service": "hotdesk-api",
		"version": "1.0.0",
	}

	if s.db != nil {
		if err := s.db.HealthCheck(c.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
	}

	c.JSON(http.StatusOK, status)
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter возвращает роутер для тестирования
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup закрывает соединения
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			log.Printf("Error closing Valkey connection: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}
