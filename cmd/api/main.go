package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/BauthyBa/jetgo-private/internal/cache"
	"github.com/BauthyBa/jetgo-private/internal/handler"
	"github.com/BauthyBa/jetgo-private/internal/repository"
	"github.com/BauthyBa/jetgo-private/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL драйвер
	"github.com/redis/go-redis/v9"
)

func main() {
	// Читаем параметры подключения к БД из переменных окружения
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASS")
	dbName := os.Getenv("DB_NAME")
	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	dsn := "host=" + dbHost + " port=" + dbPort + " user=" + dbUser + " password=" + dbPass + " dbname=" + dbName + " sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Fatalf("Не удалось подключиться к базе данных: %v", err)
	}
	// Выполняем миграции (если есть)
	files, err := filepath.Glob("migrations/*.sql")
	if err == nil {
		for _, file := range files {
			content, readErr := os.ReadFile(file)
			if readErr != nil {
				log.Printf("Не удалось прочитать миграцию %s: %v", file, readErr)
				continue
			}
			if _, execErr := db.Exec(string(content)); execErr != nil {
				log.Printf("Миграция %s завершилась ошибкой: %v", file, execErr)
			} else {
				log.Printf("Миграция %s применена.", file)
			}
		}
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Не указан секрет токенов (JWT_SECRET)")
	}
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	publicBaseURL := os.Getenv("PUBLIC_BASE_URL")
	if publicBaseURL == "" {
		publicBaseURL = "http://localhost:8080"
	}
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	// Кэш Redis необязателен: без REDIS_ADDR сервис работает без кэширования
	var destinationsCache *cache.Cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		destinationsCache = cache.New(client, "jetgo:", 5*time.Minute)
	}

	// Инициализируем репозитории
	userRepo := repository.NewUserRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	tripRepo := repository.NewTripRepository(db)
	// Инициализируем сервисы
	jwtManager := service.NewJWTManager(service.DefaultJWTConfig(jwtSecret))
	authService := service.NewAuthService(userRepo, verificationRepo, jwtManager, frontendURL)
	chatService := service.NewChatService(roomRepo, messageRepo)
	defer chatService.Close()
	tripService := service.NewTripService(tripRepo, destinationsCache)
	profileService := service.NewProfileService(userRepo, uploadDir, publicBaseURL)
	verificationService := service.NewVerificationService(userRepo, os.Getenv("MERCADO_PAGO_ACCESS_TOKEN"))

	// Создаем Handler и регистрируем маршруты
	h := handler.NewHandler(authService, chatService, tripService, profileService, verificationService)
	router := gin.Default()
	api := router.Group("/api")
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.POST("/auth/refresh", h.Refresh)
		api.GET("/auth/verify-email", h.VerifyEmail)
		api.GET("/trips", h.ListTrips)
		api.GET("/destinations/popular", h.PopularDestinations)

		authorized := api.Group("", h.AuthRequired())
		{
			authorized.POST("/auth/resend", h.ResendVerification)

			authorized.GET("/trips/mine", h.MyTrips)
			authorized.GET("/trips/:id", h.GetTrip)
			authorized.POST("/trips", h.CreateTrip)
			authorized.PUT("/trips/:id", h.UpdateTrip)
			authorized.DELETE("/trips/:id", h.DeleteTrip)
			authorized.POST("/trips/:id/join", h.JoinTrip)
			authorized.POST("/trips/:id/leave", h.LeaveTrip)
			authorized.GET("/trips/:id/participants", h.TripParticipants)

			authorized.GET("/chat/rooms", h.ListRooms)
			authorized.POST("/chat/rooms", h.CreateRoom)
			authorized.POST("/chat/rooms/:id/join", h.JoinRoom)
			authorized.POST("/chat/rooms/:id/leave", h.LeaveRoom)
			authorized.GET("/chat/rooms/:id/messages", h.RoomMessages)
			authorized.GET("/chat/rooms/:id/members", h.RoomMembers)
			authorized.POST("/chat/messages", h.SendMessage)
			authorized.GET("/chat/poll", h.PollMessages)
			authorized.GET("/chat/stream", h.StreamMessages)

			authorized.GET("/profile", h.GetProfile)
			authorized.PUT("/profile", h.UpdateProfile)
			authorized.POST("/profile/image", h.UploadProfileImage)

			authorized.POST("/verification", h.VerifyIdentity)
		}
	}
	// Загруженные фото профиля раздаются как статика
	router.Static("/uploads", uploadDir)
	// Health-check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Запускаем HTTP-сервер
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
