package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	amqp "github.com/streadway/amqp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SZL741023/Restaurant-API/internal/handlers"
	"github.com/SZL741023/Restaurant-API/internal/middleware"
	"github.com/SZL741023/Restaurant-API/internal/models"
	"github.com/SZL741023/Restaurant-API/internal/repositories"
	"github.com/SZL741023/Restaurant-API/internal/services"
	"github.com/SZL741023/Restaurant-API/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=restaurant port=5432 sslmode=disable")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	databaseURL := viper.GetString("DATABASE_URL")
	jwtSecret := viper.GetString("JWT_SECRET")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	// --- Database ---
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Group{},
		&models.User{},
		&models.Category{},
		&models.MenuItem{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if err := seedData(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		if err := mqClient.ConsumeOrderEvents(logOrderEvent); err != nil {
			log.Printf("Warning: failed to start order event consumer: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL not set, order events disabled")
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	menuRepo := repositories.NewGORMMenuItemRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	cartRepo := repositories.NewGORMCartRepository()
	orderRepo := repositories.NewGORMOrderRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, jwtSecret)
	menuService := services.NewMenuService(menuRepo, categoryRepo)
	groupService := services.NewGroupService(userRepo)
	cartService := services.NewCartService(db, cartRepo, menuRepo)
	orderService := services.NewOrderService(db, orderRepo, cartRepo, userRepo, mqClient)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	menuHandler := handlers.NewMenuHandler(menuService)
	groupHandler := handlers.NewGroupHandler(groupService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(apiV1)

	// Protected routes
	protected := apiV1.Group("", middleware.AuthRequired(authService, userRepo))
	menuHandler.RegisterRoutes(protected)
	groupHandler.RegisterRoutes(protected)
	cartHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// logOrderEvent is the in-process consumer for the order queue: one
// audit line per lifecycle event. Malformed messages are logged and
// acked rather than requeued forever.
func logOrderEvent(msg amqp.Delivery) error {
	var event rabbitmq.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("Dropping malformed order event %d: %v", msg.DeliveryTag, err)
		return nil
	}
	log.Printf("Order event %s: order=%s user=%s crew=%s total=%.2f",
		event.Type, event.OrderID, event.UserID, event.DeliveryCrewID, event.Total)
	return nil
}

// seedData creates the role groups, an admin superuser and a small
// starter menu. Existing rows are left alone, so restarts are safe.
func seedData(db *gorm.DB) error {
	for _, name := range []string{services.GroupManager, services.GroupDeliveryCrew} {
		var count int64
		if err := db.Model(&models.Group{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&models.Group{ID: uuid.New().String(), Name: name}).Error; err != nil {
				return err
			}
			log.Printf("Seeded group: %s", name)
		}
	}

	var adminCount int64
	if err := db.Model(&models.User{}).Where("is_superuser = ?", true).Count(&adminCount).Error; err != nil {
		return err
	}
	if adminCount == 0 {
		password := viper.GetString("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := models.User{
			ID:          uuid.New().String(),
			Username:    "admin",
			Email:       "admin@example.com",
			Password:    string(hashed),
			IsSuperuser: true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		log.Printf("Seeded superuser: %s", admin.Username)
	}

	var categoryCount int64
	if err := db.Model(&models.Category{}).Count(&categoryCount).Error; err != nil {
		return err
	}
	if categoryCount > 0 {
		return nil
	}

	mains := models.Category{ID: uuid.New().String(), Slug: "mains", Title: "Mains"}
	desserts := models.Category{ID: uuid.New().String(), Slug: "desserts", Title: "Desserts"}
	for _, category := range []*models.Category{&mains, &desserts} {
		if err := db.Create(category).Error; err != nil {
			return err
		}
	}

	items := []models.MenuItem{
		{ID: uuid.New().String(), Title: "Greek Salad", Price: 12.00, Featured: true, CategoryID: mains.ID},
		{ID: uuid.New().String(), Title: "Bruschetta", Price: 8.50, CategoryID: mains.ID},
		{ID: uuid.New().String(), Title: "Lemon Dessert", Price: 5.00, CategoryID: desserts.ID},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			return err
		}
		log.Printf("Seeded menu item: %s", items[i].Title)
	}
	return nil
}
