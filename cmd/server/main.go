package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vitaplan/health-app/internal/ai"
	"vitaplan/health-app/internal/api"
	"vitaplan/health-app/internal/config"
	"vitaplan/health-app/internal/notify"
	mongorepo "vitaplan/health-app/internal/repository/mongo"
	"vitaplan/health-app/internal/service"
	"vitaplan/health-app/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("FATAL: jwt.secret must be configured")
	}

	client, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongorepo.DisconnectDB(client); err != nil {
			log.Printf("WARN: Error disconnecting MongoDB: %v", err)
		}
	}()
	db := client.Database(cfg.Database.Name)
	log.Printf("INFO: Connected to MongoDB database %q", cfg.Database.Name)

	// Index creation can take a moment on a fresh database; don't hold up
	// startup for it.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		mongorepo.EnsureAllIndexes(ctx, db)
		log.Println("INFO: MongoDB indexes ensured")
	}()

	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3)
		cancel()
		if err != nil {
			log.Fatalf("FATAL: Could not initialize object storage: %v", err)
		}
		log.Printf("INFO: Object storage ready (bucket %q)", cfg.S3.BucketName)
	} else {
		log.Println("WARN: s3.bucket_name not set; progress photos disabled")
	}

	var publisher notify.Publisher
	if cfg.Redis.Address != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		publisher, err = notify.NewRedisPublisher(ctx, cfg.Redis)
		cancel()
		if err != nil {
			// Notifications still land in Mongo; only the real-time fan-out
			// is lost.
			log.Printf("WARN: Redis unavailable, notification events disabled: %v", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	userRepo := mongorepo.NewMongoUserRepository(db)
	profileRepo := mongorepo.NewMongoProfileRepository(db)
	mealPlanRepo := mongorepo.NewMongoMealPlanRepository(db)
	workoutPlanRepo := mongorepo.NewMongoWorkoutPlanRepository(db)
	templateRepo := mongorepo.NewMongoMealTemplateRepository(db)
	exerciseRepo := mongorepo.NewMongoExerciseRepository(db)
	progressRepo := mongorepo.NewMongoProgressRepository(db)
	feedbackRepo := mongorepo.NewMongoFeedbackRepository(db)
	notificationRepo := mongorepo.NewMongoNotificationRepository(db)

	generator := ai.NewOpenRouterClient(cfg.AI)

	authService := service.NewAuthService(userRepo, cfg.JWT)
	profileService := service.NewProfileService(profileRepo)
	notificationService := service.NewNotificationService(notificationRepo, publisher)
	lifecycleService := service.NewLifecycleService(mealPlanRepo, workoutPlanRepo, progressRepo, feedbackRepo, profileRepo, notificationService)
	progressService := service.NewProgressService(progressRepo, mealPlanRepo, workoutPlanRepo, templateRepo, exerciseRepo, lifecycleService, fileStorage)
	plannerService := service.NewPlannerService(profileRepo, mealPlanRepo, workoutPlanRepo, templateRepo, exerciseRepo, generator, notificationService)

	router := api.SetupRouter(cfg, authService, profileService, plannerService, progressService, lifecycleService, notificationService)

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		log.Printf("INFO: Server listening on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}
	log.Println("INFO: Server exited")
}
