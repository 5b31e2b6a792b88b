package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"gigstage/internal/adapter/api"
	"gigstage/internal/adapter/api/handler"
	apimiddleware "gigstage/internal/adapter/api/middleware"
	"gigstage/internal/adapter/api/router"
	"gigstage/internal/adapter/repository"
	"gigstage/internal/domain/service"
	"gigstage/internal/event"
	"gigstage/internal/infrastructure/firebase"
	"gigstage/internal/infrastructure/ratelimit"
	"gigstage/internal/infrastructure/storage"
	"gigstage/internal/infrastructure/websocket"
	"gigstage/internal/notification"
	"gigstage/internal/usecase"
	"gigstage/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	serviceAccountPath := ""

	// Service account from environment variable (production) or file
	// path (local development).
	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		serviceAccountPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./service-account.json"
		}

		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}

		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, serviceAccountPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	performerRepo := repository.NewFirestorePerformerRepository(firestoreClient)
	availabilityRepo := repository.NewFirestoreAvailabilityRepository(firestoreClient)
	bookingRepo := repository.NewFirestoreBookingRepository(firestoreClient)
	marketRepo := repository.NewFirestoreMarketRepository(firestoreClient)
	reviewRepo := repository.NewFirestoreReviewRepository(firestoreClient)
	ledgerRepo := repository.NewFirestoreLedgerRepository(firestoreClient)
	subscriptionRepo := repository.NewFirestoreSubscriptionRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	bus := event.NewBus()

	var notifier notification.Notifier
	if cfg.SMTPHost != "" {
		notifier = notification.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	} else {
		notifier = notification.NewLogNotifier()
	}
	dispatcher := notification.NewDispatcher(notifier, userRepo, performerRepo, cfg.AdminEmail)
	dispatcher.Register(bus)

	eventPusher := websocket.NewEventPusher(wsManager)
	eventPusher.Register(bus)

	bus.Start(ctx)

	authorizer := service.NewRolePolicy(userRepo, performerRepo)

	var paymentService service.PaymentGatewayService
	if cfg.MidtransServerKey != "" {
		isProduction := cfg.MidtransEnvironment == "production"
		paymentService = service.NewMidtransPaymentService(cfg.MidtransServerKey, cfg.MidtransClientKey, isProduction)
	} else {
		log.Printf("No payment gateway configured, using simulated service")
		paymentService = service.NewSimulatedPaymentService(cfg.MidtransServerKey)
	}

	authUsecase := usecase.NewAuthUsecase(userRepo, firebaseAuthClient, cfg)
	availabilityUsecase := usecase.NewAvailabilityUsecase(availabilityRepo, performerRepo)
	performerUsecase := usecase.NewPerformerUsecase(performerRepo, userRepo, authorizer, storageClient, cfg)
	bookingUsecase := usecase.NewBookingUsecase(bookingRepo, performerRepo, userRepo, ledgerRepo, availabilityUsecase, paymentService, performerUsecase, bus, cfg)
	marketUsecase := usecase.NewMarketUsecase(marketRepo, performerRepo, availabilityUsecase, authorizer, bookingUsecase, bus, cfg)
	reviewUsecase := usecase.NewReviewUsecase(reviewRepo, bookingRepo, performerRepo, authorizer, performerUsecase, bus)
	subscriptionUsecase := usecase.NewSubscriptionUsecase(subscriptionRepo, performerRepo, userRepo, paymentService, bus, cfg)
	chatUsecase := usecase.NewChatUsecase(chatRepo, bookingRepo, performerRepo, bus)

	handler.Setup(authUsecase, performerUsecase, bookingUsecase, marketUsecase, reviewUsecase, availabilityUsecase, subscriptionUsecase, chatUsecase)
	handler.SetupHealthHandler(firebaseAuthClient)
	handler.SetupWebSocketHandler(wsManager)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine()

	router.Setup(e, authMiddleware, adminMiddleware, limiter, cfg.Environment)

	scheduler := usecase.NewScheduler(bookingUsecase, marketUsecase, subscriptionUsecase)
	scheduler.Start(ctx)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
