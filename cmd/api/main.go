package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"educrm/internal/config"
	"educrm/internal/database"
	"educrm/internal/middleware"
	"educrm/internal/modules/assignment"
	"educrm/internal/modules/auth"
	"educrm/internal/modules/chat"
	"educrm/internal/modules/conversion"
	"educrm/internal/modules/document"
	"educrm/internal/modules/lead"
	"educrm/internal/modules/notification"
	jwtsvc "educrm/internal/pkg/jwt"
	"educrm/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	conversionRepo := repository.NewConversionRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	chatRepo := repository.NewChatRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	notificationService := notification.NewService(notificationRepo, userRepo)
	notificationHandler := notification.NewHandler(notificationService)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	leadService := lead.NewService(leadRepo, serviceRepo, orgRepo, userRepo)
	leadHandler := lead.NewHandler(leadService)

	assignmentService := assignment.NewService(leadRepo, registrationRepo, userRepo, notificationService)
	assignmentHandler := assignment.NewHandler(assignmentService)

	conversionService := conversion.NewService(leadRepo, conversionRepo, userRepo, studentRepo, registrationRepo, notificationService)
	conversionHandler := conversion.NewHandler(conversionService)

	store := document.NewDiskStore(cfg.UploadsDir, cfg.StaticBase, cfg.MaxUploadMB*1024*1024)
	documentService := document.NewService(documentRepo, registrationRepo, studentRepo, store, notificationService)
	documentHandler := document.NewHandler(documentService)

	chatService := chat.NewService(chatRepo, leadRepo, registrationRepo, studentRepo, userRepo)
	chatHandler := chat.NewHandler(chatService)

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())
	r.Static(cfg.StaticBase, cfg.UploadsDir)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		leadHandler.RegisterPublicRoutes(v1)

		// any authenticated account
		authed := v1.Group("/")
		authed.Use(middleware.Auth(j))
		{
			authHandler.RegisterRoutes(authed)
			documentHandler.RegisterRoutes(authed)
			chatHandler.RegisterRoutes(authed)
			notificationHandler.RegisterRoutes(authed)

			// staff surfaces; per-entity checks run in the services
			staff := authed.Group("/")
			staff.Use(middleware.StaffOnly())
			{
				leadHandler.RegisterStaffRoutes(staff)
				assignmentHandler.RegisterRoutes(staff)
				conversionHandler.RegisterRoutes(staff)
			}
		}
	}

	log.Printf("listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
