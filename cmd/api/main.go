package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/wltlabs/staffhub/internal/api/http"
	"github.com/wltlabs/staffhub/internal/api/http/handlers"
	"github.com/wltlabs/staffhub/internal/auth"
	"github.com/wltlabs/staffhub/internal/config"
	"github.com/wltlabs/staffhub/internal/events"
	"github.com/wltlabs/staffhub/internal/observability"
	"github.com/wltlabs/staffhub/internal/persistence"
	"github.com/wltlabs/staffhub/internal/realtime"
	"github.com/wltlabs/staffhub/internal/repository"
	"github.com/wltlabs/staffhub/internal/service"
	"github.com/wltlabs/staffhub/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redisStore := persistence.NewRedis(cfg.Redis, logger)
	defer redisStore.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	conversationRepo := repository.NewConversationRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	leaveRepo := repository.NewLeaveRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	payrollRepo := repository.NewPayrollRepository(pool)
	kycRepo := repository.NewKYCRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	directory := service.NewDirectory(userRepo, teamRepo)
	permissions := service.NewPermissionEvaluator(directory)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(*cfg, userRepo)
	teamService := service.NewTeamService(teamRepo, userRepo)
	conversationService := service.NewConversationService(conversationRepo, permissions, directory)
	messageService := service.NewMessageService(messageRepo, conversationRepo, permissions, dispatcher)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, dispatcher, redisStore.ClientHandle(), logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, teamRepo, logger)
	leaveService := service.NewLeaveService(leaveRepo, teamRepo, dispatcher)
	taskService := service.NewTaskService(taskRepo, userRepo, dispatcher)
	projectService := service.NewProjectService(projectRepo, teamRepo, userRepo)
	payrollService := service.NewPayrollService(payrollRepo, userRepo)
	kycService := service.NewKYCService(kycRepo, userRepo)
	documentService := service.NewDocumentService(documentRepo, userRepo)

	notificationService.RegisterHandlers()

	hub := realtime.NewHub(redisStore.ClientHandle(), logger)
	realtime.NewSubscriber(hub).Attach(dispatcher)

	punchOutWorker := worker.NewPunchOutWorker(attendanceService, cfg.Attendance, logger)
	stopWorker, err := punchOutWorker.Start(ctx)
	if err != nil {
		logger.Fatal("failed to start punch-out worker", zap.Error(err))
	}
	defer stopWorker()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Teams:          handlers.NewTeamsHandler(teamService),
		Chat:           handlers.NewChatHandler(permissions, conversationService, messageService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Attendance:     handlers.NewAttendanceHandler(attendanceService),
		Leaves:         handlers.NewLeavesHandler(leaveService),
		Tasks:          handlers.NewTasksHandler(taskService),
		Projects:       handlers.NewProjectsHandler(projectService),
		Payroll:        handlers.NewPayrollHandler(payrollService),
		KYC:            handlers.NewKYCHandler(kycService),
		Documents:      handlers.NewDocumentsHandler(documentService),
		WS:             handlers.NewWSHandler(authMiddleware, hub, logger),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
