package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/payalife/lms-backend/internal/api"
	"github.com/payalife/lms-backend/internal/api/handlers"
	"github.com/payalife/lms-backend/internal/auth"
	"github.com/payalife/lms-backend/internal/config"
	"github.com/payalife/lms-backend/internal/db"
	"github.com/payalife/lms-backend/internal/gateway"
	"github.com/payalife/lms-backend/internal/logger"
	"github.com/payalife/lms-backend/internal/metrics"
	"github.com/payalife/lms-backend/internal/middleware"
	"github.com/payalife/lms-backend/internal/pdf"
	"github.com/payalife/lms-backend/internal/repository/postgres"
	"github.com/payalife/lms-backend/internal/services"
	"github.com/payalife/lms-backend/internal/sms"
	"github.com/payalife/lms-backend/internal/upload"
	"github.com/payalife/lms-backend/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Migrate {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	tokens := auth.NewTokenManager(cfg.SessionSecret, cfg.SessionTTL)

	var sender sms.Sender
	if cfg.OTPDebug || cfg.SMSAPIKey == "" {
		sender = sms.NewConsoleSender(log)
	} else {
		sender = sms.NewKavenegarSender(cfg.SMSAPIKey, cfg.SMSSender, cfg.PaymentTimeout)
	}
	gw := gateway.NewZarinpal(cfg.MerchantID, cfg.GatewaySandbox, cfg.PaymentTimeout)

	uploads, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		log.Error("upload dir", "err", err)
		os.Exit(1)
	}

	otpSvc := services.NewOTPService(repos.OTPCodes, sender, log)
	authSvc := services.NewAuthService(repos.Users, repos.Sessions, otpSvc, tokens, log)
	paymentSvc := services.NewPaymentService(repos.Transactions, gw, cfg.BaseURL, cfg.CallbackURL, log)
	courseSvc := services.NewCourseService(repos.Courses, repos.Lessons, repos.Categories, repos.Enrollments, paymentSvc, log)
	progressSvc := services.NewProgressService(repos.Lessons, repos.Enrollments, repos.Progress, repos.Certificates, log)
	renderer := pdf.NewCertificateRenderer(cfg.BaseURL)
	certSvc := services.NewCertificateService(repos.Certificates, renderer)
	userSvc := services.NewUserService(repos.Users, repos.Courses, repos.Enrollments)
	instructorSvc := services.NewInstructorService(repos.InstructorRequests, repos.Courses, repos.Lessons, repos.Categories, repos.Enrollments, log)
	adminSvc := services.NewAdminService(repos.Users, repos.Courses, repos.Categories, repos.Enrollments, repos.Transactions, repos.InstructorRequests, log)

	metrics.Init()
	authMW := middleware.NewAuthMiddleware(authSvc)
	secureCookies := cfg.Env != "dev"
	router := api.NewRouter(cfg, api.Handlers{
		Auth:        handlers.NewAuthHandler(authSvc, otpSvc, secureCookies, log),
		Courses:     handlers.NewCourseHandler(courseSvc, log),
		Payment:     handlers.NewPaymentHandler(paymentSvc, log),
		Progress:    handlers.NewProgressHandler(progressSvc, log),
		Certificate: handlers.NewCertificateHandler(certSvc, log),
		Me:          handlers.NewMeHandler(userSvc, certSvc, uploads, log),
		Instructor:  handlers.NewInstructorHandler(instructorSvc, log),
		Admin:       handlers.NewAdminHandler(adminSvc, log),
	}, authMW)

	sweeper := worker.NewSweeper(repos.Transactions, cfg.TxnSweepMaxAge, log)
	go sweeper.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
