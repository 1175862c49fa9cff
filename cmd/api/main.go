package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	respcache "credit-scoring-backend/internal/adapter/cache"
	httpadp "credit-scoring-backend/internal/adapter/http"
	mw "credit-scoring-backend/internal/adapter/middleware"
	"credit-scoring-backend/internal/adapter/repository/mysql"
	"credit-scoring-backend/internal/config"
	"credit-scoring-backend/internal/infrastructure/cache"
	"credit-scoring-backend/internal/infrastructure/db"
	authuc "credit-scoring-backend/internal/usecase/auth"
	loanuc "credit-scoring-backend/internal/usecase/loan"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	loans := mysql.NewLoanRepository(gdb)
	users := mysql.NewUserRepository(gdb)

	loanUC := loanuc.NewUsecase(loans, nil, log)
	authUC := authuc.NewUsecase(users, cfg.JWTSecret, time.Duration(cfg.JWTExpiryMinutes)*time.Minute, log)

	h := httpadp.NewHandler()
	loanH := httpadp.NewLoanHandler(loanUC)
	adminH := httpadp.NewAdminHandler(loanUC)
	authH := httpadp.NewAuthHandler(authUC)

	authn := mw.NewAuthMiddleware(users, cfg.JWTSecret)
	idemp := mw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)

	auth := e.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/create-admin", authH.CreateAdmin)
	auth.POST("/token", authH.Token)
	auth.GET("/me", authH.Me, authn.Authenticate)

	loansG := e.Group("/loans", authn.Authenticate)
	loansG.POST("/apply", loanH.Apply, idemp)
	loansG.GET("/my-loans", loanH.MyLoans)
	loansG.GET("/status-history/:loan_id", loanH.StatusHistory)
	loansG.GET("/:loan_id", loanH.GetLoan)
	loansG.PATCH("/:loan_id/status", loanH.UpdateStatus, idemp)

	admin := e.Group("/admin", authn.Authenticate, mw.RequireAdmin)
	admin.GET("/loans", adminH.ListLoans,
		respcache.ResponseCache(rdb, time.Duration(cfg.AdminCacheSecs)*time.Second))
	admin.GET("/loans/:loan_id", adminH.GetLoan)
	admin.PATCH("/loans/:loan_id/review", adminH.Review, idemp)
	admin.POST("/loans/:loan_id/calculate-score", adminH.CalculateScore)
	admin.GET("/loans/:loan_id/score-details", adminH.ScoreDetails)
	admin.GET("/stats", adminH.Stats)

	addr := ":" + cfg.AppPort
	log.Infof("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
