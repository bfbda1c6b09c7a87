package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "garantia-backend/internal/adapter/http"
	axmw "garantia-backend/internal/adapter/middleware"
	"garantia-backend/internal/adapter/repository/mysql"
	"garantia-backend/internal/authz"
	"garantia-backend/internal/config"
	"garantia-backend/internal/domain/audit"
	domain "garantia-backend/internal/domain/guarantee"
	"garantia-backend/internal/infrastructure/cache"
	"garantia-backend/internal/infrastructure/db"
	"garantia-backend/internal/notify"
	"garantia-backend/internal/scheduler"
	ucGuarantee "garantia-backend/internal/usecase/guarantee"
	ucTransition "garantia-backend/internal/usecase/transition"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := gdb.AutoMigrate(&domain.Guarantee{}, &audit.Entry{}); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	// Notification dispatch: after-commit, at-least-once, never blocks a transition.
	senders := []notify.Sender{notify.LogSender{}}
	if cfg.SendGridAPIKey != "" {
		senders = append(senders, notify.NewEmailSender(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName, cfg.EmailOpsTo))
	}
	dispatcher := notify.NewDispatcher(256, senders...)
	dispatcher.Start()
	defer dispatcher.Stop()

	guard := authz.NewGuard()
	repo := mysql.NewGuaranteeRepository(gdb)
	audits := mysql.NewAuditRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	guaranteeUC := ucGuarantee.NewUsecase(guard, repo, audits, tx)
	transitionUC := ucTransition.NewUsecase(guard, tx, dispatcher)

	sched := scheduler.New(repo, transitionUC, cfg.ExpirySweepSpec)
	if err := sched.Start(); err != nil {
		log.Fatal(err)
	}
	defer sched.Stop()

	h := httpadp.NewHandler()
	gh := httpadp.NewGuaranteeHandler(guaranteeUC)
	th := httpadp.NewTransitionHandler(transitionUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	e.GET("/health", h.Health)

	idemp := axmw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	g := e.Group("/guarantees")
	g.POST("", gh.CreateGuarantee, idemp)
	g.GET("/:guarantee_id", gh.GetGuarantee)
	g.GET("/:guarantee_id/history", gh.GetHistory)

	g.POST("/:guarantee_id/review", th.StartReview, idemp)
	g.POST("/:guarantee_id/approve", th.Approve, idemp)
	g.POST("/:guarantee_id/reject", th.Reject, idemp)
	g.POST("/:guarantee_id/forward-finance", th.ForwardToFinance, idemp)
	g.POST("/:guarantee_id/acknowledge", th.AcknowledgeFinance, idemp)
	g.POST("/:guarantee_id/payment-link", th.IssuePaymentLink, idemp)
	g.POST("/:guarantee_id/proof", th.SubmitProof, idemp)
	g.POST("/:guarantee_id/confirm-payment", th.ConfirmPayment, idemp)
	g.POST("/:guarantee_id/request-signature", th.RequestSignature, idemp)
	g.POST("/:guarantee_id/activate", th.Activate, idemp)
	g.POST("/:guarantee_id/cancel", th.Cancel, idemp)
	g.POST("/:guarantee_id/override", th.Override, idemp)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
