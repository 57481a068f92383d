package main

import (
	"fmt"
	"log"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/configs"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/controllers"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/repository"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/routes"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/services"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := configs.LoadConfig()

	// DB
	configs.ConnectionDB(cfg)
	db := configs.DB()

	// migrate
	configs.SetupDatabase()

	if err := configs.SeedAdmin(); err != nil {
		log.Fatalf("seed admin failed: %v", err)
	}
	if err := configs.SeedProducts(); err != nil {
		log.Fatalf("seed products failed: %v", err)
	}

	pricing, err := cfg.Pricing()
	if err != nil {
		log.Fatalf("delivery pricing config: %v", err)
	}
	slotCfg := cfg.SlotConfig()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	planRepo := repository.NewPlanRepository(db)
	unitRepo := repository.NewFulfillmentRepository(db)
	walletRepo := repository.NewWalletRepository(db)

	// Live status hub plus a log sink for operators tailing the process.
	hub := ws.NewHub()
	notifier := services.MultiNotifier{services.LogNotifier{}, hub}

	// Services
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	walletSvc := services.NewWalletService(db, walletRepo, userRepo, notifier)
	orderSvc := services.NewOrderService(db, orderRepo, productRepo, walletSvc, pricing, slotCfg, notifier)
	planSvc := services.NewPlanService(db, planRepo, orderRepo, productRepo, pricing, slotCfg, notifier)
	scheduleSvc := services.NewScheduleService(db, orderRepo)
	fulfillSvc := services.NewFulfillmentService(db, unitRepo, orderRepo, walletSvc, notifier)

	// HTTP
	r := gin.Default()
	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret: cfg.JWTSecret,
		Hub:       hub,
		Auth:      controllers.NewAuthController(authSvc),
		Products:  controllers.NewProductController(productRepo),
		Orders:    controllers.NewOrderController(orderSvc),
		Plans:     controllers.NewPlanController(planSvc, scheduleSvc),
		Payment:   controllers.NewPaymentController(planSvc),
		Chef:      controllers.NewChefController(fulfillSvc),
		Courier:   controllers.NewCourierController(fulfillSvc),
		Wallet:    controllers.NewWalletController(walletSvc),
		Admin:     controllers.NewAdminController(walletSvc, fulfillSvc, orderRepo),
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Println("server running at", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
