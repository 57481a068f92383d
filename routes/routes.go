package routes

import (
	"github.com/Strmly-Technologies/Delivery-Page-sub000/controllers"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/middlewares"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/ws"

	"github.com/gin-gonic/gin"
)

// Deps carries the wired controllers into route registration so the
// router stays free of construction logic.
type Deps struct {
	JWTSecret string
	Hub       *ws.Hub

	Auth     *controllers.AuthController
	Products *controllers.ProductController
	Orders   *controllers.OrderController
	Plans    *controllers.PlanController
	Payment  *controllers.PaymentController
	Chef     *controllers.ChefController
	Courier  *controllers.CourierController
	Wallet   *controllers.WalletController
	Admin    *controllers.AdminController
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middlewares.CORSMiddleware())
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", d.Auth.Register)
		a.POST("/login", d.Auth.Login)
	}

	// Auth (protected)
	aAuth := a.Group("", middlewares.AuthMiddleware(d.JWTSecret))
	{
		aAuth.GET("/me", d.Auth.Me)
		aAuth.PATCH("/me", d.Auth.UpdateMe)
	}

	// Catalog and slot availability are public so the storefront can
	// render before login.
	r.GET("/products", d.Products.List)
	r.GET("/slots", d.Orders.Slots)

	// Customer
	u := r.Group("/", middlewares.AuthMiddleware(d.JWTSecret))
	{
		u.POST("/orders", d.Orders.Checkout)
		u.GET("/orders", d.Orders.ListForMe)
		u.GET("/orders/:id", d.Orders.Detail)
		u.POST("/orders/quote", d.Orders.Quote)

		u.GET("/plans/earliest-start", d.Plans.EarliestStart)
		u.POST("/plans", d.Plans.Create)
		u.GET("/plans", d.Plans.List)
		u.GET("/plans/:id", d.Plans.Detail)
		u.PATCH("/plans/days/:id/slot", d.Plans.UpdateDaySlot)

		u.POST("/payments/plans/:id/confirm", d.Payment.ConfirmPlanPayment)

		u.GET("/wallet", d.Wallet.Overview)
		u.POST("/wallet/withdrawals", d.Wallet.RequestWithdrawal)
	}

	// Kitchen (chef/admin)
	chef := r.Group("/chef", middlewares.AuthMiddleware(d.JWTSecret, entity.RoleChef, entity.RoleAdmin))
	{
		chef.GET("/queue", d.Chef.Queue) // ?date=
		chef.PATCH("/:kind/:id/received", d.Chef.MarkReceived)
		chef.PATCH("/:kind/:id/done", d.Chef.MarkDone)
		chef.PATCH("/:kind/:id/cancel", d.Chef.Cancel)
	}

	// Courier (courier/admin)
	courier := r.Group("/courier", middlewares.AuthMiddleware(d.JWTSecret, entity.RoleCourier, entity.RoleAdmin))
	{
		courier.GET("/jobs", d.Courier.Jobs) // ?limit=
		courier.PATCH("/:kind/:id/picked", d.Courier.MarkPicked)
		courier.PATCH("/:kind/:id/delivered", d.Courier.MarkDelivered)
		courier.PATCH("/:kind/:id/not-delivered", d.Courier.MarkNotDelivered)
	}

	// Admin only
	admin := r.Group("/admin", middlewares.AuthMiddleware(d.JWTSecret, entity.RoleAdmin))
	{
		admin.GET("/withdrawals", d.Admin.ListWithdrawals) // ?status=&limit=
		admin.PATCH("/withdrawals/:id/approve", d.Admin.ApproveWithdrawal)
		admin.PATCH("/withdrawals/:id/reject", d.Admin.RejectWithdrawal)
		admin.PATCH("/:kind/:id/cancel", d.Admin.Cancel)
		admin.GET("/orders/export", d.Admin.ExportOrders) // ?from=&to=
	}

	// Live status feed for storefront and staff dashboards.
	r.GET("/ws/status", middlewares.WSAuthMiddleware(d.JWTSecret), d.Hub.Handler)
}
