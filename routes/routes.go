package routes

import (
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/configs"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/controllers"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/middlewares"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/gateway"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/pkg/notify"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/repository"
	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func RegisterRoutes(r *gin.Engine, cfg *configs.Config, log zerolog.Logger) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	db := configs.DB()

	// Repositories
	cartRepo := repository.NewCartRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	webhookRepo := repository.NewWebhookRepository(db)

	// Shared infrastructure
	dispatcher := notify.NewAsyncDispatcher(notify.LogSink{Log: log}, log)
	gw := gateway.New(cfg.Gateway)

	// Services
	couponSvc := services.NewCouponService(db, couponRepo)
	cartSvc := services.NewCartService(db, cartRepo, catalogRepo, couponSvc)
	paymentSvc := services.NewPaymentService(db, orderRepo, webhookRepo, gw, cfg.Gateway, dispatcher, log)
	checkoutSvc := services.NewCheckoutService(db, orderRepo, cartRepo, catalogRepo, paymentSvc, dispatcher, log)
	orderSvc := services.NewOrderService(db, orderRepo, cartRepo, catalogRepo, dispatcher, log)
	assignmentSvc := services.NewAssignmentService(db, orderRepo, deliveryRepo, catalogRepo, log)
	deliverySvc := services.NewDeliveryService(db, deliveryRepo, orderRepo, dispatcher, log)

	// Controllers
	cartCtrl := controllers.NewCartController(cartSvc)
	orderCtrl := controllers.NewOrderController(checkoutSvc, orderSvc)
	ownerCtrl := controllers.NewOwnerOrderController(orderSvc, assignmentSvc)
	partnerCtrl := controllers.NewPartnerController(assignmentSvc, deliverySvc, deliveryRepo)
	paymentCtrl := controllers.NewPaymentController(paymentSvc)
	couponCtrl := controllers.NewCouponController(couponSvc)
	addressCtrl := controllers.NewAddressController(catalogRepo)

	auth := func(roles ...entity.Role) gin.HandlerFunc {
		return middlewares.AuthMiddleware(cfg.JWTSecret, roles...)
	}

	// Gateway callbacks (public; signed payloads only)
	r.POST("/payments/webhook", paymentCtrl.Webhook)

	// Cart (customer)
	cart := r.Group("/cart", auth(entity.RoleCustomer, entity.RoleAdmin))
	{
		cart.POST("/items", cartCtrl.Add)
		cart.GET("", cartCtrl.List)
		cart.PATCH("/items/:id", cartCtrl.Update)
		cart.DELETE("/items/:id", cartCtrl.Remove)
		cart.POST("/coupon", cartCtrl.ApplyCoupon)
		cart.DELETE("/coupon", cartCtrl.RemoveCoupon)
	}

	// Address book (customer)
	addresses := r.Group("/addresses", auth(entity.RoleCustomer))
	{
		addresses.POST("", addressCtrl.Create)
		addresses.GET("", addressCtrl.List)
	}

	// Orders (customer)
	orders := r.Group("/orders", auth(entity.RoleCustomer))
	{
		orders.POST("/checkout", orderCtrl.CheckoutCart)
		orders.GET("", orderCtrl.ListForMe)
		orders.GET("/:id", orderCtrl.Detail)
		orders.POST("/:id/cancel", orderCtrl.Cancel)
		orders.DELETE("/finalized", orderCtrl.CleanupFinalized)
	}

	// Payments (customer)
	payments := r.Group("/payments", auth(entity.RoleCustomer))
	{
		payments.GET("/orders/:id/context", paymentCtrl.Context)
		payments.POST("/orders/:id/reconcile", paymentCtrl.Reconcile)
	}

	// Restaurant owner
	owner := r.Group("/owner", auth(entity.RoleRestaurantOwner, entity.RoleAdmin))
	{
		owner.GET("/restaurants/:id/orders", ownerCtrl.ListForRestaurant)
		owner.PATCH("/orders/:id/confirm", ownerCtrl.Confirm)
		owner.POST("/orders/:id/assign-partner", ownerCtrl.AssignPartner)
	}

	// Delivery partner
	partner := r.Group("/partner", auth(entity.RoleDeliveryPartner))
	{
		partner.POST("/assignments", partnerCtrl.AssignToPerson)
		partner.GET("/persons", partnerCtrl.ListPersons)
	}

	// Delivery status updates (person or partner acting for one)
	r.PATCH("/partner/delivery-status",
		auth(entity.RoleDeliveryPerson, entity.RoleDeliveryPartner),
		partnerCtrl.UpdateDeliveryStatus)

	// Admin
	admin := r.Group("/admin", auth(entity.RoleAdmin))
	{
		admin.POST("/coupons", couponCtrl.Create)
		admin.DELETE("/coupons/:id", couponCtrl.Delete)
		admin.POST("/partners", partnerCtrl.CreatePartner)
		admin.POST("/persons", partnerCtrl.CreatePerson)
	}
}
