package routes

import (
	"github.com/Dhallagan/indieout-marketplace-sub001/configs"
	"github.com/Dhallagan/indieout-marketplace-sub001/controllers"
	"github.com/Dhallagan/indieout-marketplace-sub001/middlewares"
	"github.com/Dhallagan/indieout-marketplace-sub001/repository"
	"github.com/Dhallagan/indieout-marketplace-sub001/services"
	"github.com/Dhallagan/indieout-marketplace-sub001/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *configs.Config) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Repositories
	userRepo := repository.NewUserRepository(db)
	guestRepo := repository.NewGuestRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Event hub (satisfies services.OrderNotifier)
	hub := ws.NewOrderHub(storeRepo)
	go hub.Run()

	// Services
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	catalogSvc := services.NewCatalogService(storeRepo, productRepo, catalogRepo)
	addressSvc := services.NewAddressService(addressRepo)
	cartSvc := services.NewCartService(db, cartRepo, productRepo, guestRepo)
	orderSvc := services.NewOrderService(db, orderRepo, storeRepo, hub)
	checkoutSvc := services.NewCheckoutService(db, orderRepo, cartRepo, productRepo, userRepo, hub)
	paymentSvc := services.NewPaymentService(db, orderRepo, userRepo, orderSvc,
		cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc)
	catalogCtrl := controllers.NewCatalogController(catalogSvc)
	addressCtrl := controllers.NewAddressController(addressSvc)
	cartCtrl := controllers.NewCartController(cartSvc)
	orderCtrl := controllers.NewOrderController(checkoutSvc, orderSvc)
	guestCtrl := controllers.NewGuestOrderController(checkoutSvc)
	paymentCtrl := controllers.NewPaymentController(paymentSvc)
	sellerCtrl := controllers.NewSellerOrderController(orderSvc)

	auth := middlewares.AuthMiddleware(cfg.JWTSecret)
	sellerAuth := middlewares.AuthMiddleware(cfg.JWTSecret, "seller", "admin")

	// Auth
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
	}
	aAuth := a.Group("", auth)
	{
		aAuth.GET("/me", authCtrl.Me)
		aAuth.PATCH("/me", authCtrl.UpdateMe)
	}

	// Public storefront
	r.GET("/stores", catalogCtrl.Stores)
	r.GET("/stores/:slug", catalogCtrl.StoreBySlug)
	r.GET("/categories", catalogCtrl.Categories)
	r.GET("/banners", catalogCtrl.Banners)
	r.GET("/products", catalogCtrl.Products)
	r.GET("/products/:id", catalogCtrl.Product)

	// Cart — works for both logged-in users and guests (X-Guest-Token)
	cart := r.Group("/cart", middlewares.OptionalAuthMiddleware(cfg.JWTSecret))
	{
		cart.GET("", cartCtrl.Get)
		cart.POST("/items", cartCtrl.Add)
		cart.PATCH("/items/:id", cartCtrl.UpdateQty)
		cart.DELETE("/items/:id", cartCtrl.RemoveItem)
		cart.DELETE("", cartCtrl.Clear)
	}

	// Guest checkout + lookup (no auth)
	r.POST("/guest/orders", guestCtrl.Create)
	r.GET("/orders/by_number/:order_number", orderCtrl.ByNumber)

	// Buyer orders
	u := r.Group("", auth)
	{
		u.POST("/orders", orderCtrl.Create)
		u.GET("/orders", orderCtrl.ListForMe)
		u.GET("/orders/:id", orderCtrl.Detail)
		u.PATCH("/orders/:id/cancel", orderCtrl.Cancel)

		u.GET("/addresses", addressCtrl.List)
		u.POST("/addresses", addressCtrl.Create)
		u.DELETE("/addresses/:id", addressCtrl.Delete)

		u.POST("/payments/create_intent", paymentCtrl.CreateIntent)
		u.POST("/payments/confirm", paymentCtrl.Confirm)
	}

	// Processor webhook — authenticated by signature, not JWT
	r.POST("/payments/webhook", paymentCtrl.Webhook)

	// Seller
	seller := r.Group("/seller", sellerAuth)
	{
		seller.GET("/stores/:id/orders", sellerCtrl.List)
		seller.GET("/stores/:id/orders/:oid", sellerCtrl.Detail)
		seller.PATCH("/orders/:id/fulfill", sellerCtrl.Fulfill)
		seller.PATCH("/orders/:id/update_status", sellerCtrl.UpdateStatus)
		seller.POST("/products", catalogCtrl.CreateProduct)
		seller.PATCH("/products/:id", catalogCtrl.UpdateProduct)
	}

	// Order event stream for sellers
	r.GET("/ws/stores/:id/orders", middlewares.WSAuthMiddleware(cfg.JWTSecret), hub.HandleWebSocket)
}
