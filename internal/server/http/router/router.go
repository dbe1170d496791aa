package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/auctionhouse/internal/server/http/handlers"
	"github.com/polkiloo/auctionhouse/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.AuctionHouseFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	auctionHandler := handlers.NewAuctionHandler(facade)
	bidHandler := handlers.NewBidHandler(facade)
	inboxHandler := handlers.NewInboxHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	requireAuth := middleware.AuthRequired(facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	userAuth := user.Group("")
	userAuth.Use(requireAuth)
	userAuth.GET("/pinned", auctionHandler.Pinned)
	userAuth.GET("/inbox", inboxHandler.Get)
	userAuth.POST("/inbox/read", inboxHandler.MarkRead)
	userAuth.GET("/orders", orderHandler.List)

	auctions := api.Group("/auctions")
	auctions.GET("", auctionHandler.List)
	auctions.GET("/:id", middleware.OptionalAuth(facade), auctionHandler.Get)
	auctions.GET("/:id/bids", bidHandler.List)
	auctions.POST("", requireAuth, auctionHandler.Create)
	auctions.POST("/:id/bids", requireAuth, bidHandler.Place)
	auctions.POST("/:id/pin", requireAuth, auctionHandler.Pin)
	auctions.DELETE("/:id/pin", requireAuth, auctionHandler.Unpin)

	orders := api.Group("/orders")
	orders.Use(requireAuth)
	orders.GET("/:number/invoice", orderHandler.Invoice)
	orders.POST("/:number/paid", orderHandler.MarkPaid)

	return engine
}
