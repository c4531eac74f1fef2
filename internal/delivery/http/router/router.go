// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	httpmiddleware "storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"
	deliverymiddleware "storefront/internal/delivery/middleware"
	"storefront/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler         *handler.UserHandler
	ProductHandler      *handler.ProductHandler
	CartHandler         *handler.CartHandler
	GuestSessionHandler *handler.GuestSessionHandler
	OrderHandler        *handler.OrderHandler
	ReviewHandler       *handler.ReviewHandler
	BlogHandler         *handler.BlogHandler

	AuthMiddleware      *httpmiddleware.AuthMiddleware
	ErrorMiddleware     *httpmiddleware.ErrorMiddleware
	RequestIDMiddleware *deliverymiddleware.RequestIDMiddleware
	LoggerMiddleware    *deliverymiddleware.LoggerMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	auth := r.params.AuthMiddleware
	requireMerchant := auth.RequireRole(entity.RoleMerchant.String())

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register/user", r.params.UserHandler.RegisterUser)
		authGroup.POST("/register/merchant", r.params.UserHandler.RegisterMerchant)
		authGroup.POST("/login", r.params.UserHandler.Login)
		authGroup.POST("/refresh", r.params.UserHandler.RefreshToken)
		authGroup.POST("/logout", r.params.UserHandler.Logout)
		authGroup.POST("/password-reset/request", r.params.UserHandler.RequestPasswordReset)
		authGroup.POST("/password-reset/confirm", r.params.UserHandler.ConfirmPasswordReset)

		authGroup.POST("/logout-all", r.params.UserHandler.LogoutAllDevices, auth.Authenticate)
		authGroup.GET("/sessions", r.params.UserHandler.GetActiveSessions, auth.Authenticate)
		authGroup.DELETE("/sessions/:id", r.params.UserHandler.RevokeSession, auth.Authenticate)
	}

	// Google OAuth routes
	oauthGroup := e.Group("/oauth")
	{
		oauthGroup.GET("/google", r.params.UserHandler.GoogleLogin)
		oauthGroup.GET("/google/callback", r.params.UserHandler.GoogleCallback)
		oauthGroup.POST("/google/callback", r.params.UserHandler.GoogleCallback)

		oauthGroup.POST("/google/link", r.params.UserHandler.LinkGoogleAccount, auth.Authenticate)
		oauthGroup.DELETE("/google/link", r.params.UserHandler.UnlinkGoogleAccount, auth.Authenticate)
	}

	// Catalog routes; writes require the merchant role
	e.GET("/products", r.params.ProductHandler.ListProducts)
	e.GET("/products/:id", r.params.ProductHandler.GetProduct)
	e.POST("/products", r.params.ProductHandler.CreateProduct, auth.Authenticate, requireMerchant)
	e.PUT("/products/:id", r.params.ProductHandler.UpdateProduct, auth.Authenticate, requireMerchant)
	e.POST("/products/:id/image", r.params.ProductHandler.UploadProductImage, auth.Authenticate, requireMerchant)
	e.GET("/products/:id/reviews", r.params.ReviewHandler.GetProductReviews)
	e.POST("/products/:id/reviews", r.params.ReviewHandler.CreateReview, auth.Authenticate)

	// Editorial content routes; writes require the merchant role
	e.GET("/posts", r.params.BlogHandler.ListPublishedPosts)
	e.GET("/posts/:slug", r.params.BlogHandler.GetPostBySlug)
	e.POST("/posts", r.params.BlogHandler.CreatePost, auth.Authenticate, requireMerchant)
	e.PUT("/posts/:slug", r.params.BlogHandler.UpdatePost, auth.Authenticate, requireMerchant)

	// Guest session routes
	e.POST("/guest/session", r.params.GuestSessionHandler.CreateSession)

	// Authenticated cart routes. The optional authentication lets a request
	// that carries no token fall back to its X-Guest-Token header.
	r.registerCartRoutes(e.Group("/cart", auth.AuthenticateOptional))

	// Guest mirror of the cart surface; no token is ever consulted, the
	// X-Guest-Token header alone names the owner.
	r.registerCartRoutes(e.Group("/guest/cart"))

	// Order routes. The order number acts as a bearer capability, so single
	// order retrieval stays public for guest checkouts.
	e.POST("/orders", r.params.OrderHandler.CreateOrder, auth.AuthenticateOptional)
	e.GET("/orders", r.params.OrderHandler.ListUserOrders, auth.Authenticate)
	e.GET("/orders/:number", r.params.OrderHandler.GetOrderByNumber)
	e.GET("/orders/:number/qrcode", r.params.OrderHandler.GetOrderQRCode)
}

func (r *router) registerCartRoutes(cartGroup *echo.Group) {
	cartGroup.GET("", r.params.CartHandler.GetCart)
	// Deleting the cart removes the row itself; clearing only empties it.
	cartGroup.DELETE("", r.params.CartHandler.DeleteCart)
	cartGroup.DELETE("/items", r.params.CartHandler.ClearCart)
	cartGroup.POST("/items", r.params.CartHandler.AddItem)
	cartGroup.PUT("/items/:productId", r.params.CartHandler.SetItemQuantity)
	cartGroup.POST("/items/:productId/increment", r.params.CartHandler.IncrementItem)
	cartGroup.POST("/items/:productId/decrement", r.params.CartHandler.DecrementItem)
	cartGroup.DELETE("/items/:productId", r.params.CartHandler.RemoveItem)
}
