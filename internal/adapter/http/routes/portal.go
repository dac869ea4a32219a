package routes

import (
	"portal_orcamentos/internal/adapter/http/handlers"
	"portal_orcamentos/internal/adapter/http/middleware"
	"portal_orcamentos/internal/domain/entities"

	"github.com/gin-gonic/gin"
)

const (
	PathAuth           = "/auth"
	PathMe             = "/me"
	PathUsers          = "/users"
	PathCatalog        = "/catalog"
	PathPaymentOptions = "/payment-options"
	PathCart           = "/cart"
	PathQuotes         = "/quotes"
)

func addAuthRoutes(rg *gin.RouterGroup, userHandler *handlers.UserHandler) {
	auth := rg.Group(PathAuth)
	{
		auth.POST("/register", userHandler.Register)
		auth.POST("/login", userHandler.Login)
	}
}

func addCatalogRoutes(rg *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	rg.GET(PathCatalog, catalogHandler.GetCatalog)
	rg.GET(PathPaymentOptions, catalogHandler.PaymentOptions)
}

func addProfileRoutes(rg *gin.RouterGroup, userHandler *handlers.UserHandler) {
	rg.GET(PathMe, userHandler.Me)
	rg.PUT(PathMe, userHandler.UpdateMe)
	rg.GET(PathUsers, middleware.RequireRole(entities.RoleStaff), userHandler.ListUsers)
}

func addCartRoutes(rg *gin.RouterGroup, cartHandler *handlers.CartHandler) {
	cart := rg.Group(PathCart, middleware.RequireRole(entities.RoleCustomer))
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/items", cartHandler.AddItem)
		cart.DELETE("/items/:index", cartHandler.RemoveItem)
		cart.POST("/finalize", cartHandler.Finalize)
	}
}

func addQuoteRoutes(rg *gin.RouterGroup, quoteHandler *handlers.QuoteHandler) {
	quotes := rg.Group(PathQuotes)
	{
		quotes.GET("", quoteHandler.ListQuotes)
		quotes.GET("/events", quoteHandler.StreamQuotes)
		quotes.GET("/:id", quoteHandler.GetQuote)
		quotes.DELETE("/:id", quoteHandler.DeleteQuote)
		quotes.POST("/:id/cancel", quoteHandler.CancelQuote)
		quotes.GET("/:id/attachments/:attachmentId", quoteHandler.DownloadAttachment)
		quotes.POST("/:id/receipts", middleware.RequireRole(entities.RoleCustomer), quoteHandler.UploadReceipts)
	}

	// Staff only.
	staff := quotes.Group("", middleware.RequireRole(entities.RoleStaff))
	{
		staff.PATCH("/:id/status", quoteHandler.TransitionQuote)
		staff.POST("/:id/mark-updated", quoteHandler.MarkUpdated)
		staff.POST("/:id/confirm", quoteHandler.ConfirmQuote)
		staff.POST("/:id/attachments", quoteHandler.UploadAttachments)
	}
}
