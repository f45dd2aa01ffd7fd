package routes

import (
	"github.com/gin-gonic/gin"

	"quotebuilder/internal/adapter/http/handlers"
)

const (
	PathQuotations = "/quotations"
	PathConvRate   = "/convrate"
)

func addQuotationRoutes(rg *gin.RouterGroup, quoteHandler *handlers.QuoteHandler, rateHandler *handlers.ConvRateHandler) {
	quotations := rg.Group(PathQuotations)
	{
		quotations.GET("", quoteHandler.ListQuotations)
		quotations.POST("", quoteHandler.CreateQuotation)
		quotations.GET("/:id", quoteHandler.GetQuotation)
		quotations.PUT("/:id", quoteHandler.UpdateQuotation)
		quotations.PATCH("/:id/status", quoteHandler.UpdateQuotationStatus)
		quotations.DELETE("/:id", quoteHandler.DeleteQuotation)
	}

	rg.GET(PathConvRate, rateHandler.GetConvRate)
}
