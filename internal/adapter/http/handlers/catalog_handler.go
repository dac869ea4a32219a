package handlers

import (
	"net/http"
	"strings"

	response "portal_orcamentos/internal/adapter/http/dto/response"
	"portal_orcamentos/internal/domain/catalog"
	"portal_orcamentos/internal/domain/entities"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

// GetCatalog godoc
// @Summary Browse the product catalog
// @Tags catalog
// @Produce json
// @Param q query string false "Matches name, code or color"
// @Param category query string false "Category, or todas"
// @Success 200 {object} response.CatalogResponse
// @Router /catalog [get]
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	products := h.catalog.Search(catalog.Filter{
		Term:     strings.TrimSpace(c.Query("q")),
		Category: strings.TrimSpace(c.Query("category")),
	})
	c.JSON(http.StatusOK, response.CatalogResponse{
		Categories: h.catalog.Categories(),
		Units:      entities.Units,
		Products:   products,
	})
}

// PaymentOptions godoc
// @Summary Payment methods, terms and Pix keys offered at checkout
// @Tags catalog
// @Produce json
// @Success 200 {object} response.PaymentOptionsResponse
// @Router /payment-options [get]
func (h *CatalogHandler) PaymentOptions(c *gin.Context) {
	c.JSON(http.StatusOK, response.PaymentOptionsResponse{
		Methods: entities.PaymentMethods,
		Terms:   entities.PaymentTerms,
		PixKeys: catalog.PixKeys(),
	})
}
