package handlers

import (
	"net/http"
	"strconv"

	request "portal_orcamentos/internal/adapter/http/dto/request"
	response "portal_orcamentos/internal/adapter/http/dto/response"
	"portal_orcamentos/internal/adapter/http/middleware"
	"portal_orcamentos/internal/usecase"

	"github.com/gin-gonic/gin"
)

// CartHandler serves the customer's pending selection.
type CartHandler struct {
	usecase usecase.ICartUseCase
}

func NewCartHandler(uc usecase.ICartUseCase) *CartHandler {
	return &CartHandler{usecase: uc}
}

// GetCart godoc
// @Summary Current cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.CartResponse
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.usecase.Get(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCart(cart))
}

// AddItem godoc
// @Summary Add a product line to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body request.CartItemRequest true "Line"
// @Success 200 {object} response.CartResponse
// @Failure 400 {object} pkg.HTTPError
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var payload request.CartItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	cart, err := h.usecase.AddItem(c.Request.Context(), middleware.ActorFrom(c), payload.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCart(cart))
}

// RemoveItem godoc
// @Summary Remove the cart line at index
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param index path int true "Line index"
// @Success 200 {object} response.CartResponse
// @Router /cart/items/{index} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	cart, err := h.usecase.RemoveItem(c.Request.Context(), middleware.ActorFrom(c), index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCart(cart))
}

// ClearCart godoc
// @Summary Empty the cart
// @Tags cart
// @Security BearerAuth
// @Success 204
// @Router /cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.usecase.Clear(c.Request.Context(), middleware.ActorFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Finalize godoc
// @Summary Turn the cart into a quote
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body request.FinalizeRequest true "Payment choices"
// @Success 201 {object} response.QuoteResponse
// @Failure 400 {object} pkg.HTTPError
// @Router /cart/finalize [post]
func (h *CartHandler) Finalize(c *gin.Context) {
	var payload request.FinalizeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	quote, err := h.usecase.Checkout(c.Request.Context(), middleware.ActorFrom(c), payload.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromQuote(quote))
}
