package handlers

import (
	"errors"
	"net/http"

	request "portal_orcamentos/internal/adapter/http/dto/request"
	response "portal_orcamentos/internal/adapter/http/dto/response"
	"portal_orcamentos/internal/adapter/http/middleware"
	"portal_orcamentos/internal/usecase"

	"github.com/gin-gonic/gin"
)

// UserHandler serves registration, login and the user directory.
type UserHandler struct {
	usecase usecase.IUserUseCase
}

func NewUserHandler(uc usecase.IUserUseCase) *UserHandler {
	return &UserHandler{usecase: uc}
}

// Register godoc
// @Summary Register a customer
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body request.RegisterRequest true "Customer data"
// @Success 201 {object} response.UserResponse
// @Failure 400 {object} pkg.HTTPError
// @Failure 409 {object} pkg.HTTPError
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var payload request.RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	user, err := h.usecase.Register(c.Request.Context(), payload.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromUser(user))
}

// Login godoc
// @Summary Open a session
// @Description Customers log in with their password. Staff use the configured passcode.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body request.LoginRequest true "Credentials"
// @Success 200 {object} response.SessionResponse
// @Failure 401 {object} pkg.HTTPError
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var payload request.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	session, err := h.usecase.Authenticate(c.Request.Context(), payload.Email, payload.Password, payload.ResolveRole())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromSession(session))
}

// Me godoc
// @Summary Current session owner
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.MeResponse
// @Router /me [get]
func (h *UserHandler) Me(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if actor == nil {
		c.JSON(errUnauthorized.HTTPStatus, errUnauthorized.ToHTTPError())
		return
	}

	res := response.MeResponse{Actor: response.FromActor(*actor)}
	if actor.IsStaff() {
		c.JSON(http.StatusOK, res)
		return
	}

	user, err := h.usecase.GetByID(c.Request.Context(), actor.ID)
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
	case err != nil:
		respondError(c, err)
		return
	default:
		u := response.FromUser(user)
		res.User = &u
	}
	c.JSON(http.StatusOK, res)
}

// UpdateMe godoc
// @Summary Update the customer profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body request.ProfileRequest true "Profile"
// @Success 200 {object} response.UserResponse
// @Router /me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if actor == nil {
		c.JSON(errUnauthorized.HTTPStatus, errUnauthorized.ToHTTPError())
		return
	}

	var payload request.ProfileRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	user, err := h.usecase.UpdateProfile(c.Request.Context(), actor, payload.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromUser(user))
}

// ListUsers godoc
// @Summary List registered customers
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} response.UserResponse
// @Failure 403 {object} pkg.HTTPError
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.usecase.List(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromUsers(users))
}
