package handlers

import (
	"errors"
	"net/http"

	"portal_orcamentos/internal/usecase"
	"portal_orcamentos/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request payload", http.StatusBadRequest)
	errUnauthorized   = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing or invalid session token", http.StatusUnauthorized)
)

func mapUseCaseError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrQuoteNotFound):
		return pkg.NewDomainErrorSimple("QUOTE_NOT_FOUND", "Quote not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrAttachmentNotFound):
		return pkg.NewDomainErrorSimple("ATTACHMENT_NOT_FOUND", "Attachment not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrUserNotFound):
		return pkg.NewDomainErrorSimple("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrNotDeletable):
		return pkg.NewDomainErrorSimple("NOT_DELETABLE", "Quote can no longer be deleted", http.StatusConflict)
	case errors.Is(err, usecase.ErrNotCancellable):
		return pkg.NewDomainErrorSimple("NOT_CANCELLABLE", "Quote cannot be cancelled in its current status", http.StatusConflict)
	case errors.Is(err, usecase.ErrTransitionNotAllowed):
		return pkg.NewDomainErrorSimple("TRANSITION_NOT_ALLOWED", "Status change not allowed", http.StatusConflict)
	case errors.Is(err, usecase.ErrReceiptNotAccepted):
		return pkg.NewDomainErrorSimple("RECEIPT_NOT_ACCEPTED", "This payment method takes no receipt", http.StatusConflict)
	case errors.Is(err, usecase.ErrEmailTaken):
		return pkg.NewDomainErrorSimple("EMAIL_TAKEN", "Email already registered", http.StatusConflict)
	case errors.Is(err, usecase.ErrMissingReason):
		return pkg.NewDomainErrorSimple("MISSING_REASON", "A cancellation reason is required", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidStatus):
		return pkg.NewDomainErrorSimple("INVALID_STATUS", "Unknown status", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrEmptyCart):
		return pkg.NewDomainErrorSimple("EMPTY_CART", "Cart is empty", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidPaymentMethod):
		return pkg.NewDomainErrorSimple("INVALID_PAYMENT_METHOD", "Invalid payment method", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrAttachmentTooLarge):
		return pkg.NewDomainErrorSimple("ATTACHMENT_TOO_LARGE", "Attachment exceeds the storage limit", http.StatusRequestEntityTooLarge)
	case errors.Is(err, usecase.ErrInvalidAttachment):
		return pkg.NewDomainErrorSimple("INVALID_ATTACHMENT", "Invalid attachment", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidItem):
		return pkg.NewDomainErrorSimple("INVALID_ITEM", "Invalid cart item", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidUser):
		return pkg.NewDomainErrorSimple("INVALID_USER", "Invalid user data", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return pkg.NewDomainErrorSimple("INVALID_CREDENTIALS", "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrForbidden):
		return pkg.NewDomainErrorSimple("FORBIDDEN", "Operation not allowed", http.StatusForbidden)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func respondError(c *gin.Context, err error) {
	appErr := mapUseCaseError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
