package usecase

import "errors"

var (
	ErrQuoteNotFound        = errors.New("quote not found")
	ErrNotDeletable         = errors.New("quote can no longer be deleted")
	ErrMissingReason        = errors.New("cancellation reason is required")
	ErrNotCancellable       = errors.New("quote cannot be cancelled in its current status")
	ErrForbidden            = errors.New("operation not allowed for this user")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidAttachment    = errors.New("invalid attachment")
	ErrAttachmentNotFound   = errors.New("attachment not found")
	ErrAttachmentTooLarge   = errors.New("attachment too large")
	ErrReceiptNotAccepted   = errors.New("payment method takes no receipt")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUser        = errors.New("invalid user")
	ErrInvalidItem        = errors.New("invalid item")
)
