package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	request "portal_orcamentos/internal/adapter/http/dto/request"
	response "portal_orcamentos/internal/adapter/http/dto/response"
	"portal_orcamentos/internal/adapter/http/middleware"
	"portal_orcamentos/internal/domain/entities"
	"portal_orcamentos/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultHeartbeat = 15 * time.Second

// QuoteHandler serves the quote lifecycle.
type QuoteHandler struct {
	usecase   usecase.IQuoteUseCase
	log       *zap.Logger
	heartbeat time.Duration
}

func NewQuoteHandler(uc usecase.IQuoteUseCase, log *zap.Logger) *QuoteHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuoteHandler{usecase: uc, log: log.Named("quote.handler"), heartbeat: defaultHeartbeat}
}

// ListQuotes godoc
// @Summary Quotes visible to the caller
// @Description Staff see every quote, customers only their own.
// @Tags quotes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} response.QuoteResponse
// @Router /quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	quotes, err := h.usecase.ListVisible(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuotes(quotes))
}

// GetQuote godoc
// @Summary Quote by id
// @Tags quotes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote id"
// @Success 200 {object} response.QuoteResponse
// @Failure 404 {object} pkg.HTTPError
// @Router /quotes/{id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	quote, err := h.usecase.GetByID(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(quote))
}

// TransitionQuote godoc
// @Summary Set a quote status
// @Tags quotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote id"
// @Param payload body request.TransitionRequest true "Target status"
// @Success 200 {object} response.QuoteResponse
// @Failure 400 {object} pkg.HTTPError
// @Failure 409 {object} pkg.HTTPError
// @Router /quotes/{id}/status [patch]
func (h *QuoteHandler) TransitionQuote(c *gin.Context) {
	var payload request.TransitionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	quote, err := h.usecase.Transition(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), payload.ResolveStatus())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(quote))
}

// MarkUpdated godoc
// @Summary Mark a quote as updated by staff
// @Tags quotes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote id"
// @Success 200 {object} response.QuoteResponse
// @Router /quotes/{id}/mark-updated [post]
func (h *QuoteHandler) MarkUpdated(c *gin.Context) {
	quote, err := h.usecase.MarkUpdated(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(quote))
}

// ConfirmQuote godoc
// @Summary Confirm a quote
// @Tags quotes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote id"
// @Success 200 {object} response.QuoteResponse
// @Router /quotes/{id}/confirm [post]
func (h *QuoteHandler) ConfirmQuote(c *gin.Context) {
	quote, err := h.usecase.Confirm(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(quote))
}

// CancelQuote godoc
// @Summary Cancel a confirmed quote
// @Tags quotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote id"
// @Param payload body request.CancelRequest true "Reason"
// @Success 200 {object} response.QuoteResponse
// @Failure 400 {object} pkg.HTTPError
// @Failure 409 {object} pkg.HTTPError
// @Router /quotes/{id}/cancel [post]
func (h *QuoteHandler) CancelQuote(c *gin.Context) {
	var payload request.CancelRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	quote, err := h.usecase.Cancel(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), payload.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(quote))
}

// DeleteQuote godoc
// @Summary Delete a quote that has not been confirmed
// @Tags quotes
// @Security BearerAuth
// @Param id path string true "Quote id"
// @Success 204
// @Failure 409 {object} pkg.HTTPError
// @Router /quotes/{id} [delete]
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	if err := h.usecase.Delete(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadAttachments godoc
// @Summary Attach photos or documents to a quote
// @Tags quotes
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote id"
// @Param kind query string true "photo or document"
// @Param files formData file true "Files"
// @Success 200 {object} response.QuoteResponse
// @Router /quotes/{id}/attachments [post]
func (h *QuoteHandler) UploadAttachments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}
	defer func() { _ = form.RemoveAll() }()

	kind := entities.AttachmentKind(strings.ToLower(strings.TrimSpace(c.Query("kind"))))
	quote, err := h.usecase.AddAttachments(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), kind, uploadFiles(form))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(quote))
}

// UploadReceipts godoc
// @Summary Attach Pix or boleto payment receipts to an own quote
// @Tags quotes
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote id"
// @Param files formData file true "Receipt files"
// @Success 200 {object} response.QuoteResponse
// @Failure 409 {object} pkg.HTTPError
// @Router /quotes/{id}/receipts [post]
func (h *QuoteHandler) UploadReceipts(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}
	defer func() { _ = form.RemoveAll() }()

	quote, err := h.usecase.AddReceipts(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), uploadFiles(form))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(quote))
}

func uploadFiles(form *multipart.Form) []usecase.UploadFile {
	headers := form.File["files"]
	files := make([]usecase.UploadFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, uploadFile(fh))
	}
	return files
}

// DownloadAttachment godoc
// @Summary Download an attachment
// @Tags quotes
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Quote id"
// @Param attachmentId path string true "Attachment id"
// @Success 200 {file} file
// @Failure 404 {object} pkg.HTTPError
// @Router /quotes/{id}/attachments/{attachmentId} [get]
func (h *QuoteHandler) DownloadAttachment(c *gin.Context) {
	att, data, err := h.usecase.OpenAttachment(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), c.Param("attachmentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", att.Name))
	c.Data(http.StatusOK, att.MediaType, data)
}

// StreamQuotes godoc
// @Summary Live quote list
// @Description Server-sent events. Each "quotes" event carries the caller's visible quotes after a change.
// @Tags quotes
// @Produce text/event-stream
// @Security BearerAuth
// @Router /quotes/events [get]
func (h *QuoteHandler) StreamQuotes(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if actor == nil {
		c.JSON(errUnauthorized.HTTPStatus, errUnauthorized.ToHTTPError())
		return
	}

	changed := make(chan struct{}, 1)
	unsubscribe := h.usecase.Subscribe(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	writer := c.Writer
	headers := writer.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")
	headers.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	if _, err := io.WriteString(writer, "retry: 2000\n\n"); err != nil {
		return
	}

	ctx := c.Request.Context()
	if err := h.writeSnapshot(c, actor); err != nil {
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-changed:
			if err := h.writeSnapshot(c, actor); err != nil {
				return
			}
		case <-heartbeat.C:
			if _, err := io.WriteString(writer, ": heartbeat\n\n"); err != nil {
				return
			}
			writer.Flush()
		}
	}
}

func (h *QuoteHandler) writeSnapshot(c *gin.Context, actor *entities.Actor) error {
	quotes, err := h.usecase.ListVisible(c.Request.Context(), actor)
	if err != nil {
		h.log.Warn("quote stream snapshot failed", zap.String("actor_id", actor.ID), zap.Error(err))
		return err
	}
	data, err := json.Marshal(response.FromQuotes(quotes))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.Writer, "event: quotes\ndata: %s\n\n", data); err != nil {
		return err
	}
	c.Writer.Flush()
	return nil
}

func uploadFile(fh *multipart.FileHeader) usecase.UploadFile {
	return usecase.UploadFile{
		Name:      fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
