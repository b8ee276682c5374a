package controller

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"

	"centralvendas/internal/dto"
	apperrors "centralvendas/internal/errors"
	"centralvendas/internal/httpx"
	"centralvendas/internal/infrastructure/logger"
	"centralvendas/internal/integration/shopee"
)

const maxPushBytes = 1 << 20

type PushHandler interface {
	Handle(ctx context.Context, push *shopee.Push) (string, error)
}

type WebhookController struct {
	handler     PushHandler
	partnerKey  string
	callbackURL string
	logger      *zap.Logger
}

// NewWebhookController verifies pushes against callbackURL. An empty
// callbackURL falls back to the URL the request was received on.
func NewWebhookController(handler PushHandler, partnerKey, callbackURL string, logger *zap.Logger) *WebhookController {
	return &WebhookController{
		handler:     handler,
		partnerKey:  partnerKey,
		callbackURL: callbackURL,
		logger:      logger,
	}
}

func (c *WebhookController) Shopee(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r)
	log := logger.FromContext(r.Context(), c.logger).With(zap.String("traceId", traceID))

	signature := r.Header.Get("Authorization")
	if signature == "" {
		httpx.WriteError(w, traceID, apperrors.NewUnauthorizedError("missing signature"), log)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPushBytes))
	if err != nil {
		log.Warn("unreadable webhook body", zap.Error(err))
		httpx.WriteValidationError(w, traceID, "invalid body", log, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body could not be read",
		})
		return
	}

	if !shopee.VerifySignature(c.partnerKey, c.callbackURLFor(r), body, signature) {
		log.Warn("invalid shopee signature")
		httpx.WriteError(w, traceID, apperrors.NewUnauthorizedError("invalid signature"), log)
		return
	}

	push, err := shopee.Parse(body)
	if err != nil {
		log.Warn("invalid JSON body", zap.Error(err))
		httpx.WriteValidationError(w, traceID, "invalid JSON body", log, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	message, err := c.handler.Handle(r.Context(), push)
	if err != nil {
		httpx.WriteError(w, traceID, err, log)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.WebhookResponse{TraceID: traceID, Message: message}, log)
}

func (c *WebhookController) callbackURLFor(r *http.Request) string {
	if c.callbackURL != "" {
		return c.callbackURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
