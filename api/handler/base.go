package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/consistency/api/transport"
	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/pkg/httpcontext"
	appLogger "github.com/fastygo/consistency/pkg/logger"
)

// Identifier turns the verified token claims into a live identity.
type Identifier interface {
	Identify(ctx context.Context, sessionID, userID string) (domain.Identity, error)
}

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

// identify checks the session named by the auth middleware headers.
func (h baseHandler) identify(ctx *fasthttp.RequestCtx, stdCtx context.Context, ids Identifier) (domain.Identity, error) {
	userID := string(ctx.Request.Header.Peek(httpcontext.HeaderUserID))
	sessionID := string(ctx.Request.Header.Peek(httpcontext.HeaderSessionID))
	if userID == "" || sessionID == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return ids.Identify(stdCtx, sessionID, userID)
}

func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) error {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, "invalid payload", err)
	}
	return nil
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	status, code := mapError(err)
	if status >= http.StatusInternalServerError {
		appLogger.FromContext(stdCtx, h.logger).Error("request failed",
			zap.ByteString("path", ctx.Path()), zap.Error(err))
	}
	h.respondJSON(ctx, status, transport.NewError(code, domain.Message(err), nil))
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrBoardClosed):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	case domain.IsDomainError(err, domain.ErrCodeBusy):
		return http.StatusConflict, string(domain.ErrCodeBusy)
	case domain.IsDomainError(err, domain.ErrCodeRemote):
		return http.StatusBadGateway, string(domain.ErrCodeRemote)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}
