package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/consistency/api/transport"
	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/pkg/httpcontext"
	authUC "github.com/fastygo/consistency/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc         *authUC.UseCase
	defaultTTL time.Duration
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, ttl time.Duration) *AuthHandler {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		defaultTTL:  ttl,
	}
}

// @Summary Open a board session for the bearer of a verified token
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID := string(ctx.Request.Header.Peek(httpcontext.HeaderUserID))
	if userID == "" {
		h.respondError(ctx, stdCtx, domain.ErrUnauthorized)
		return
	}
	var req transport.AuthLoginRequest
	if len(ctx.PostBody()) > 0 {
		if err := h.decode(ctx, &req); err != nil {
			h.respondError(ctx, stdCtx, err)
			return
		}
	}

	session, err := h.uc.CreateSession(stdCtx, userID, h.ttlFromRequest(req.TTL))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSession(ctx, http.StatusCreated, session)
}

// @Summary Extend a session held by the token's user
// @Tags auth
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID := string(ctx.Request.Header.Peek(httpcontext.HeaderUserID))
	if userID == "" {
		h.respondError(ctx, stdCtx, domain.ErrUnauthorized)
		return
	}
	var req transport.RefreshRequest
	if err := h.decode(ctx, &req); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = string(ctx.Request.Header.Peek(httpcontext.HeaderSessionID))
	}
	if sessionID == "" {
		h.respondError(ctx, stdCtx, domain.ErrInvalidPayload)
		return
	}

	session, err := h.uc.RefreshSession(stdCtx, sessionID, userID, h.ttlFromRequest(req.TTL))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSession(ctx, http.StatusOK, session)
}

// @Summary Sign out and tear down the session's board
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	identity, err := h.identify(ctx, stdCtx, h.uc)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	if err := h.uc.SignOut(stdCtx, identity); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}

func (h *AuthHandler) respondSession(ctx *fasthttp.RequestCtx, status int, session *domain.Session) {
	h.respondSuccess(ctx, status, transport.SessionResponse{
		SessionID: session.ID,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	})
}

func (h *AuthHandler) ttlFromRequest(ttlSeconds int) time.Duration {
	if ttlSeconds <= 0 {
		return h.defaultTTL
	}
	return time.Duration(ttlSeconds) * time.Second
}
