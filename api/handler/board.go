package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/consistency/api/transport"
	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/pkg/httpcontext"
	"github.com/fastygo/consistency/usecase/dashboard"
	"github.com/fastygo/consistency/usecase/lifecycle"
)

// BoardSource hands out the board of a signed-in session.
type BoardSource interface {
	Acquire(identity domain.Identity) (*dashboard.Board, error)
}

// NotificationFeed is drained by the notifications endpoint.
type NotificationFeed interface {
	Drain(userID string) []domain.Notification
}

type BoardHandler struct {
	baseHandler
	ids    Identifier
	boards BoardSource
	feed   NotificationFeed
}

func NewBoardHandler(ids Identifier, boards BoardSource, feed NotificationFeed, adapter *httpcontext.Adapter, logger *zap.Logger) *BoardHandler {
	return &BoardHandler{
		baseHandler: newBaseHandler(adapter, logger),
		ids:         ids,
		boards:      boards,
		feed:        feed,
	}
}

// session resolves the caller and their board, writing the error response
// itself when that fails.
func (h *BoardHandler) session(ctx *fasthttp.RequestCtx, stdCtx context.Context) (domain.Identity, *dashboard.Board, bool) {
	identity, err := h.identify(ctx, stdCtx, h.ids)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return domain.Identity{}, nil, false
	}
	board, err := h.boards.Acquire(identity)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return domain.Identity{}, nil, false
	}
	return identity, board, true
}

// @Summary Board snapshot; the first call performs the initial load
// @Tags board
// @Router /api/v1/board [get]
func (h *BoardHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	_, board, ok := h.session(ctx, stdCtx)
	if !ok {
		return
	}
	h.respondSnapshot(ctx, stdCtx, board, board.Load(stdCtx))
}

// @Summary Re-fetch goals and tasks
// @Tags board
// @Router /api/v1/board/refresh [post]
func (h *BoardHandler) Refresh(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	_, board, ok := h.session(ctx, stdCtx)
	if !ok {
		return
	}
	h.respondSnapshot(ctx, stdCtx, board, board.Refresh(stdCtx))
}

// respondSnapshot serves the board even when a collection failed to refresh;
// the failure is reported in meta and the stale collection is kept.
func (h *BoardHandler) respondSnapshot(ctx *fasthttp.RequestCtx, stdCtx context.Context, board *dashboard.Board, refreshErr error) {
	if errors.Is(refreshErr, domain.ErrBoardClosed) {
		h.respondError(ctx, stdCtx, refreshErr)
		return
	}
	var meta interface{}
	if refreshErr != nil {
		meta = transport.RefreshMeta{RefreshError: domain.Message(refreshErr)}
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(board.Snapshot(), meta))
}

// @Summary Run a lifecycle action on one goal or task
// @Tags board
// @Router /api/v1/items/{kind}/{id}/{action} [post]
func (h *BoardHandler) ItemAction(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	kind := domain.ItemKind(userValue(ctx, "kind"))
	id := userValue(ctx, "id")
	action, known := lifecycle.ParseAction(userValue(ctx, "action"))
	if !kind.Valid() || id == "" || !known {
		h.respondError(ctx, stdCtx, domain.ErrInvalidPayload)
		return
	}

	var draft lifecycle.Draft
	if action == lifecycle.ActionDraft {
		var req transport.DraftRequest
		if err := h.decode(ctx, &req); err != nil {
			h.respondError(ctx, stdCtx, err)
			return
		}
		draft = lifecycle.Draft{Title: req.Title, Emoji: req.Emoji}
	}

	_, board, ok := h.session(ctx, stdCtx)
	if !ok {
		return
	}

	view, err := board.Dispatch(stdCtx, kind, id, action, draft)
	if err != nil {
		status, code := mapError(err)
		h.respondJSON(ctx, status, transport.NewError(code, domain.Message(err), view))
		return
	}
	h.respondSuccess(ctx, http.StatusOK, view)
}

// @Summary Drain pending notifications for the caller
// @Tags board
// @Router /api/v1/notifications [get]
func (h *BoardHandler) Notifications(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	identity, err := h.identify(ctx, stdCtx, h.ids)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, h.feed.Drain(identity.UserID))
}

func userValue(ctx *fasthttp.RequestCtx, key string) string {
	if v, ok := ctx.UserValue(key).(string); ok {
		return v
	}
	return ""
}
