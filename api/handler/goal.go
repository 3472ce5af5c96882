package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/consistency/api/transport"
	goalUC "github.com/fastygo/consistency/usecase/goal"
)

// @Summary Add a goal for today
// @Tags goals
// @Accept json
// @Produce json
// @Router /api/v1/goals [post]
func (h *BoardHandler) AddGoal(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.GoalRequest
	if err := h.decode(ctx, &req); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	_, board, ok := h.session(ctx, stdCtx)
	if !ok {
		return
	}

	created, err := board.AddGoal(stdCtx, goalUC.Input{Title: req.Title, Emoji: req.Emoji})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}
