package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/consistency/api/transport"
	taskUC "github.com/fastygo/consistency/usecase/task"
)

// @Summary Add a task, optionally creating its category
// @Tags tasks
// @Accept json
// @Produce json
// @Router /api/v1/tasks [post]
func (h *BoardHandler) AddTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.TaskRequest
	if err := h.decode(ctx, &req); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	_, board, ok := h.session(ctx, stdCtx)
	if !ok {
		return
	}

	created, err := board.AddTask(stdCtx, taskUC.Input{
		Title:       req.Title,
		Emoji:       req.Emoji,
		CategoryID:  req.CategoryID,
		NewCategory: req.NewCategory,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Categories offered by the add-task dialog
// @Tags tasks
// @Router /api/v1/categories [get]
func (h *BoardHandler) Categories(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	_, board, ok := h.session(ctx, stdCtx)
	if !ok {
		return
	}

	picker, err := board.Categories(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, picker)
}
