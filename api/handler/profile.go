package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/consistency/pkg/httpcontext"
	profileUC "github.com/fastygo/consistency/usecase/profile"
)

type ProfileHandler struct {
	baseHandler
	uc  *profileUC.UseCase
	ids Identifier
}

func NewProfileHandler(uc *profileUC.UseCase, ids Identifier, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		ids:         ids,
	}
}

// @Summary Current user's profile
// @Tags profile
// @Success 200 {object} transport.Envelope
// @Router /api/v1/me [get]
func (h *ProfileHandler) Me(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	identity, err := h.identify(ctx, stdCtx, h.ids)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	profile, err := h.uc.GetProfile(stdCtx, identity.UserID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, profile)
}
