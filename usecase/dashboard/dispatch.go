package dashboard

import (
	"context"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/usecase"
	"github.com/fastygo/consistency/usecase/lifecycle"
)

type actionRequest struct {
	ctrl  *lifecycle.Controller
	draft lifecycle.Draft
}

func (b *Board) newDispatcher() *usecase.Dispatcher {
	d := usecase.NewDispatcher()
	register := func(action lifecycle.Action, run func(ctx context.Context, req actionRequest) error) {
		d.Register(string(action), func(ctx context.Context, payload interface{}) (interface{}, error) {
			req, ok := payload.(actionRequest)
			if !ok {
				return nil, domain.ErrInvalidPayload
			}
			return nil, run(ctx, req)
		})
	}

	register(lifecycle.ActionEdit, func(_ context.Context, req actionRequest) error {
		return req.ctrl.StartEdit()
	})
	register(lifecycle.ActionDraft, func(_ context.Context, req actionRequest) error {
		return req.ctrl.SetDraft(req.draft)
	})
	register(lifecycle.ActionCancel, func(_ context.Context, req actionRequest) error {
		return req.ctrl.Cancel()
	})
	register(lifecycle.ActionSave, func(ctx context.Context, req actionRequest) error {
		return req.ctrl.Save(ctx)
	})
	register(lifecycle.ActionToggle, func(ctx context.Context, req actionRequest) error {
		return req.ctrl.ToggleComplete(ctx)
	})
	register(lifecycle.ActionDelete, func(ctx context.Context, req actionRequest) error {
		return req.ctrl.Delete(ctx)
	})
	return d
}

// Dispatch runs a lifecycle action on one record and returns the record's
// state afterwards. draft is only read by the draft action.
func (b *Board) Dispatch(ctx context.Context, kind domain.ItemKind, id string, action lifecycle.Action, draft lifecycle.Draft) (lifecycle.View, error) {
	if b.Closed() {
		return lifecycle.View{}, domain.ErrBoardClosed
	}
	if !b.dispatcher.Has(string(action)) {
		return lifecycle.View{}, domain.ErrInvalidTransition
	}
	ctrl, err := b.Item(kind, id)
	if err != nil {
		return lifecycle.View{}, err
	}
	_, err = b.dispatcher.Execute(ctx, string(action), actionRequest{ctrl: ctrl, draft: draft})
	return ctrl.View(), err
}
