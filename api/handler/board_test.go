package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/internal/services/board"
	"github.com/fastygo/consistency/internal/services/notify"
	"github.com/fastygo/consistency/internal/testutil/memstore"
	"github.com/fastygo/consistency/pkg/httpcontext"
	"github.com/fastygo/consistency/usecase"
	"github.com/fastygo/consistency/usecase/category"
	"github.com/fastygo/consistency/usecase/dashboard"
	"github.com/fastygo/consistency/usecase/goal"
	"github.com/fastygo/consistency/usecase/task"
)

type staticIdentifier map[string]string

func (s staticIdentifier) Identify(_ context.Context, sessionID, userID string) (domain.Identity, error) {
	if s[sessionID] != userID {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return domain.Identity{UserID: userID, SessionID: sessionID}, nil
}

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
	Meta   json.RawMessage `json:"meta"`
}

func newBoardHandler(t *testing.T) (*BoardHandler, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	repos := store.Repositories()
	feed := notify.NewFeed(10)
	clock := usecase.Clock{Now: func() time.Time { return time.Date(2024, 3, 9, 9, 0, 0, 0, time.UTC) }}
	resolver := category.New(repos.Categories, nil)
	deps := dashboard.Deps{
		Store:      repos,
		Categories: resolver,
		Goals:      goal.New(repos.Goals, clock, feed, nil),
		Tasks:      task.New(repos.Tasks, resolver, feed, nil),
		Notifier:   feed,
		Clock:      clock,
	}
	registry := board.NewRegistry(func(identity domain.Identity) *dashboard.Board {
		return dashboard.New(identity, deps)
	}, nil, board.Config{})
	ids := staticIdentifier{"s1": "u1", "s2": "u2"}
	return NewBoardHandler(ids, registry, feed, httpcontext.NewAdapter(0), nil), store
}

func request(method, userID, sessionID, body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	if userID != "" {
		ctx.Request.Header.Set(httpcontext.HeaderUserID, userID)
		ctx.Request.Header.Set(httpcontext.HeaderSessionID, sessionID)
	}
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	return &ctx
}

func decodeEnvelope(t *testing.T, ctx *fasthttp.RequestCtx) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(ctx.Response.Body(), &env); err != nil {
		t.Fatalf("decode response %q: %v", ctx.Response.Body(), err)
	}
	return env
}

func TestBoardRequiresIdentity(t *testing.T) {
	h, _ := newBoardHandler(t)
	ctx := request(http.MethodGet, "", "", "")
	h.Get(ctx)
	if ctx.Response.StatusCode() != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", ctx.Response.StatusCode())
	}

	ctx = request(http.MethodGet, "u2", "s1", "")
	h.Get(ctx)
	if ctx.Response.StatusCode() != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a session of another user, got %d", ctx.Response.StatusCode())
	}
}

func TestAddGoalThenToggleFromAnotherUser(t *testing.T) {
	h, store := newBoardHandler(t)
	store.AddProfile("u1", "Ada")

	ctx := request(http.MethodPost, "u1", "s1", `{"title":"  Meditate ","emoji":""}`)
	h.AddGoal(ctx)
	if ctx.Response.StatusCode() != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	var created domain.DailyGoal
	if err := json.Unmarshal(decodeEnvelope(t, ctx).Data, &created); err != nil {
		t.Fatalf("decode goal: %v", err)
	}
	if created.Title != "Meditate" || created.Emoji != domain.DefaultGoalEmoji || created.GoalDate != "2024-03-09" {
		t.Fatalf("unexpected goal %+v", created)
	}

	ctx = request(http.MethodGet, "u2", "s2", "")
	h.Get(ctx)
	var snap dashboard.Snapshot
	if err := json.Unmarshal(decodeEnvelope(t, ctx).Data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snap.Goals) != 1 || snap.Goals[0].OwnerDisplayName != "Ada" {
		t.Fatalf("unexpected snapshot %+v", snap.Goals)
	}

	ctx = request(http.MethodPost, "u2", "s2", "")
	ctx.SetUserValue("kind", "goal")
	ctx.SetUserValue("id", created.ID)
	ctx.SetUserValue("action", "toggle")
	h.ItemAction(ctx)
	if ctx.Response.StatusCode() != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", ctx.Response.StatusCode())
	}
	if store.Calls(memstore.OpGoalsUpdate) != 0 {
		t.Fatal("non-owner toggle reached the store")
	}
}

func TestItemActionSaveBlankTitle(t *testing.T) {
	h, store := newBoardHandler(t)
	g := store.AddGoal(domain.DailyGoal{OwnerID: "u1", Title: "Run", GoalDate: "2024-03-09"})

	h.Get(request(http.MethodGet, "u1", "s1", ""))

	steps := []struct {
		action string
		body   string
		status int
	}{
		{"edit", "", http.StatusOK},
		{"draft", `{"title":"   ","emoji":"🏃"}`, http.StatusOK},
		{"save", "", http.StatusBadRequest},
	}
	var last *fasthttp.RequestCtx
	for _, step := range steps {
		ctx := request(http.MethodPost, "u1", "s1", step.body)
		ctx.SetUserValue("kind", "goal")
		ctx.SetUserValue("id", g.ID)
		ctx.SetUserValue("action", step.action)
		h.ItemAction(ctx)
		if ctx.Response.StatusCode() != step.status {
			t.Fatalf("%s: expected %d, got %d: %s", step.action, step.status, ctx.Response.StatusCode(), ctx.Response.Body())
		}
		last = ctx
	}

	env := decodeEnvelope(t, last)
	if env.Code != string(domain.ErrCodeInvalid) {
		t.Fatalf("unexpected code %q", env.Code)
	}
	var view struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(env.Meta, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.State != "editing" {
		t.Fatalf("expected to stay editing, got %q", view.State)
	}
	if store.Calls(memstore.OpGoalsUpdate) != 0 {
		t.Fatal("blank title reached the store")
	}
}

func TestItemActionRejectsUnknownAction(t *testing.T) {
	h, _ := newBoardHandler(t)
	ctx := request(http.MethodPost, "u1", "s1", "")
	ctx.SetUserValue("kind", "goal")
	ctx.SetUserValue("id", "g1")
	ctx.SetUserValue("action", "archive")
	h.ItemAction(ctx)
	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", ctx.Response.StatusCode())
	}
}

func TestNotificationsDrain(t *testing.T) {
	h, _ := newBoardHandler(t)
	h.AddTask(request(http.MethodPost, "u1", "s1", `{"title":"Taxes","new_category":"Admin"}`))

	ctx := request(http.MethodGet, "u1", "s1", "")
	h.Notifications(ctx)
	var notes []domain.Notification
	if err := json.Unmarshal(decodeEnvelope(t, ctx).Data, &notes); err != nil {
		t.Fatalf("decode notifications: %v", err)
	}
	if len(notes) != 1 || notes[0].Title != "Task added! 📝" {
		t.Fatalf("unexpected notifications %+v", notes)
	}

	ctx = request(http.MethodGet, "u1", "s1", "")
	h.Notifications(ctx)
	if data := decodeEnvelope(t, ctx).Data; len(data) != 0 && string(data) != "[]" {
		t.Fatalf("expected empty feed after drain, got %s", data)
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.ErrEmptyTitle, http.StatusBadRequest},
		{domain.ErrNotOwner, http.StatusForbidden},
		{domain.ErrBusy, http.StatusConflict},
		{domain.ErrCategoryExists, http.StatusConflict},
		{domain.ErrBoardClosed, http.StatusConflict},
		{domain.RemoteError("tasks.insert", context.DeadlineExceeded), http.StatusBadGateway},
		{domain.ErrItemNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		if status, _ := mapError(tt.err); status != tt.status {
			t.Errorf("mapError(%v) = %d, want %d", tt.err, status, tt.status)
		}
	}
}
