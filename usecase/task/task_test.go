package task

import (
	"context"
	"errors"
	"testing"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/internal/testutil/memstore"
	"github.com/fastygo/consistency/usecase/category"
)

type recorder struct {
	notes []domain.Notification
}

func (r *recorder) Notify(_ context.Context, n domain.Notification) {
	r.notes = append(r.notes, n)
}

func newUseCase() (*UseCase, *memstore.Store, *recorder) {
	store := memstore.New()
	repos := store.Repositories()
	notes := &recorder{}
	return New(repos.Tasks, category.New(repos.Categories, nil), notes, nil), store, notes
}

var viewer = domain.Identity{UserID: "u1", SessionID: "s1"}

func TestCreateUncategorizedTask(t *testing.T) {
	uc, store, notes := newUseCase()
	created, err := uc.Create(context.Background(), viewer, Input{Title: " Fix bike "}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	stored, _ := store.Task(created.ID)
	if stored.Title != "Fix bike" || stored.Emoji != domain.DefaultTaskEmoji || stored.HasCategory() {
		t.Fatalf("unexpected task %+v", stored)
	}
	if store.Calls(memstore.OpCategoriesFind) != 0 {
		t.Fatalf("no category lookup expected without a new category name")
	}
	if len(notes.notes) != 1 || notes.notes[0].Title != "Task added! 📝" {
		t.Fatalf("unexpected notifications %+v", notes.notes)
	}
}

func TestCreateTaskWithSelectedCategory(t *testing.T) {
	uc, store, _ := newUseCase()
	home := store.AddCategory("Home", "u1")

	created, err := uc.Create(context.Background(), viewer, Input{Title: "Laundry", CategoryID: home.ID}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.HasCategory() || *created.CategoryID != home.ID {
		t.Fatalf("expected category %s, got %+v", home.ID, created.CategoryID)
	}
}

func TestNewCategoryOverridesSelection(t *testing.T) {
	uc, store, _ := newUseCase()
	home := store.AddCategory("Home", "u1")
	ctx := context.Background()

	first, err := uc.Create(ctx, viewer, Input{Title: "Run", CategoryID: home.ID, NewCategory: " Fitness "}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := uc.Create(ctx, viewer, Input{Title: "Swim", NewCategory: "Fitness"}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if *first.CategoryID == home.ID {
		t.Fatalf("new category should win over the selected one")
	}
	if *first.CategoryID != *second.CategoryID {
		t.Fatalf("expected both tasks in one category, got %s and %s", *first.CategoryID, *second.CategoryID)
	}
	if got := len(store.CategoriesNamed("Fitness", "u1")); got != 1 {
		t.Fatalf("expected one Fitness category, got %d", got)
	}
}

func TestCreateTaskBlankTitle(t *testing.T) {
	uc, store, notes := newUseCase()
	_, err := uc.Create(context.Background(), viewer, Input{Title: "\t", NewCategory: "Fitness"}, nil)
	if !errors.Is(err, domain.ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if store.Calls(memstore.OpTasksAdd) != 0 || store.Calls(memstore.OpCategoriesAdd) != 0 {
		t.Fatalf("blank title must not reach the store")
	}
	if len(notes.notes) != 0 {
		t.Fatalf("unexpected notifications %+v", notes.notes)
	}
}

func TestCreateTaskRejectsUnknownCategory(t *testing.T) {
	uc, store, notes := newUseCase()
	foreign := store.AddCategory("Home", "u2")

	for _, id := range []string{"missing", foreign.ID} {
		_, err := uc.Create(context.Background(), viewer, Input{Title: "Laundry", CategoryID: id}, nil)
		if !errors.Is(err, domain.ErrUnknownCategory) {
			t.Fatalf("category %q: expected ErrUnknownCategory, got %v", id, err)
		}
	}
	if store.Calls(memstore.OpTasksAdd) != 0 {
		t.Fatalf("task insert must not run with an unusable category")
	}
	if len(notes.notes) != 2 || notes.notes[0].Title != "Error adding task" {
		t.Fatalf("unexpected notifications %+v", notes.notes)
	}
	if notes.notes[0].Description != "category does not exist" {
		t.Fatalf("unexpected description %q", notes.notes[0].Description)
	}
}

type orderedRefresher struct {
	notes *recorder
	seen  int
	calls int
}

func (r *orderedRefresher) Refresh(context.Context) error {
	r.calls++
	r.seen = len(r.notes.notes)
	return nil
}

func TestCreateTaskRefreshesBeforeNotifying(t *testing.T) {
	uc, _, notes := newUseCase()
	after := &orderedRefresher{notes: notes}

	if _, err := uc.Create(context.Background(), viewer, Input{Title: "Laundry"}, after); err != nil {
		t.Fatalf("create: %v", err)
	}
	if after.calls != 1 {
		t.Fatalf("expected one refresh, got %d", after.calls)
	}
	if after.seen != 0 || len(notes.notes) != 1 {
		t.Fatalf("notification must follow the refresh: %d before, %d after", after.seen, len(notes.notes))
	}
}

func TestCreateTaskCategoryFailure(t *testing.T) {
	uc, store, notes := newUseCase()
	store.FailOn(memstore.OpCategoriesFind, errors.New("connection reset"))

	_, err := uc.Create(context.Background(), viewer, Input{Title: "Run", NewCategory: "Fitness"}, nil)
	if !domain.IsDomainError(err, domain.ErrCodeRemote) {
		t.Fatalf("expected a remote error, got %v", err)
	}
	if store.Calls(memstore.OpTasksAdd) != 0 {
		t.Fatalf("task insert must not run after a category failure")
	}
	if len(notes.notes) != 1 || notes.notes[0].Description != "connection reset" {
		t.Fatalf("unexpected notifications %+v", notes.notes)
	}
}
