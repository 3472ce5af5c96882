package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fastygo/consistency/domain"
)

type mutatorFake struct {
	mu      sync.Mutex
	updates []domain.ItemPatch
	deletes []string
	err     error
}

func (m *mutatorFake) Update(_ context.Context, _ string, patch domain.ItemPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, patch)
	return m.err
}

func (m *mutatorFake) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, id)
	return m.err
}

func (m *mutatorFake) requests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.updates) + len(m.deletes)
}

type refresherFake struct {
	calls int
	err   error
}

func (r *refresherFake) Refresh(context.Context) error {
	r.calls++
	return r.err
}

type notifierFake struct {
	sent []domain.Notification
}

func (n *notifierFake) Notify(_ context.Context, note domain.Notification) {
	n.sent = append(n.sent, note)
}

func (n *notifierFake) last() domain.Notification {
	if len(n.sent) == 0 {
		return domain.Notification{}
	}
	return n.sent[len(n.sent)-1]
}

type fixture struct {
	ctrl      *Controller
	mutator   *mutatorFake
	refresher *refresherFake
	notifier  *notifierFake
}

func newFixture(kind domain.ItemKind, viewer string) fixture {
	f := fixture{
		mutator:   &mutatorFake{},
		refresher: &refresherFake{},
		notifier:  &notifierFake{},
	}
	item := domain.Item{Kind: kind, ID: "item-1", OwnerID: "owner", Title: "Run 5k", Emoji: "🏃"}
	f.ctrl = New(item, domain.Identity{UserID: viewer, SessionID: "s1"}, Deps{
		Mutator:   f.mutator,
		Refresher: f.refresher,
		Notifier:  f.notifier,
	})
	return f
}

func TestNonOwnerHasNoTransitions(t *testing.T) {
	f := newFixture(domain.KindGoal, "someone-else")
	ctx := context.Background()

	if got := f.ctrl.Actions(); len(got) != 0 {
		t.Fatalf("expected no actions for non-owner, got %v", got)
	}

	attempts := map[string]func() error{
		"toggle": func() error { return f.ctrl.ToggleComplete(ctx) },
		"edit":   f.ctrl.StartEdit,
		"delete": func() error { return f.ctrl.Delete(ctx) },
	}
	for name, attempt := range attempts {
		if err := attempt(); !errors.Is(err, domain.ErrNotOwner) {
			t.Errorf("%s: expected ErrNotOwner, got %v", name, err)
		}
	}
	if f.mutator.requests() != 0 {
		t.Fatalf("non-owner must not issue requests, got %d", f.mutator.requests())
	}
	if f.ctrl.State() != StateViewing {
		t.Fatalf("state changed to %s", f.ctrl.State())
	}
}

func TestUnauthenticatedViewerOwnsNothing(t *testing.T) {
	f := newFixture(domain.KindTask, "")
	f.ctrl.Sync(domain.Item{Kind: domain.KindTask, ID: "item-1"})
	if got := f.ctrl.Actions(); len(got) != 0 {
		t.Fatalf("expected no actions without a user, got %v", got)
	}
}

func TestSaveRejectsBlankTitle(t *testing.T) {
	f := newFixture(domain.KindGoal, "owner")
	if err := f.ctrl.StartEdit(); err != nil {
		t.Fatalf("start edit: %v", err)
	}
	if err := f.ctrl.SetDraft(Draft{Title: "   ", Emoji: "🎯"}); err != nil {
		t.Fatalf("set draft: %v", err)
	}

	err := f.ctrl.Save(context.Background())
	if !errors.Is(err, domain.ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if f.mutator.requests() != 0 {
		t.Fatal("blank title must not reach the store")
	}
	if f.ctrl.State() != StateEditing {
		t.Fatalf("expected Editing, got %s", f.ctrl.State())
	}
	if !errors.Is(f.ctrl.Err(), domain.ErrEmptyTitle) {
		t.Fatalf("expected validation error to be kept, got %v", f.ctrl.Err())
	}
	if len(f.notifier.sent) != 0 {
		t.Fatal("validation errors are not remote failures")
	}
}

func TestSaveTrimsAndDefaultsEmoji(t *testing.T) {
	f := newFixture(domain.KindTask, "owner")
	_ = f.ctrl.StartEdit()
	_ = f.ctrl.SetDraft(Draft{Title: "  Read a chapter  ", Emoji: " "})

	if err := f.ctrl.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(f.mutator.updates) != 1 {
		t.Fatalf("expected one update, got %d", len(f.mutator.updates))
	}
	patch := f.mutator.updates[0]
	if patch.Title == nil || *patch.Title != "Read a chapter" {
		t.Fatalf("expected trimmed title, got %v", patch.Title)
	}
	if patch.Emoji == nil || *patch.Emoji != domain.DefaultTaskEmoji {
		t.Fatalf("expected default emoji, got %v", patch.Emoji)
	}
	if patch.Completed != nil {
		t.Fatal("save must not touch completion")
	}
	if f.ctrl.State() != StateViewing {
		t.Fatalf("expected Viewing, got %s", f.ctrl.State())
	}
	if f.refresher.calls != 1 {
		t.Fatalf("expected one refresh, got %d", f.refresher.calls)
	}
	if got := f.notifier.last().Title; got != "Task updated" {
		t.Fatalf("unexpected notification %q", got)
	}
}

func TestSaveFailureKeepsDraft(t *testing.T) {
	f := newFixture(domain.KindGoal, "owner")
	f.mutator.err = errors.New("new row violates row-level security policy")
	_ = f.ctrl.StartEdit()
	_ = f.ctrl.SetDraft(Draft{Title: "Swim", Emoji: "🏊"})

	err := f.ctrl.Save(context.Background())
	if !domain.IsDomainError(err, domain.ErrCodeRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if f.ctrl.State() != StateEditing {
		t.Fatalf("expected Editing, got %s", f.ctrl.State())
	}
	if got := f.ctrl.Draft(); got.Title != "Swim" || got.Emoji != "🏊" {
		t.Fatalf("draft lost: %+v", got)
	}
	note := f.notifier.last()
	if note.Severity != domain.SeverityError || note.Title != "Error updating goal" {
		t.Fatalf("unexpected notification %+v", note)
	}
	if note.Description != "new row violates row-level security policy" {
		t.Fatalf("store message must pass through, got %q", note.Description)
	}
	if f.refresher.calls != 0 {
		t.Fatal("failed mutations must not refresh")
	}
}

func TestCancelDiscardsDraft(t *testing.T) {
	f := newFixture(domain.KindGoal, "owner")
	_ = f.ctrl.StartEdit()
	_ = f.ctrl.SetDraft(Draft{Title: "changed"})
	if err := f.ctrl.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if f.ctrl.State() != StateViewing || f.ctrl.Draft() != (Draft{}) {
		t.Fatalf("expected clean Viewing state, got %s %+v", f.ctrl.State(), f.ctrl.Draft())
	}
	if f.ctrl.Item().Title != "Run 5k" {
		t.Fatal("cancel must not change the record")
	}
}

func TestToggleFromEditingResumesEditing(t *testing.T) {
	f := newFixture(domain.KindGoal, "owner")
	_ = f.ctrl.StartEdit()
	_ = f.ctrl.SetDraft(Draft{Title: "half typed"})

	if err := f.ctrl.ToggleComplete(context.Background()); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	patch := f.mutator.updates[0]
	if patch.Completed == nil || !*patch.Completed || patch.Title != nil {
		t.Fatalf("unexpected patch %+v", patch)
	}
	if f.ctrl.State() != StateEditing || f.ctrl.Draft().Title != "half typed" {
		t.Fatalf("expected to resume editing, got %s %+v", f.ctrl.State(), f.ctrl.Draft())
	}
	if got := f.notifier.last().Title; got != "Goal completed! 🎉" {
		t.Fatalf("unexpected notification %q", got)
	}
}

func TestToggleUncheck(t *testing.T) {
	f := newFixture(domain.KindTask, "owner")
	f.ctrl.Sync(domain.Item{Kind: domain.KindTask, ID: "item-1", OwnerID: "owner", Title: "Run 5k", Completed: true})

	if err := f.ctrl.ToggleComplete(context.Background()); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if *f.mutator.updates[0].Completed {
		t.Fatal("expected completed=false")
	}
	if got := f.notifier.last().Title; got != "Task unchecked" {
		t.Fatalf("unexpected notification %q", got)
	}
}

func TestDeleteFailureLeavesRecord(t *testing.T) {
	f := newFixture(domain.KindTask, "owner")
	f.mutator.err = errors.New("update or delete on table violates foreign key constraint")
	before := f.ctrl.Item()

	err := f.ctrl.Delete(context.Background())
	if err == nil {
		t.Fatal("expected delete to fail")
	}
	if f.ctrl.State() != StateViewing {
		t.Fatalf("expected Viewing, got %s", f.ctrl.State())
	}
	if f.ctrl.Item() != before {
		t.Fatal("record changed after failed delete")
	}
	note := f.notifier.last()
	if note.Severity != domain.SeverityError || note.Title != "Error deleting task" {
		t.Fatalf("unexpected notification %+v", note)
	}
}

func TestDeleteSuccess(t *testing.T) {
	f := newFixture(domain.KindGoal, "owner")
	if err := f.ctrl.Delete(context.Background()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(f.mutator.deletes) != 1 || f.mutator.deletes[0] != "item-1" {
		t.Fatalf("expected one delete scoped by id, got %v", f.mutator.deletes)
	}
	if f.ctrl.State() != StateRemoved {
		t.Fatalf("expected Removed, got %s", f.ctrl.State())
	}
	if f.refresher.calls != 1 {
		t.Fatalf("expected refresh after delete, got %d", f.refresher.calls)
	}
	if err := f.ctrl.StartEdit(); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("removed items accept no transitions, got %v", err)
	}
}

func TestDeleteOnlyFromViewing(t *testing.T) {
	f := newFixture(domain.KindGoal, "owner")
	_ = f.ctrl.StartEdit()
	if err := f.ctrl.Delete(context.Background()); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if f.mutator.requests() != 0 {
		t.Fatal("rejected transition issued a request")
	}
}

type blockingMutator struct {
	mutatorFake
	entered chan struct{}
	release chan struct{}
}

func (b *blockingMutator) Update(ctx context.Context, id string, patch domain.ItemPatch) error {
	close(b.entered)
	<-b.release
	return b.mutatorFake.Update(ctx, id, patch)
}

func TestBusyRejectsSecondTransition(t *testing.T) {
	m := &blockingMutator{entered: make(chan struct{}), release: make(chan struct{})}
	item := domain.Item{Kind: domain.KindGoal, ID: "g1", OwnerID: "owner", Title: "x"}
	ctrl := New(item, domain.Identity{UserID: "owner"}, Deps{Mutator: m})

	done := make(chan error, 1)
	go func() { done <- ctrl.ToggleComplete(context.Background()) }()
	<-m.entered

	if ctrl.State() != StateBusy {
		t.Fatalf("expected Busy, got %s", ctrl.State())
	}
	if got := ctrl.Actions(); len(got) != 0 {
		t.Fatalf("expected no actions while busy, got %v", got)
	}
	if err := ctrl.Delete(context.Background()); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(m.release)
	if err := <-done; err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if ctrl.State() != StateViewing {
		t.Fatalf("expected Viewing, got %s", ctrl.State())
	}
}

func TestParseAction(t *testing.T) {
	for _, s := range []string{"edit", "draft", "save", "cancel", "toggle", "delete"} {
		if _, ok := ParseAction(s); !ok {
			t.Errorf("expected %q to parse", s)
		}
	}
	if _, ok := ParseAction("publish"); ok {
		t.Error("unknown action parsed")
	}
}
