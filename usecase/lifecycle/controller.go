// Package lifecycle implements the per-record view/edit/complete/delete state
// machine. A controller only writes to the remote store; the local view of the
// record changes when the board re-fetches and calls Sync.
package lifecycle

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/repository"
	"github.com/fastygo/consistency/usecase"
)

type State string

const (
	StateViewing State = "viewing"
	StateEditing State = "editing"
	StateBusy    State = "busy"
	StateRemoved State = "removed"
)

type Action string

const (
	ActionEdit   Action = "edit"
	ActionDraft  Action = "draft"
	ActionSave   Action = "save"
	ActionCancel Action = "cancel"
	ActionToggle Action = "toggle"
	ActionDelete Action = "delete"
)

// ParseAction maps a request path segment onto an Action.
func ParseAction(s string) (Action, bool) {
	switch a := Action(s); a {
	case ActionEdit, ActionDraft, ActionSave, ActionCancel, ActionToggle, ActionDelete:
		return a, true
	}
	return "", false
}

// Draft holds the local, unsaved title and emoji while editing.
type Draft struct {
	Title string `json:"title"`
	Emoji string `json:"emoji"`
}

// Deps are the collaborators a controller talks to.
type Deps struct {
	Mutator   repository.ItemMutator
	Refresher usecase.Refresher
	Notifier  usecase.Notifier
	Logger    *zap.Logger
}

type Controller struct {
	mu      sync.Mutex
	item    domain.Item
	viewer  domain.Identity
	state   State
	resume  State
	draft   Draft
	lastErr error

	mutator   repository.ItemMutator
	refresher usecase.Refresher
	notifier  usecase.Notifier
	logger    *zap.Logger
}

func New(item domain.Item, viewer domain.Identity, deps Deps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("kind", string(item.Kind)), zap.String("item_id", item.ID))
	return &Controller{
		item:      item,
		viewer:    viewer,
		state:     StateViewing,
		mutator:   deps.Mutator,
		refresher: deps.Refresher,
		notifier:  deps.Notifier,
		logger:    logger,
	}
}

// View is a point-in-time copy of the controller state for rendering.
type View struct {
	State   State    `json:"state"`
	Actions []Action `json:"actions"`
	Draft   *Draft   `json:"draft,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{State: c.state, Actions: c.actionsLocked()}
	if c.state == StateEditing || (c.state == StateBusy && c.resume == StateEditing) {
		d := c.draft
		v.Draft = &d
	}
	if c.lastErr != nil {
		v.Error = domain.Message(c.lastErr)
	}
	return v
}

func (c *Controller) Item() domain.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.item
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Actions lists the transitions available to the viewer right now. Viewers
// who do not own the record get none.
func (c *Controller) Actions() []Action {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actionsLocked()
}

func (c *Controller) actionsLocked() []Action {
	if !c.viewer.Owns(c.item.OwnerID) {
		return []Action{}
	}
	switch c.state {
	case StateViewing:
		return []Action{ActionEdit, ActionToggle, ActionDelete}
	case StateEditing:
		return []Action{ActionDraft, ActionSave, ActionCancel, ActionToggle}
	default:
		return []Action{}
	}
}

func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Err returns the error of the last failed transition, cleared by the next one.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// StartEdit enters Editing with the current title and emoji as the draft.
func (c *Controller) StartEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkLocked(StateViewing); err != nil {
		return err
	}
	c.state = StateEditing
	c.draft = Draft{Title: c.item.Title, Emoji: c.item.Emoji}
	c.lastErr = nil
	return nil
}

// SetDraft replaces the local edits. Nothing is sent to the store.
func (c *Controller) SetDraft(d Draft) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkLocked(StateEditing); err != nil {
		return err
	}
	c.draft = d
	return nil
}

// Cancel discards the local edits.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkLocked(StateEditing); err != nil {
		return err
	}
	c.state = StateViewing
	c.draft = Draft{}
	c.lastErr = nil
	return nil
}

// Save persists the trimmed draft. A blank title is rejected locally and the
// controller stays in Editing. A store failure also returns to Editing with
// the draft intact.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	if err := c.checkLocked(StateEditing); err != nil {
		c.mu.Unlock()
		return err
	}
	title := strings.TrimSpace(c.draft.Title)
	if title == "" {
		c.lastErr = domain.ErrEmptyTitle
		c.mu.Unlock()
		return domain.ErrEmptyTitle
	}
	emoji := strings.TrimSpace(c.draft.Emoji)
	if emoji == "" {
		emoji = c.item.Kind.DefaultEmoji()
	}
	c.draft = Draft{Title: title, Emoji: emoji}
	c.enterBusyLocked()
	item := c.item
	c.mu.Unlock()

	err := c.mutator.Update(ctx, item.ID, domain.ItemPatch{Title: &title, Emoji: &emoji})
	msgs := messagesFor(item.Kind)
	if err != nil {
		err = domain.RemoteError(string(item.Kind)+"s.update", err)
		c.fail(StateEditing, err)
		c.notify(ctx, domain.SeverityError, msgs.updateFailed, domain.Message(err))
		return err
	}

	c.succeed(StateViewing)
	c.logger.Debug("item updated")
	c.refresh(ctx)
	c.notify(ctx, domain.SeveritySuccess, msgs.updatedTitle, msgs.updatedBody)
	return nil
}

// ToggleComplete flips the completed flag. It is available while viewing and
// while editing; the controller returns to whichever it was in.
func (c *Controller) ToggleComplete(ctx context.Context) error {
	c.mu.Lock()
	if err := c.checkLocked(StateViewing, StateEditing); err != nil {
		c.mu.Unlock()
		return err
	}
	prior := c.state
	c.enterBusyLocked()
	item := c.item
	c.mu.Unlock()

	completed := !item.Completed
	err := c.mutator.Update(ctx, item.ID, domain.ItemPatch{Completed: &completed})
	msgs := messagesFor(item.Kind)
	if err != nil {
		err = domain.RemoteError(string(item.Kind)+"s.update", err)
		c.fail(prior, err)
		c.notify(ctx, domain.SeverityError, toggleFailed, domain.Message(err))
		return err
	}

	c.succeed(prior)
	c.logger.Debug("item completion toggled", zap.Bool("completed", completed))
	c.refresh(ctx)
	if completed {
		c.notify(ctx, domain.SeveritySuccess, msgs.completedTitle, msgs.completedBody)
	} else {
		c.notify(ctx, domain.SeverityInfo, msgs.uncompletedTitle, msgs.uncompletedBody)
	}
	return nil
}

// Delete removes the record from the store. On failure the record stays as
// it was.
func (c *Controller) Delete(ctx context.Context) error {
	c.mu.Lock()
	if err := c.checkLocked(StateViewing); err != nil {
		c.mu.Unlock()
		return err
	}
	c.enterBusyLocked()
	item := c.item
	c.mu.Unlock()

	err := c.mutator.Delete(ctx, item.ID)
	msgs := messagesFor(item.Kind)
	if err != nil {
		err = domain.RemoteError(string(item.Kind)+"s.delete", err)
		c.fail(StateViewing, err)
		c.notify(ctx, domain.SeverityError, msgs.deleteFailed, domain.Message(err))
		return err
	}

	c.succeed(StateRemoved)
	c.logger.Debug("item deleted")
	c.refresh(ctx)
	c.notify(ctx, domain.SeveritySuccess, msgs.deletedTitle, msgs.deletedBody)
	return nil
}

// Sync replaces the record with a freshly fetched copy. Local edits survive.
func (c *Controller) Sync(item domain.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.item = item
}

func (c *Controller) checkLocked(allowed ...State) error {
	if !c.viewer.Owns(c.item.OwnerID) {
		return domain.ErrNotOwner
	}
	switch c.state {
	case StateBusy:
		return domain.ErrBusy
	case StateRemoved:
		return domain.ErrItemNotFound
	}
	for _, s := range allowed {
		if c.state == s {
			return nil
		}
	}
	return domain.ErrInvalidTransition
}

func (c *Controller) enterBusyLocked() {
	c.resume = c.state
	c.state = StateBusy
	c.lastErr = nil
}

func (c *Controller) fail(back State, err error) {
	c.mu.Lock()
	c.state = back
	c.lastErr = err
	c.mu.Unlock()
	c.logger.Warn("item mutation failed", zap.Error(err))
}

func (c *Controller) succeed(next State) {
	c.mu.Lock()
	c.state = next
	if next != StateEditing {
		c.draft = Draft{}
	}
	c.mu.Unlock()
}

func (c *Controller) notify(ctx context.Context, severity domain.Severity, title, description string) {
	usecase.Notify(ctx, c.notifier, c.viewer.UserID, severity, title, description)
}

// refresh must run without c.mu held: the board syncs every controller.
func (c *Controller) refresh(ctx context.Context) {
	if c.refresher == nil {
		return
	}
	if err := c.refresher.Refresh(ctx); err != nil {
		c.logger.Warn("refresh after mutation failed", zap.Error(err))
	}
}
