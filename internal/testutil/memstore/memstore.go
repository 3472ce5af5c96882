// Package memstore is an in-memory remote store used by tests. It counts
// calls per operation and can be told to fail specific operations.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/repository"
)

// Operation names used by Calls and FailOn.
const (
	OpProfilesGet    = "profiles.get"
	OpProfilesIn     = "profiles.in"
	OpCategoriesFind = "categories.find"
	OpCategoriesIn   = "categories.in"
	OpCategoriesList = "categories.list"
	OpCategoriesAdd  = "categories.insert"
	OpGoalsList      = "goals.list"
	OpGoalsAdd       = "goals.insert"
	OpGoalsUpdate    = "goals.update"
	OpGoalsDelete    = "goals.delete"
	OpTasksList      = "tasks.list"
	OpTasksAdd       = "tasks.insert"
	OpTasksUpdate    = "tasks.update"
	OpTasksDelete    = "tasks.delete"
)

// Store holds all four collections behind one mutex.
type Store struct {
	mu         sync.Mutex
	counter    int
	clock      time.Time
	profiles   map[string]domain.Profile
	categories map[string]domain.Category
	goals      map[string]domain.DailyGoal
	tasks      map[string]domain.Task
	calls      map[string]int
	failures   map[string]error
	// BeforeInsertCategory runs inside Create before the uniqueness check.
	BeforeInsertCategory func(c domain.Category)
}

func New() *Store {
	return &Store{
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		profiles:   make(map[string]domain.Profile),
		categories: make(map[string]domain.Category),
		goals:      make(map[string]domain.DailyGoal),
		tasks:      make(map[string]domain.Task),
		calls:      make(map[string]int),
		failures:   make(map[string]error),
	}
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() repository.Store {
	return repository.Store{
		Profiles:   profiles{s},
		Categories: categories{s},
		Goals:      goals{s},
		Tasks:      tasks{s},
	}
}

// FailOn makes every call to op return err until cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Calls returns how many times op was invoked.
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// ResetCalls zeroes every counter.
func (s *Store) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[string]int)
}

func (s *Store) AddProfile(ownerID, displayName string) domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := domain.Profile{ID: s.newID("profile"), OwnerID: ownerID, DisplayName: displayName, CreatedAt: s.tick(), UpdatedAt: s.clock}
	s.profiles[p.ID] = p
	return p
}

func (s *Store) AddCategory(name, createdBy string) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := domain.Category{ID: s.newID("category"), Name: name, CreatedBy: createdBy, CreatedAt: s.tick()}
	s.categories[c.ID] = c
	return c
}

func (s *Store) AddGoal(g domain.DailyGoal) domain.DailyGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == "" {
		g.ID = s.newID("goal")
	}
	g.CreatedAt = s.tick()
	g.UpdatedAt = g.CreatedAt
	s.goals[g.ID] = g
	return g
}

func (s *Store) AddTask(t domain.Task) domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = s.newID("task")
	}
	t.CreatedAt = s.tick()
	t.UpdatedAt = t.CreatedAt
	s.tasks[t.ID] = t
	return t
}

// Goal returns the stored goal with id.
func (s *Store) Goal(id string) (domain.DailyGoal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	return g, ok
}

// Task returns the stored task with id.
func (s *Store) Task(id string) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	return t, ok
}

// CategoriesNamed returns every category with the given name and creator.
func (s *Store) CategoriesNamed(name, createdBy string) []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Category
	for _, c := range s.categories {
		if c.Name == name && c.CreatedBy == createdBy {
			out = append(out, c)
		}
	}
	return out
}

// call records op and returns the injected failure, if any. Caller holds mu.
func (s *Store) call(op string) error {
	s.calls[op]++
	return s.failures[op]
}

func (s *Store) newID(prefix string) string {
	s.counter++
	return fmt.Sprintf("%s-%d", prefix, s.counter)
}

func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type profiles struct{ s *Store }

func (r profiles) GetByOwnerID(_ context.Context, ownerID string) (*domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.call(OpProfilesGet); err != nil {
		return nil, err
	}
	for _, p := range r.s.profiles {
		if p.OwnerID == ownerID {
			return &p, nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (r profiles) ListByOwnerIDs(_ context.Context, ownerIDs []string) ([]domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.call(OpProfilesIn); err != nil {
		return nil, err
	}
	want := toSet(ownerIDs)
	var out []domain.Profile
	for _, p := range r.s.profiles {
		if _, ok := want[p.OwnerID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type categories struct{ s *Store }

func (r categories) FindByName(_ context.Context, name, createdBy string) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.call(OpCategoriesFind); err != nil {
		return nil, err
	}
	for _, c := range r.s.categories {
		if c.Name == name && c.CreatedBy == createdBy {
			return &c, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

func (r categories) ListByIDs(_ context.Context, ids []string) ([]domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.call(OpCategoriesIn); err != nil {
		return nil, err
	}
	want := toSet(ids)
	var out []domain.Category
	for _, c := range r.s.categories {
		if _, ok := want[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r categories) ListByOwner(_ context.Context, createdBy string) ([]domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.call(OpCategoriesList); err != nil {
		return nil, err
	}
	var out []domain.Category
	for _, c := range r.s.categories {
		if c.CreatedBy == createdBy {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r categories) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	hook := r.s.BeforeInsertCategory
	r.s.mu.Unlock()
	if hook != nil {
		hook(*category)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.call(OpCategoriesAdd); err != nil {
		return nil, err
	}
	for _, c := range r.s.categories {
		if c.Name == category.Name && c.CreatedBy == category.CreatedBy {
			return nil, domain.ErrCategoryExists
		}
	}
	created := *category
	if created.ID == "" {
		created.ID = r.s.newID("category")
	}
	created.CreatedAt = r.s.tick()
	r.s.categories[created.ID] = created
	return &created, nil
}

type goals struct{ s *Store }

func (r goals) List(_ context.Context, filter repository.GoalFilter) ([]domain.DailyGoal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.call(OpGoalsList); err != nil {
		return nil, err
	}
	var out []domain.DailyGoal
	for _, g := range r.s.goals {
		if filter.GoalDate != "" && g.GoalDate != filter.GoalDate {
			continue
		}
		if filter.OwnerID != "" && g.OwnerID != filter.OwnerID {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r goals) Create(_ context.Context, goal *domain.DailyGoal) (*domain.DailyGoal, error) {
	if goal == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.call(OpGoalsAdd); err != nil {
		return nil, err
	}
	created := *goal
	if created.ID == "" {
		created.ID = r.s.newID("goal")
	}
	created.CreatedAt = r.s.tick()
	created.UpdatedAt = created.CreatedAt
	r.s.goals[created.ID] = created
	return &created, nil
}

func (r goals) Update(_ context.Context, id string, patch domain.ItemPatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.call(OpGoalsUpdate); err != nil {
		return err
	}
	g, ok := r.s.goals[id]
	if !ok {
		return domain.ErrGoalNotFound
	}
	applyPatch(&g.Title, &g.Emoji, &g.Completed, patch)
	g.UpdatedAt = r.s.tick()
	r.s.goals[id] = g
	return nil
}

func (r goals) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.call(OpGoalsDelete); err != nil {
		return err
	}
	if _, ok := r.s.goals[id]; !ok {
		return domain.ErrGoalNotFound
	}
	delete(r.s.goals, id)
	return nil
}

type tasks struct{ s *Store }

func (r tasks) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.call(OpTasksList); err != nil {
		return nil, err
	}
	var out []domain.Task
	for _, t := range r.s.tasks {
		if filter.OwnerID != "" && t.OwnerID != filter.OwnerID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r tasks) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.call(OpTasksAdd); err != nil {
		return nil, err
	}
	if task.HasCategory() {
		if _, ok := r.s.categories[*task.CategoryID]; !ok {
			return nil, errors.New(`insert or update on table "tasks" violates foreign key constraint "tasks_category_id_fkey"`)
		}
	}
	created := *task
	if created.ID == "" {
		created.ID = r.s.newID("task")
	}
	created.CreatedAt = r.s.tick()
	created.UpdatedAt = created.CreatedAt
	r.s.tasks[created.ID] = created
	return &created, nil
}

func (r tasks) Update(_ context.Context, id string, patch domain.ItemPatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.call(OpTasksUpdate); err != nil {
		return err
	}
	t, ok := r.s.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	applyPatch(&t.Title, &t.Emoji, &t.Completed, patch)
	t.UpdatedAt = r.s.tick()
	r.s.tasks[id] = t
	return nil
}

func (r tasks) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.call(OpTasksDelete); err != nil {
		return err
	}
	if _, ok := r.s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

func applyPatch(title, emoji *string, completed *bool, patch domain.ItemPatch) {
	if patch.Title != nil {
		*title = *patch.Title
	}
	if patch.Emoji != nil {
		*emoji = *patch.Emoji
	}
	if patch.Completed != nil {
		*completed = *patch.Completed
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
