package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// TaskService owns the ordered task collection of the active account.
//
// Every mutation validates first, then persists the whole new collection,
// and only then swaps it in: a failed validation or a failed write leaves
// both the stored and the in-memory collection untouched.
type TaskService interface {
	// Load replaces the in-memory collection with the stored collection of
	// account. An empty account unloads the collection.
	Load(ctx context.Context, account string) error
	Account() string

	Create(ctx context.Context, in models.TaskInput) (*models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) error
	Delete(ctx context.Context, id string) error
	ToggleCompleted(ctx context.Context, id string) error

	// Reorder moves id immediately before beforeID, or to the end when
	// beforeID is empty.
	Reorder(ctx context.Context, id, beforeID string) error

	View(q models.ViewQuery) []models.Task
	Upcoming(limit int) []models.Task
	Get(id string) (*models.Task, error)

	ClearCompleted(ctx context.Context) (int, error)

	ExportAll() []models.Task
	ExportJSON() ([]byte, error)
	ImportMany(ctx context.Context, in []models.Task) (int, error)
	ImportJSON(ctx context.Context, data []byte) (int, error)

	// TakeDueReminders marks every task whose reminder is due at now as
	// notified, persists that, and returns copies of those tasks.
	TakeDueReminders(ctx context.Context, now time.Time) ([]models.Task, error)
}

type TaskOption func(*taskService)

// WithClock sets the time source used for CreatedAt.
func WithClock(now func() time.Time) TaskOption {
	return func(s *taskService) { s.now = now }
}

// WithIDGenerator replaces the task id generator.
func WithIDGenerator(fn func() (string, error)) TaskOption {
	return func(s *taskService) { s.newID = fn }
}

type taskService struct {
	repo   tasks.Repository
	logger logging.Logger
	now    func() time.Time
	newID  func() (string, error)

	mu      sync.Mutex
	account string
	items   []models.Task
}

func NewTaskService(repo tasks.Repository, logger logging.Logger, opts ...TaskOption) TaskService {
	s := &taskService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  NewTaskID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTaskID returns a UUIDv7: a millisecond timestamp prefix followed by
// random bits.
func NewTaskID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate task id: %w", err)
	}
	return id.String(), nil
}

func (s *taskService) Load(ctx context.Context, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account == "" {
		s.account, s.items = "", nil
		return nil
	}

	list, err := s.repo.Load(ctx, account)
	if err != nil {
		// never keep the previous account's tasks around
		s.account, s.items = "", nil
		return fmt.Errorf("load tasks: %w", err)
	}
	s.account, s.items = account, list
	s.logger.Debug(ctx, "tasks loaded", "account", account, "count", len(list))
	return nil
}

func (s *taskService) Account() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// commit persists next and installs it. Callers hold s.mu.
func (s *taskService) commit(ctx context.Context, next []models.Task) error {
	if err := s.repo.Save(ctx, s.account, next); err != nil {
		s.logger.Error(ctx, "saving tasks failed", "account", s.account, "error", err)
		return fmt.Errorf("save tasks: %w", err)
	}
	s.items = next
	return nil
}

func (s *taskService) snapshot() []models.Task {
	out := make([]models.Task, len(s.items))
	for i, t := range s.items {
		out[i] = t.Clone()
	}
	return out
}

func (s *taskService) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(t models.Task) bool { return t.ID == id })
}

func (s *taskService) uniqueID(taken map[string]struct{}) (string, error) {
	for {
		id, err := s.newID()
		if err != nil {
			return "", err
		}
		if _, dup := taken[id]; !dup {
			taken[id] = struct{}{}
			return id, nil
		}
	}
}

func (s *taskService) takenIDs() map[string]struct{} {
	taken := make(map[string]struct{}, len(s.items))
	for _, t := range s.items {
		taken[t.ID] = struct{}{}
	}
	return taken
}

func validateReminder(r *int) error {
	if r != nil && *r < 0 {
		return fmt.Errorf("%w: reminder must not be negative", common.ErrValidation)
	}
	return nil
}

func (s *taskService) Create(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", common.ErrValidation, in.Priority)
	}
	if err := validateReminder(in.Reminder); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == "" {
		return nil, common.ErrNoSession
	}

	id, err := s.uniqueID(s.takenIDs())
	if err != nil {
		return nil, err
	}

	t := models.Task{
		ID:        id,
		Title:     title,
		Details:   strings.TrimSpace(in.Details),
		Due:       in.Due,
		Priority:  priority,
		Reminder:  in.Reminder,
		CreatedAt: s.now(),
	}
	t = t.Clone()

	next := append(s.snapshot(), t)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "task created", "id", id)
	out := t.Clone()
	return &out, nil
}

// Update applies the fields present in patch. An empty title in the patch
// is ignored and the previous title kept.
func (s *taskService) Update(ctx context.Context, id string, patch models.TaskPatch) error {
	if patch.Priority != nil && !patch.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", common.ErrValidation, *patch.Priority)
	}
	if err := validateReminder(patch.Reminder); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == "" {
		return common.ErrNoSession
	}

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("task %s: %w", id, common.ErrNotFound)
	}

	next := s.snapshot()
	t := &next[i]

	if patch.Title != nil {
		if title := strings.TrimSpace(*patch.Title); title != "" {
			t.Title = title
		}
	}
	if patch.Details != nil {
		t.Details = *patch.Details
	}
	switch {
	case patch.ClearDue:
		t.Due = nil
	case patch.Due != nil:
		d := *patch.Due
		t.Due = &d
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	switch {
	case patch.ClearReminder:
		t.Reminder = nil
	case patch.Reminder != nil:
		r := *patch.Reminder
		t.Reminder = &r
	}

	return s.commit(ctx, next)
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == "" {
		return common.ErrNoSession
	}

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("task %s: %w", id, common.ErrNotFound)
	}
	return s.commit(ctx, slices.Delete(s.snapshot(), i, i+1))
}

func (s *taskService) ToggleCompleted(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == "" {
		return common.ErrNoSession
	}

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("task %s: %w", id, common.ErrNotFound)
	}
	next := s.snapshot()
	next[i].Completed = !next[i].Completed
	return s.commit(ctx, next)
}

func (s *taskService) Reorder(ctx context.Context, id, beforeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == "" {
		return common.ErrNoSession
	}

	from := s.indexOf(id)
	if from < 0 {
		return fmt.Errorf("task %s: %w", id, common.ErrNotFound)
	}
	if beforeID != "" && s.indexOf(beforeID) < 0 {
		return fmt.Errorf("drop target %s: %w", beforeID, common.ErrNotFound)
	}
	if beforeID == id {
		return nil
	}

	next := s.snapshot()
	moved := next[from]
	next = slices.Delete(next, from, from+1)

	to := len(next)
	if beforeID != "" {
		to = slices.IndexFunc(next, func(t models.Task) bool { return t.ID == beforeID })
	}
	next = slices.Insert(next, to, moved)

	return s.commit(ctx, next)
}

// View filters and optionally sorts a copy of the collection. The stored
// order is never changed by it.
func (s *taskService) View(q models.ViewQuery) []models.Task {
	s.mu.Lock()
	all := s.snapshot()
	s.mu.Unlock()

	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(q.Search))

	out := make([]models.Task, 0, len(all))
	for _, t := range all {
		switch q.Status {
		case models.StatusActive:
			if t.Completed {
				continue
			}
		case models.StatusCompleted:
			if !t.Completed {
				continue
			}
		}
		if needle != "" &&
			!strings.Contains(fold.String(t.Title), needle) &&
			!strings.Contains(fold.String(t.Details), needle) {
			continue
		}
		out = append(out, t)
	}

	if q.SortByDue {
		SortByDue(out)
	}
	return out
}

// SortByDue orders tasks by ascending due date in place. Undated tasks go
// last; ties and undated tasks keep their relative order.
func SortByDue(list []models.Task) {
	slices.SortStableFunc(list, func(a, b models.Task) int {
		switch {
		case a.Due == nil && b.Due == nil:
			return 0
		case a.Due == nil:
			return 1
		case b.Due == nil:
			return -1
		default:
			return a.Due.Compare(*b.Due)
		}
	})
}

// Upcoming returns up to limit open dated tasks, soonest first.
func (s *taskService) Upcoming(limit int) []models.Task {
	s.mu.Lock()
	all := s.snapshot()
	s.mu.Unlock()

	out := make([]models.Task, 0, limit)
	for _, t := range all {
		if t.Due != nil && !t.Completed {
			out = append(out, t)
		}
	}
	SortByDue(out)
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *taskService) Get(id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("task %s: %w", id, common.ErrNotFound)
	}
	t := s.items[i].Clone()
	return &t, nil
}

func (s *taskService) ClearCompleted(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == "" {
		return 0, common.ErrNoSession
	}

	next := slices.DeleteFunc(s.snapshot(), func(t models.Task) bool { return t.Completed })
	removed := len(s.items) - len(next)
	if removed == 0 {
		return 0, nil
	}
	if err := s.commit(ctx, next); err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *taskService) ExportAll() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// ExportJSON serializes the collection verbatim, internal fields included.
func (s *taskService) ExportJSON() ([]byte, error) {
	b, err := json.MarshalIndent(s.ExportAll(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return b, nil
}

// ImportMany appends in to the collection under fresh ids. Ids present in
// the input are ignored. If any record is invalid nothing is imported.
func (s *taskService) ImportMany(ctx context.Context, in []models.Task) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == "" {
		return 0, common.ErrNoSession
	}

	incoming := make([]models.Task, 0, len(in))
	for i, t := range in {
		t = t.Clone()
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			return 0, fmt.Errorf("%w: item %d has no title", common.ErrImport, i)
		}
		if t.Priority == "" || !t.Priority.Valid() {
			t.Priority = models.PriorityMedium
		}
		if t.Reminder != nil && *t.Reminder < 0 {
			return 0, fmt.Errorf("%w: item %d has a negative reminder", common.ErrImport, i)
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = s.now()
		}
		incoming = append(incoming, t)
	}

	taken := s.takenIDs()
	for _, t := range in {
		taken[t.ID] = struct{}{}
	}
	for i := range incoming {
		id, err := s.uniqueID(taken)
		if err != nil {
			return 0, err
		}
		incoming[i].ID = id
	}

	if err := s.commit(ctx, append(s.snapshot(), incoming...)); err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "tasks imported", "account", s.account, "count", len(incoming))
	return len(incoming), nil
}

// ImportJSON decodes a JSON array of task objects and imports it.
func (s *taskService) ImportJSON(ctx context.Context, data []byte) (int, error) {
	list, err := models.DecodeTasks(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrImport, err)
	}
	return s.ImportMany(ctx, list)
}

func (s *taskService) TakeDueReminders(ctx context.Context, now time.Time) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == "" {
		return nil, nil
	}

	next := s.snapshot()
	var due []models.Task
	for i := range next {
		if next[i].ReminderDue(now) {
			next[i].Notified = true
			due = append(due, next[i].Clone())
		}
	}
	if len(due) == 0 {
		return nil, nil
	}

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return due, nil
}
