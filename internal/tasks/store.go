package tasks

import (
	"strings"
	"sync"
)

// Store is an in-memory, insertion-ordered task list.
// Ids are handed out from a counter that always stays above every id the
// store has ever held, so ids are unique for the store's lifetime.
type Store struct {
	mu     sync.Mutex
	tasks  []Task
	nextID int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Add creates a task. Whitespace-only titles are rejected (ok=false).
// Unknown priorities fall back to medium and non-positive durations to
// DefaultDuration.
func (s *Store) Add(title string, priority Priority, duration int) (Task, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, false
	}
	if !priority.Valid() {
		priority = PriorityMedium
	}
	if duration <= 0 {
		duration = DefaultDuration
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := Task{
		ID:                s.nextID,
		Title:             title,
		Priority:          priority,
		EstimatedDuration: duration,
		Category:          DefaultCategory,
	}
	s.nextID++
	s.tasks = append(s.tasks, t)
	return t, true
}

// Insert adds pre-built tasks, e.g. seeds. Tasks whose id collides with an
// existing one, or that have no title, are given a fresh id or skipped.
func (s *Store) Insert(tasks ...Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range tasks {
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			continue
		}
		if t.ID <= 0 || s.indexLocked(t.ID) >= 0 {
			t.ID = s.nextID
		}
		if !t.Priority.Valid() {
			t.Priority = PriorityMedium
		}
		if t.EstimatedDuration <= 0 {
			t.EstimatedDuration = DefaultDuration
		}
		if t.Category == "" {
			t.Category = DefaultCategory
		}
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
		s.tasks = append(s.tasks, t)
	}
}

// Remove deletes the task with the given id. Removing an unknown id is not an error.
func (s *Store) Remove(id int) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Task{}, false
	}
	t := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return t, true
}

// Get looks up a task by id.
func (s *Store) Get(id int) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// List returns a copy of the tasks in insertion order.
func (s *Store) List() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// TotalMinutes sums the estimated durations.
func (s *Store) TotalMinutes() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, t := range s.tasks {
		total += t.EstimatedDuration
	}
	return total
}

// Reset empties the store. The id counter is kept so old ids are never reissued.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = nil
}

func (s *Store) indexLocked(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
