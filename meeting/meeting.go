package meeting

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("meeting not found")

type ActionItem struct {
	Owner       string `json:"owner,omitempty"`
	Description string `json:"description"`
}

// Meeting is the unit of domain data. Identifiers are unique and stable
// once assigned; records are never deleted for the lifetime of the process.
type Meeting struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Time        string       `json:"time"`
	Attendees   []string     `json:"attendees"`
	ActionItems []ActionItem `json:"action_items"`
	Notes       string       `json:"notes,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Store owns all meeting records in memory. The chat loop is strictly
// sequential, but the store still locks so a second session cannot
// corrupt it.
type Store struct {
	mu       sync.RWMutex
	meetings map[string]*Meeting
	order    []string
}

func NewStore() *Store {
	return &Store{
		meetings: make(map[string]*Meeting),
	}
}

// Create adds an empty meeting and returns its id.
func (s *Store) Create(title, scheduledTime string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	m := &Meeting{
		ID:          id.String(),
		Title:       title,
		Time:        scheduledTime,
		Attendees:   []string{},
		ActionItems: []ActionItem{},
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.meetings[m.ID] = m
	s.order = append(s.order, m.ID)
	s.mu.Unlock()

	return m.ID, nil
}

func (s *Store) AddAttendee(id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meetings[id]
	if !ok {
		return ErrNotFound
	}

	m.Attendees = append(m.Attendees, name)
	return nil
}

func (s *Store) AddActionItem(id, owner, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meetings[id]
	if !ok {
		return ErrNotFound
	}

	m.ActionItems = append(m.ActionItems, ActionItem{Owner: owner, Description: description})
	return nil
}

func (s *Store) AddNote(id, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meetings[id]
	if !ok {
		return ErrNotFound
	}

	if m.Notes != "" {
		m.Notes += "\n"
	}
	m.Notes += note

	return nil
}

// Get returns a copy of the meeting so callers cannot mutate store state.
func (s *Store) Get(id string) (*Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meetings[id]
	if !ok {
		return nil, ErrNotFound
	}

	return m.clone(), nil
}

// List returns all meetings in creation order.
func (s *Store) List() []*Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Meeting, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.meetings[id].clone())
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meetings)
}

func (m *Meeting) clone() *Meeting {
	c := *m
	c.Attendees = append([]string{}, m.Attendees...)
	c.ActionItems = append([]ActionItem{}, m.ActionItems...)
	return &c
}
