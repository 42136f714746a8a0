package storage

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"combain-support-bot/internal/models"
)

// Registrations is the durable side of the registration set. *DB implements it.
type Registrations interface {
	UpsertUser(u *models.User) error
	ListUsers() ([]models.User, error)
	DeleteInactive(before time.Time) (int64, error)
}

// SessionStore owns every user session for the life of the process.
// Handlers and scheduler jobs share it, so all access goes through mu.
type SessionStore struct {
	mu    sync.RWMutex
	users map[int64]*models.User
	repo  Registrations // nil -> memory only
	log   *slog.Logger
}

func NewSessionStore(repo Registrations, log *slog.Logger) *SessionStore {
	if log == nil {
		log = slog.Default()
	}
	return &SessionStore{
		users: make(map[int64]*models.User),
		repo:  repo,
		log:   log,
	}
}

// Load restores registered users from the repository. Complaint state is
// never persisted, so every restored user starts idle.
func (s *SessionStore) Load() error {
	if s.repo == nil {
		return nil
	}
	users, err := s.repo.ListUsers()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range users {
		u := users[i]
		u.State = models.StateIdle
		s.users[u.ID] = &u
	}
	return nil
}

// Touch records activity, creating the session on first contact.
func (s *SessionStore) Touch(id, chatID int64, username string, now time.Time) {
	s.mu.Lock()
	u := s.getOrCreate(id, chatID)
	u.ChatID = chatID
	u.Username = username
	u.LastSeenAt = now
	snapshot := *u
	s.mu.Unlock()

	if snapshot.Registered() {
		s.persist(&snapshot)
	}
}

// Register marks the user as registered and reports whether this was the first time.
func (s *SessionStore) Register(id, chatID int64, username string, now time.Time) bool {
	s.mu.Lock()
	u := s.getOrCreate(id, chatID)
	first := !u.Registered()
	if first {
		u.RegisteredAt = now
	}
	u.ChatID = chatID
	u.Username = username
	u.LastSeenAt = now
	snapshot := *u
	s.mu.Unlock()

	s.persist(&snapshot)
	return first
}

func (s *SessionStore) State(id int64) models.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return u.State
	}
	return models.StateIdle
}

func (s *SessionStore) SetState(id int64, st models.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreate(id, id).State = st
}

// Get returns a copy of the session.
func (s *SessionStore) Get(id int64) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	return *u, true
}

// Registered returns a snapshot of every registered user ordered by id.
func (s *SessionStore) Registered() []models.User {
	s.mu.RLock()
	res := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if u.Registered() {
			res = append(res, *u)
		}
	}
	s.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Evict drops sessions idle since before, including abandoned complaint
// sessions. The in-memory eviction happens even if the repository fails.
func (s *SessionStore) Evict(before time.Time) (int, error) {
	s.mu.Lock()
	n := 0
	for id, u := range s.users {
		if u.LastSeenAt.Before(before) {
			delete(s.users, id)
			n++
		}
	}
	s.mu.Unlock()

	if s.repo != nil {
		if _, err := s.repo.DeleteInactive(before); err != nil {
			return n, err
		}
	}
	return n, nil
}

// getOrCreate must be called with mu held.
func (s *SessionStore) getOrCreate(id, chatID int64) *models.User {
	u, ok := s.users[id]
	if !ok {
		u = &models.User{ID: id, ChatID: chatID, State: models.StateIdle}
		s.users[id] = u
	}
	return u
}

func (s *SessionStore) persist(u *models.User) {
	if s.repo == nil {
		return
	}
	if err := s.repo.UpsertUser(u); err != nil {
		s.log.Error("persist registration", "user_id", u.ID, "err", err)
	}
}
