package users

import (
	"sort"
	"sync"
	"time"
)

type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	JoinedAt   time.Time `json:"joined_at"`
	LastActive time.Time `json:"last_active"`
}

type Repository interface {
	LoadAll() ([]User, error)
	Upsert(user User) error
}

// Service tracks everyone who talked to the bot. The repository is optional;
// without it users are only kept in memory.
// activityPersistInterval bounds how stale a stored LastActive may get.
// Memory always holds the exact value.
const activityPersistInterval = 10 * time.Minute

type Service struct {
	repo  Repository
	mu    sync.RWMutex
	users map[int64]User
	saved map[int64]time.Time // LastActive as last written to repo
}

func NewWithRepo(repo Repository) (*Service, error) {
	s := &Service{repo: repo, users: make(map[int64]User), saved: make(map[int64]time.Time)}
	if repo != nil {
		users, err := repo.LoadAll()
		if err != nil {
			return s, err
		}
		for _, u := range users {
			s.users[u.ID] = u
			s.saved[u.ID] = u.LastActive
		}
	}
	return s, nil
}

// Touch records activity of u at now. Profile fields are refreshed, the
// first-seen time is kept. The repository is written for new users, profile
// changes, and at most once per activityPersistInterval otherwise.
func (s *Service) Touch(u User, now time.Time) error {
	s.mu.Lock()
	prev, ok := s.users[u.ID]
	if ok {
		u.JoinedAt = prev.JoinedAt
	} else {
		u.JoinedAt = now
	}
	u.LastActive = now
	s.users[u.ID] = u

	persist := !ok || !sameProfile(prev, u) || now.Sub(s.saved[u.ID]) >= activityPersistInterval
	if persist && s.repo != nil {
		s.saved[u.ID] = now
	}
	s.mu.Unlock()

	if persist && s.repo != nil {
		return s.repo.Upsert(u)
	}
	return nil
}

func sameProfile(a, b User) bool {
	return a.Username == b.Username && a.FirstName == b.FirstName && a.LastName == b.LastName
}

func (s *Service) Get(userID int64) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	return u, ok
}

// List returns all users ordered by id.
func (s *Service) List() []User {
	s.mu.RLock()
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// ActiveSince counts users seen at or after t.
func (s *Service) ActiveSince(t time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, u := range s.users {
		if !u.LastActive.Before(t) {
			n++
		}
	}
	return n
}
