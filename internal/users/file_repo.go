package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileRepository keeps users as a JSON array ordered by id. The file is
// rewritten through a temp file on every upsert.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure users dir: %w", err)
	}
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) LoadAll() ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byID, err := r.read()
	if err != nil {
		return nil, err
	}
	return sorted(byID), nil
}

func (r *FileRepository) Upsert(user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byID, err := r.read()
	if err != nil {
		return err
	}
	byID[user.ID] = user
	return r.write(sorted(byID))
}

// read returns no users for a missing, empty or malformed file.
func (r *FileRepository) read() (map[int64]User, error) {
	byID := make(map[int64]User)
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return byID, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	var list []User
	if len(data) == 0 || json.Unmarshal(data, &list) != nil {
		return byID, nil
	}
	for _, u := range list {
		byID[u.ID] = u
	}
	return byID, nil
}

func (r *FileRepository) write(list []User) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	return os.Rename(tmp, r.path)
}

func sorted(byID map[int64]User) []User {
	out := make([]User, 0, len(byID))
	for _, u := range byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
