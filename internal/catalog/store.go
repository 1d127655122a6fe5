package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LoadError reports that the catalog source could not be used. The store
// returned alongside it is empty but usable.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

type document struct {
	Models []EquipmentRecord `json:"models"`
}

// Store is the read-only, in-memory model catalog. It is safe for concurrent
// use because nothing mutates it after construction.
type Store struct {
	records []EquipmentRecord
}

// New builds a store from already parsed records, validating each of them.
func New(records []EquipmentRecord) (*Store, error) {
	for i, r := range records {
		if err := validate.Struct(r); err != nil {
			return &Store{}, fmt.Errorf("model #%d (%s %s): %w", i+1, r.Brand, r.Model, err)
		}
	}
	out := make([]EquipmentRecord, len(records))
	copy(out, records)
	return &Store{records: out}, nil
}

// Load reads the catalog file at path. On any failure it returns an empty
// store together with a *LoadError.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return &Store{}, &LoadError{Source: path, Err: err}
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	s, err := parse(f)
	if err != nil {
		return &Store{}, &LoadError{Source: path, Err: err}
	}
	return s, nil
}

// Parse decodes a catalog document from r with the same fallback policy as Load.
func Parse(r io.Reader) (*Store, error) {
	s, err := parse(r)
	if err != nil {
		return &Store{}, &LoadError{Source: "reader", Err: err}
	}
	return s, nil
}

func parse(r io.Reader) (*Store, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return New(doc.Models)
}

// All returns the records in source order. The slice is a copy.
func (s *Store) All() []EquipmentRecord {
	out := make([]EquipmentRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Len() int { return len(s.records) }
