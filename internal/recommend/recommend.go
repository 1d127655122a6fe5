// Package recommend matches catalog models against a room area.
package recommend

import (
	"errors"
	"fmt"
	"sort"

	"ac-advisor/internal/capacity"
	"ac-advisor/internal/catalog"
)

const (
	MinArea = 0.0
	MaxArea = 500.0

	// MaxPresented bounds the number of models shown for one calculation.
	MaxPresented = 5
)

// ErrOutOfRange is matched by every *ValidationError with Reason OutOfRange.
var ErrOutOfRange = errors.New("area out of range")

type Reason int

const (
	OutOfRange Reason = iota + 1
)

// ValidationError is returned for an area outside (MinArea, MaxArea].
type ValidationError struct {
	Reason Reason
	Area   float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("area %v m² must be greater than %v and at most %v", e.Area, MinArea, MaxArea)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrOutOfRange && e.Reason == OutOfRange
}

// Result is the outcome of one calculation. Presented holds at most
// MaxPresented records; MatchCount is the size of the full filtered set.
type Result struct {
	Area       float64
	Capacity   int
	Presented  []catalog.EquipmentRecord
	MatchCount int
}

// More returns how many matches were left out of Presented.
func (r Result) More() int { return r.MatchCount - len(r.Presented) }

// Recommend validates area, computes the required capacity and ranks the
// records serving that area: cheaper tier first, then closest capacity.
// Equal keys keep catalog order.
func Recommend(area float64, records []catalog.EquipmentRecord, coefficient int) (Result, error) {
	// written as a negation so NaN is rejected too
	if !(area > MinArea && area <= MaxArea) {
		return Result{}, &ValidationError{Reason: OutOfRange, Area: area}
	}
	required := capacity.Required(area, coefficient)

	var matches []catalog.EquipmentRecord
	for _, r := range records {
		if r.Serves(area) {
			matches = append(matches, r)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		ti, tj := matches[i].PriceTier.Ordinal(), matches[j].PriceTier.Ordinal()
		if ti != tj {
			return ti < tj
		}
		return distance(matches[i].BTU, required) < distance(matches[j].BTU, required)
	})

	presented := matches
	if len(presented) > MaxPresented {
		presented = presented[:MaxPresented:MaxPresented]
	}
	return Result{
		Area:       area,
		Capacity:   required,
		Presented:  presented,
		MatchCount: len(matches),
	}, nil
}

func distance(btu, required int) int {
	if btu > required {
		return btu - required
	}
	return required - btu
}

// Source supplies catalog records; *catalog.Store satisfies it.
type Source interface {
	All() []catalog.EquipmentRecord
}

// Engine binds Recommend to a catalog and a coefficient.
type Engine struct {
	source      Source
	coefficient int
}

func NewEngine(source Source, coefficient int) *Engine {
	if coefficient <= 0 {
		coefficient = capacity.DefaultCoefficient
	}
	return &Engine{source: source, coefficient: coefficient}
}

func (e *Engine) Recommend(area float64) (Result, error) {
	return Recommend(area, e.source.All(), e.coefficient)
}
