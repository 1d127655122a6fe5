package storage

import (
	"context"
	"errors"
	"fmt"
)

// Multi fans a calculation out to every recorder. A failing sink does not
// stop the others; all errors are joined.
type Multi []Recorder

func (m Multi) AppendCalculation(ctx context.Context, c Calculation) error {
	var errs []error
	for i, r := range m {
		if err := r.AppendCalculation(ctx, c); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
