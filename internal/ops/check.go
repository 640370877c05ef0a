package ops

import (
	"context"

	"github.com/jacksmith/snip/internal/model"
)

// CheckResult contains the results of an integrity check.
type CheckResult struct {
	// Violations lists the problems found before any repair.
	Violations []model.Violation
	// Fixes lists the repairs made. Empty unless repair was requested.
	Fixes []model.Fix
}

// Check reports integrity problems in the visible state.
func (s *Session) Check() *CheckResult {
	result := &CheckResult{}
	s.view(func(d *model.StorageData) {
		result.Violations = d.Check()
	})
	return result
}

// Repair re-homes dangling templates and compacts every scope, persisting
// the result when anything changed.
func (s *Session) Repair(ctx context.Context) (*CheckResult, error) {
	result := &CheckResult{}
	err := s.mutate(ctx, "repair", func(d *model.StorageData) error {
		result.Violations = d.Check()
		result.Fixes = d.Repair()
		if len(result.Fixes) == 0 {
			return errNoop
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
