// SPDX-License-Identifier: MPL-2.0

package catalog

import "time"

// Result is the immutable outcome of one validation call. Valid is true
// exactly when Errors is empty; warnings are advisory and never affect
// validity. Message text is part of the contract: callers match on the
// stable substrings each rule emits.
type Result struct {
	Valid     bool
	Errors    []string
	Warnings  []string
	Timestamp time.Time
}

// newResult stamps a Result, normalizing nil slices so callers can range
// without nil checks.
func newResult(errs, warnings []string) Result {
	if errs == nil {
		errs = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	return Result{
		Valid:     len(errs) == 0,
		Errors:    errs,
		Warnings:  warnings,
		Timestamp: time.Now(),
	}
}
