// SPDX-License-Identifier: MPL-2.0

// Package catalog validates Gradle-style dependency version catalogs written
// in a restricted TOML dialect.
//
// Validation runs as a fixed pipeline: lexer → parser → catalog projection →
// semantic rules. Each stage returns its product or accumulated error values;
// no stage signals failure by panicking across the package boundary. The
// Validator itself is stateless, so a single instance may be shared by any
// number of goroutines.
package catalog
