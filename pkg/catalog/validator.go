// SPDX-License-Identifier: MPL-2.0

package catalog

import "os"

// MsgFileNotFound is the error reported when the caller's file collaborator
// signals that the catalog file is absent or unreadable.
const MsgFileNotFound = "TOML file does not exist"

type (
	// Validator validates catalog bytes against a Policy. It holds no
	// mutable state: one instance may be shared freely across goroutines,
	// and each call is an independent, side-effect-free computation over
	// its input.
	Validator struct {
		policy Policy
	}

	// Option customizes a Validator at construction time.
	Option func(*Validator)
)

// WithPolicy replaces the built-in curated policy data.
func WithPolicy(p Policy) Option {
	return func(v *Validator) { v.policy = p }
}

// NewValidator builds a Validator with DefaultPolicy unless overridden.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{policy: DefaultPolicy()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Policy returns the policy data the validator runs with.
func (v *Validator) Policy() Policy { return v.policy }

// Validate runs the full pipeline over catalog bytes and always returns a
// Result, never an error: malformed input becomes error messages inside the
// Result.
//
// A fatal syntax error short-circuits the pipeline with that single message.
// Duplicate-key errors are collected and reported together with the semantic
// findings for the document as parsed (first occurrence of each key wins).
func (v *Validator) Validate(data []byte) Result {
	doc, duplicates, parseErr := parseDocument(data)
	if parseErr != nil {
		return newResult([]string{parseErr.Message}, nil)
	}

	model := projectCatalog(doc)
	errs, warnings := runRules(model, doc.Empty(), v.policy)

	return newResult(append(duplicates, errs...), warnings)
}

// ValidateFile is the file-access collaborator: it reads path and validates
// the content, mapping an absent or unreadable file to the canonical
// file-not-found result instead of attempting a parse.
func (v *Validator) ValidateFile(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return newResult([]string{MsgFileNotFound}, nil)
	}
	return v.Validate(data)
}
