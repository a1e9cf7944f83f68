// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"fmt"
	"os"

	"catalint/internal/issue"
	"catalint/pkg/catalog"
	"catalint/pkg/cueutil"
)

//go:embed policy_schema.cue
var policySchema string

// LoadPolicyFile reads a standalone policy file and returns the built-in
// policy extended with its entries. Policy files use the same shape as the
// policy section of the config file.
func LoadPolicyFile(path string) (catalog.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.Policy{}, issue.NewErrorContext().
			WithOperation("load policy").
			WithResource(path).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Use 'catalint policy show' to see the built-in policy").
			Wrap(err).
			BuildError()
	}

	result, err := cueutil.ParseAndDecodeString[PolicyConfig](
		policySchema,
		data,
		"#Policy",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return catalog.Policy{}, issue.NewErrorContext().
			WithOperation("load policy").
			WithResource(path).
			WithSuggestion("Check that the file contains valid CUE syntax").
			WithSuggestion("Give every vulnerable_versions entry both a label and a version").
			Wrap(err).
			BuildError()
	}

	pc := *result.Value
	if valid, errs := pc.IsValid(); !valid {
		return catalog.Policy{}, fmt.Errorf("%s: %w", path, errs[0])
	}

	cfg := Config{Policy: pc}
	return cfg.EffectivePolicy(), nil
}
