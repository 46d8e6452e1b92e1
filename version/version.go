/*
Copyright 2026 The Updrift authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package version validates the binary version ranges a release can be
// targeted at.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ParseVersion parses a version string and returns a semver.Version
// object. The validation is looser than the official semver spec,
// allowing for a 'v' prefix and missing patch or minor segments
// (e.g., v1.2 is considered valid and normalized to 1.2.0).
func ParseVersion(v string) (*semver.Version, error) {
	if strings.TrimSpace(v) == "" {
		return nil, semver.ErrInvalidSemVer
	}
	return semver.NewVersion(v)
}

// ParseRange parses a target binary version range. Exact versions
// ("1.2.3"), wildcard ranges ("1.2.x", "1.*"), tilde and caret ranges
// ("~1.2.3", "^1.2.3") and compound constraints (">=1.2.3 <2.0.0") are
// all accepted.
func ParseRange(r string) (*semver.Constraints, error) {
	if strings.TrimSpace(r) == "" {
		return nil, fmt.Errorf("target binary version range cannot be empty")
	}
	c, err := semver.NewConstraint(r)
	if err != nil {
		return nil, fmt.Errorf("invalid target binary version range %q: %w", r, err)
	}
	return c, nil
}

// Check reports whether the given binary version satisfies the given
// range.
func Check(r, v string) (bool, error) {
	c, err := ParseRange(r)
	if err != nil {
		return false, err
	}
	pv, err := ParseVersion(v)
	if err != nil {
		return false, fmt.Errorf("invalid binary version %q: %w", v, err)
	}
	return c.Check(pv), nil
}
