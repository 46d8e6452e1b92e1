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

package version

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		rng     string
		wantErr bool
	}{
		{rng: "1.2.3"},
		{rng: "v1.2.3"},
		{rng: "1.2.x"},
		{rng: "1.*"},
		{rng: "~1.2.3"},
		{rng: "^1.2.3"},
		{rng: ">=1.2.3 <2.0.0"},
		{rng: "", wantErr: true},
		{rng: "  ", wantErr: true},
		{rng: "not-a-range", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.rng, func(t *testing.T) {
			g := NewWithT(t)

			_, err := ParseRange(tt.rng)
			if tt.wantErr {
				g.Expect(err).To(HaveOccurred())
			} else {
				g.Expect(err).ToNot(HaveOccurred())
			}
		})
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		rng     string
		version string
		want    bool
		wantErr bool
	}{
		{name: "exact match", rng: "1.2.3", version: "1.2.3", want: true},
		{name: "exact mismatch", rng: "1.2.3", version: "1.2.4", want: false},
		{name: "wildcard patch", rng: "1.2.x", version: "1.2.9", want: true},
		{name: "wildcard minor mismatch", rng: "1.2.x", version: "1.3.0", want: false},
		{name: "caret range", rng: "^1.2.0", version: "1.9.9", want: true},
		{name: "compound range", rng: ">=1.2.3 <2.0.0", version: "1.5.0", want: true},
		{name: "v prefixed version", rng: "1.2.x", version: "v1.2.1", want: true},
		{name: "short version", rng: "1.2.x", version: "1.2", want: true},
		{name: "invalid version", rng: "1.2.x", version: "nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			got, err := Check(tt.rng, tt.version)
			if tt.wantErr {
				g.Expect(err).To(HaveOccurred())
				return
			}
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(got).To(Equal(tt.want))
		})
	}
}
