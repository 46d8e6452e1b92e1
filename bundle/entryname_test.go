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

package bundle_test

import (
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/updrift/updrift-go/bundle"
)

func TestEntryName(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "releases")

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "file at scan root",
			path: filepath.Join(base, "app", "index.html"),
			want: "app/index.html",
		},
		{
			name: "nested file",
			path: filepath.Join(base, "app", "assets", "js", "main.js"),
			want: "app/assets/js/main.js",
		},
		{
			name: "root directory name is preserved as prefix",
			path: filepath.Join(base, "app", "a"),
			want: "app/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			got, err := bundle.EntryName(tt.path, base)
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(got).To(Equal(tt.want))
			g.Expect(strings.HasPrefix(got, "/")).To(BeFalse())
			g.Expect(got).ToNot(ContainSubstring(`\`))

			// Pure: same inputs, same output.
			again, err := bundle.EntryName(tt.path, base)
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(again).To(Equal(got))
		})
	}
}
