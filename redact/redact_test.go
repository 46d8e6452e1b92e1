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

package redact

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestAccessKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		key  string
		want string
	}{
		{
			name: "redacts key",
			in:   "request to https://api.example.com failed for key K7aXpq1209ZxY",
			key:  "K7aXpq1209ZxY",
			want: "request to https://api.example.com failed for key *****",
		},
		{
			name: "redacts multiple occurrences",
			in:   "abc123 and again abc123",
			key:  "abc123",
			want: "***** and again *****",
		},
		{
			name: "key with regexp metacharacters",
			in:   "token a.b+c rejected",
			key:  "a.b+c",
			want: "token ***** rejected",
		},
		{
			name: "empty key is a no-op",
			in:   "nothing to hide",
			key:  "",
			want: "nothing to hide",
		},
		{
			name: "key absent",
			in:   "unrelated failure",
			key:  "K7aXpq1209ZxY",
			want: "unrelated failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			g.Expect(AccessKey(tt.in, tt.key)).To(Equal(tt.want))
		})
	}
}
