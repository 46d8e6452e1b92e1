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

// Package redact removes sensitive credentials from strings that may
// end up in error messages or logs.
package redact

import (
	"regexp"
)

// AccessKey redacts all occurrences of the given access key from the
// provided string, replacing them with "*****". An empty key leaves the
// string untouched.
func AccessKey(s, key string) string {
	if key == "" {
		return s
	}
	re := regexp.MustCompile(regexp.QuoteMeta(key))
	return re.ReplaceAllString(s, "*****")
}
