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

package bundle

import (
	"fmt"
	"path/filepath"
)

// EntryName maps the absolute path of a scanned file to its name inside
// the archive, relative to base. Base must be the parent of the scanned
// root so that the root directory's own name is preserved as an entry
// prefix. The result uses forward slashes and has no leading slash,
// regardless of the host path separator.
//
// EntryName performs no I/O; given the same two inputs it produces the
// same output on every platform.
func EntryName(path, base string) (string, error) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve archive entry name for %s: %w", path, err)
	}
	return filepath.ToSlash(rel), nil
}
