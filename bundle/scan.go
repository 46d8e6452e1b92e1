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
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// FileFilter must return true if a file should not be included in the
// bundle after inspecting the given path and/or os.FileInfo. Returning
// true for a directory prunes the entire subtree.
type FileFilter func(p string, fi os.FileInfo) bool

// IgnoreFilter returns a FileFilter that filters out files matching any
// of the provided gitignore patterns.
func IgnoreFilter(ps []gitignore.Pattern) FileFilter {
	matcher := gitignore.NewMatcher(ps)
	return func(p string, fi os.FileInfo) bool {
		return matcher.Match(strings.Split(p, string(filepath.Separator)), fi.IsDir())
	}
}

// Scan recursively enumerates the regular files beneath the given
// directory root and returns their absolute paths. Anything that is not
// a regular file (directories, symlinks, devices) is skipped. The order
// of the result follows the underlying directory listing and is not
// guaranteed to be stable across filesystems.
//
// A failure to read any directory along the walk aborts the scan;
// partial results are discarded.
func Scan(dir string, filter FileFilter) ([]string, error) {
	var files []string
	if err := filepath.Walk(dir, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if filter != nil && filter(p, fi) {
			if fi.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !fi.Mode().IsRegular() {
			return nil
		}

		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files = append(files, abs)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	return files, nil
}
