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
)

// Kind is the classification of an input path.
type Kind int

const (
	// KindFile denotes a path referring to a single regular file,
	// which can be uploaded as is.
	KindFile Kind = iota
	// KindDirectory denotes a path referring to a directory tree,
	// which must be archived before upload.
	KindDirectory
)

// Classify inspects the given path and reports whether it refers to a
// single file or a directory. Symlinks are resolved per the host
// filesystem semantics. A path that cannot be inspected results in an
// error wrapping PathNotFoundError.
func Classify(path string) (Kind, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", PathNotFoundError, err)
	}
	if fi.IsDir() {
		return KindDirectory, nil
	}
	return KindFile, nil
}
