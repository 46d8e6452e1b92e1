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

// Package bundle converts a caller-supplied filesystem path into a
// single release artifact suitable for upload. A single file is handed
// through unmodified; a directory tree is archived into a temporary
// deflate-compressed zip whose deletion becomes the caller's
// responsibility.
package bundle

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"

	"github.com/opencontainers/go-digest"
)

// Artifact describes the file handed to the upload workflow.
type Artifact struct {
	// Path is the absolute path of the artifact on disk.
	Path string

	// Temporary indicates the artifact was synthesized by the bundler;
	// if true, the caller must delete the file at Path after use.
	Temporary bool

	// Digest is the digest of the archive contents. It is only set for
	// temporary artifacts; a single-file pass-through is not read.
	Digest digest.Digest

	// Size is the number of bytes in the archive. Like Digest, it is
	// only set for temporary artifacts.
	Size int64
}

// Bundler turns filesystem paths into upload artifacts.
type Bundler struct {
	tempDir string
	filter  FileFilter
	gen     *Generator
}

// Option configures a Bundler.
type Option func(*Bundler)

// WithTempDir sets the directory temporary archives are created in.
// The default is the process working directory.
func WithTempDir(dir string) Option {
	return func(b *Bundler) {
		b.tempDir = dir
	}
}

// WithFilter sets a FileFilter applied while scanning directory input;
// matching files and directories are excluded from the archive.
func WithFilter(f FileFilter) Option {
	return func(b *Bundler) {
		b.filter = f
	}
}

// WithRandSource sets the random source used to name temporary
// archives, so tests can supply a deterministic generator.
func WithRandSource(src rand.Source) Option {
	return func(b *Bundler) {
		b.gen = NewGenerator(src)
	}
}

// New returns a Bundler configured with the given options.
func New(opts ...Option) *Bundler {
	b := &Bundler{}
	for _, opt := range opts {
		opt(b)
	}
	if b.gen == nil {
		b.gen = NewGenerator(nil)
	}
	return b
}

// Bundle returns the artifact to upload for the given path.
//
// A path classified as a single file is returned as is, with
// Artifact.Temporary set to false and no I/O performed beyond the
// classification stat. A directory is scanned recursively and its
// regular files are archived into a freshly named temporary zip;
// entries are named relative to the directory's parent, so the
// directory's own name is preserved as a prefix inside the archive,
// and are sorted by entry name so the archive bytes do not depend on
// directory read order.
//
// Errors from classification, scanning and archiving are propagated
// unchanged; nothing is retried or recovered here.
func (b *Bundler) Bundle(path string) (*Artifact, error) {
	kind, err := Classify(path)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	if kind == KindFile {
		return &Artifact{Path: abs}, nil
	}

	files, err := Scan(abs, b.filter)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(abs)
	entries := make([]Entry, 0, len(files))
	for _, p := range files {
		name, err := EntryName(p, base)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Source: p, Name: name})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	dir := b.tempDir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
	}
	dest, err := filepath.Abs(filepath.Join(dir, b.gen.Name(NameLength)+".zip"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve archive destination: %w", err)
	}

	dgst, size, err := writeZip(entries, dest)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Path:      dest,
		Temporary: true,
		Digest:    dgst,
		Size:      size,
	}, nil
}
