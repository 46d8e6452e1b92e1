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
	"archive/zip"
	"fmt"
	"io"
	"os"

	"github.com/opencontainers/go-digest"
)

// Entry is a single file to be stored in a bundle archive.
type Entry struct {
	// Source is the absolute path of the file on disk.
	Source string
	// Name is the slash-separated path of the entry inside the archive.
	Name string
}

// writeCounter is an implementation of io.Writer
// that only records the number of bytes written.
type writeCounter struct {
	written int64
}

// Write implements the io.Writer interface.
func (wc *writeCounter) Write(p []byte) (int, error) {
	n := len(p)
	wc.written += int64(n)
	return n, nil
}

// writeZip streams each entry's source file into a deflate-compressed
// zip archive at dest, writing entries strictly in the order given, and
// finalizes the archive only after every entry has been written. While
// writing, the archive digest and size are computed on the side.
//
// On any failure the partially written archive is removed so that no
// artifact is left behind at dest.
func writeZip(entries []Entry, dest string) (dgst digest.Digest, size int64, err error) {
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create archive %s: %w", dest, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(dest)
		}
	}()

	d := digest.Canonical.Digester()
	sz := &writeCounter{}
	mw := io.MultiWriter(d.Hash(), f, sz)

	zw := zip.NewWriter(mw)
	for _, e := range entries {
		w, werr := zw.Create(e.Name)
		if werr != nil {
			zw.Close()
			return "", 0, fmt.Errorf("failed to create archive entry %s: %w", e.Name, werr)
		}
		sf, werr := os.Open(e.Source)
		if werr != nil {
			zw.Close()
			return "", 0, fmt.Errorf("failed to open %s: %w", e.Source, werr)
		}
		if _, werr := io.Copy(w, sf); werr != nil {
			sf.Close()
			zw.Close()
			return "", 0, fmt.Errorf("failed to write archive entry %s: %w", e.Name, werr)
		}
		if werr := sf.Close(); werr != nil {
			zw.Close()
			return "", 0, fmt.Errorf("failed to close %s: %w", e.Source, werr)
		}
	}

	if werr := zw.Close(); werr != nil {
		return "", 0, fmt.Errorf("failed to finalize archive %s: %w", dest, werr)
	}
	if werr := f.Close(); werr != nil {
		return "", 0, fmt.Errorf("failed to close archive %s: %w", dest, werr)
	}

	return d.Digest(), sz.written, nil
}
