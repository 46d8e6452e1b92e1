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
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/opencontainers/go-digest"
)

func TestWriteZip(t *testing.T) {
	g := NewWithT(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	g.Expect(os.WriteFile(src, []byte("hello"), 0o640)).To(Succeed())

	dest := filepath.Join(t.TempDir(), "out.zip")
	dgst, size, err := writeZip([]Entry{{Source: src, Name: "app/a.txt"}}, dest)
	g.Expect(err).ToNot(HaveOccurred())

	b, err := os.ReadFile(dest)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(int64(len(b))).To(Equal(size))
	g.Expect(digest.Canonical.FromBytes(b)).To(Equal(dgst))

	zr, err := zip.OpenReader(dest)
	g.Expect(err).ToNot(HaveOccurred())
	defer zr.Close()
	g.Expect(zr.File).To(HaveLen(1))
	g.Expect(zr.File[0].Name).To(Equal("app/a.txt"))
	g.Expect(zr.File[0].Method).To(Equal(uint16(zip.Deflate)))
}

func TestWriteZip_missingSource(t *testing.T) {
	g := NewWithT(t)

	dir := t.TempDir()
	present := filepath.Join(dir, "a.txt")
	g.Expect(os.WriteFile(present, []byte("a"), 0o640)).To(Succeed())

	// A source that disappeared between scan and write must fail the
	// whole operation, not silently produce a truncated archive.
	dest := filepath.Join(t.TempDir(), "out.zip")
	_, _, err := writeZip([]Entry{
		{Source: present, Name: "app/a.txt"},
		{Source: filepath.Join(dir, "gone.txt"), Name: "app/gone.txt"},
	}, dest)
	g.Expect(err).To(HaveOccurred())

	// The partial archive is cleaned up.
	_, err = os.Stat(dest)
	g.Expect(os.IsNotExist(err)).To(BeTrue())
}

func TestWriteZip_existingDestination(t *testing.T) {
	g := NewWithT(t)

	dest := filepath.Join(t.TempDir(), "out.zip")
	g.Expect(os.WriteFile(dest, []byte("occupied"), 0o640)).To(Succeed())

	_, _, err := writeZip(nil, dest)
	g.Expect(err).To(HaveOccurred())

	// The pre-existing file is not clobbered.
	b, err := os.ReadFile(dest)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(string(b)).To(Equal("occupied"))
}
