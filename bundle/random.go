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
	"math/rand/v2"
	"os"
	"time"
)

const nameAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NameLength is the number of characters in a generated temporary
// archive name, before the file extension.
const NameLength = 15

// Generator produces pseudo-random alphanumeric tokens used to name
// temporary archives. It makes no uniqueness guarantee; collision
// avoidance relies on the size of the name space alone.
type Generator struct {
	rand *rand.Rand
}

// NewGenerator returns a Generator backed by the given random source.
// A nil source is replaced with a time-and-pid seeded one.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid()))
	}
	return &Generator{rand: rand.New(src)}
}

// Name returns a token of the given length drawn uniformly from the
// 62-character alphanumeric alphabet.
func (g *Generator) Name(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = nameAlphabet[g.rand.IntN(len(nameAlphabet))]
	}
	return string(b)
}
