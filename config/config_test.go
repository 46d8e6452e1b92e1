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

package config

import (
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/spf13/pflag"
)

func TestOptions_BindFlags_defaults(t *testing.T) {
	g := NewWithT(t)

	var opts Options
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.BindFlags(fs)
	g.Expect(fs.Parse(nil)).To(Succeed())

	g.Expect(opts.ServerURL).To(Equal("https://api.updrift.io"))
	g.Expect(opts.AccessKey).To(BeEmpty())
	g.Expect(opts.RequestTimeout).To(Equal(60 * time.Second))
	g.Expect(opts.MaxRetries).To(Equal(2))
}

func TestOptions_BindFlags_env(t *testing.T) {
	g := NewWithT(t)

	t.Setenv("UPDRIFT_SERVER_URL", "https://updrift.example.com")
	t.Setenv("UPDRIFT_ACCESS_KEY", "k0yQ8LrSMtzX2pJ")

	var opts Options
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.BindFlags(fs)
	g.Expect(fs.Parse(nil)).To(Succeed())

	g.Expect(opts.ServerURL).To(Equal("https://updrift.example.com"))
	g.Expect(opts.AccessKey).To(Equal("k0yQ8LrSMtzX2pJ"))
}

func TestOptions_BindFlags_flagsOverrideEnv(t *testing.T) {
	g := NewWithT(t)

	t.Setenv("UPDRIFT_SERVER_URL", "https://env.example.com")

	var opts Options
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.BindFlags(fs)
	g.Expect(fs.Parse([]string{"--server-url=https://flag.example.com"})).To(Succeed())

	g.Expect(opts.ServerURL).To(Equal("https://flag.example.com"))
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{
			name: "valid",
			opts: Options{ServerURL: "https://api.updrift.io"},
		},
		{
			name: "valid with proxy",
			opts: Options{ServerURL: "https://api.updrift.io", Proxy: "http://localhost:8080"},
		},
		{
			name:    "empty server URL",
			opts:    Options{},
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			opts:    Options{ServerURL: "ftp://api.updrift.io"},
			wantErr: true,
		},
		{
			name:    "negative retries",
			opts:    Options{ServerURL: "https://api.updrift.io", MaxRetries: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			err := tt.opts.Validate()
			if tt.wantErr {
				g.Expect(err).To(HaveOccurred())
			} else {
				g.Expect(err).ToNot(HaveOccurred())
			}
		})
	}
}
