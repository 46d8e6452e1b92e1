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

// Package config holds the configuration settings of the Updrift SDK.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Options contains configuration settings for the management API client.
type Options struct {
	// ServerURL is the base URL of the Updrift management API.
	ServerURL string `json:"serverUrl"`

	// AccessKey is the key used to authenticate API requests.
	AccessKey string `json:"accessKey"`

	// Proxy is an optional proxy URL requests are routed through.
	Proxy string `json:"proxy"`

	// RequestTimeout is the per-request timeout applied to API calls.
	RequestTimeout time.Duration `json:"requestTimeout"`

	// MaxRetries is the maximum number of retries for connection errors
	// and 500-range responses.
	MaxRetries int `json:"maxRetries"`
}

// Validate checks the options for well-formedness.
func (o *Options) Validate() error {
	if o.ServerURL == "" {
		return fmt.Errorf("server URL cannot be empty")
	}
	u, err := url.Parse(o.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server URL %q: %w", o.ServerURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server URL %q: scheme must be http or https", o.ServerURL)
	}
	if o.Proxy != "" {
		if _, err := url.Parse(o.Proxy); err != nil {
			return fmt.Errorf("invalid proxy URL %q: %w", o.Proxy, err)
		}
	}
	if o.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	return nil
}
