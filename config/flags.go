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
	"os"
	"time"

	"github.com/spf13/pflag"
)

const (
	flagServerURL    = "server-url"
	envServerURL     = "UPDRIFT_SERVER_URL"
	defaultServerURL = "https://api.updrift.io"

	flagAccessKey = "access-key"
	envAccessKey  = "UPDRIFT_ACCESS_KEY"

	flagProxy = "proxy"
	envProxy  = "UPDRIFT_PROXY"

	flagRequestTimeout    = "request-timeout"
	defaultRequestTimeout = 60 * time.Second

	flagMaxRetries    = "max-retries"
	defaultMaxRetries = 2
)

// BindFlags will parse the given pflag.FlagSet for the client and set
// the Options accordingly.
func (o *Options) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ServerURL, flagServerURL,
		envOrDefault(envServerURL, defaultServerURL),
		"The base URL of the Updrift management API.")

	fs.StringVar(&o.AccessKey, flagAccessKey,
		envOrDefault(envAccessKey, ""),
		"The access key used to authenticate API requests.")

	fs.StringVar(&o.Proxy, flagProxy,
		envOrDefault(envProxy, ""),
		"An optional proxy URL requests are routed through.")

	fs.DurationVar(&o.RequestTimeout, flagRequestTimeout,
		defaultRequestTimeout,
		"The per-request timeout applied to API calls.")

	fs.IntVar(&o.MaxRetries, flagMaxRetries,
		defaultMaxRetries,
		"The maximum number of retries for connection errors and 500-range responses.")
}

// envOrDefault returns the value of the environment variable named by the key.
// If the variable is empty or not present, it returns the defaultValue instead.
func envOrDefault(envName, defaultValue string) string {
	ret := os.Getenv(envName)
	if ret != "" {
		return ret
	}
	return defaultValue
}
