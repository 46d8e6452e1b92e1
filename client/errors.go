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

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/updrift/updrift-go/redact"
)

// APIError is returned for responses outside the 200 range, carrying
// the status code and the message reported by the backend.
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Message is the error message reported by the backend, if any.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("updrift API error: %s", http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("updrift API error: %s: %s", http.StatusText(e.StatusCode), e.Message)
}

// IsNotFound returns true if the given error is an APIError with a 404
// status code, which the backend uses to signal a missing app,
// deployment, release or access key.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if the given error is an APIError with a
// 401 status code.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// newAPIError builds an *APIError from a response body, accepting both
// the backend's JSON error envelope and plain text. The access key is
// redacted from the message before it can surface in logs.
func newAPIError(statusCode int, body []byte, accessKey string) *APIError {
	msg := strings.TrimSpace(string(body))
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		msg = envelope.Message
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    redact.AccessKey(msg, accessKey),
	}
}
