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

// Package testserver provides an in-memory Updrift backend for testing
// purposes. It implements the management API wire protocol, stores
// uploaded package blobs under a docroot, and serves them back over
// HTTP.
package testserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// NewTempUpdriftServer returns an UpdriftServer with a newly created
// temp dir as the package blob docroot. The caller is responsible for
// removing the docroot after use.
func NewTempUpdriftServer() (*UpdriftServer, error) {
	tmpDir, err := os.MkdirTemp("", "updrift-test-")
	if err != nil {
		return nil, err
	}
	return NewUpdriftServer(tmpDir), nil
}

// NewUpdriftServer returns an UpdriftServer with the given docroot set.
func NewUpdriftServer(docroot string) *UpdriftServer {
	root, err := filepath.Abs(docroot)
	if err != nil {
		panic(err)
	}
	return &UpdriftServer{
		docroot:      root,
		accountEmail: "dev@example.com",
		accountName:  "dev",
		apps:         map[string]*appRecord{},
		accessKeys:   map[string]*accessKeyRecord{},
		sessions:     map[string]*sessionRecord{},
	}
}

// UpdriftServer is an in-memory management backend for testing. Its
// state is guarded by a single mutex so concurrent SDK calls behave.
type UpdriftServer struct {
	docroot      string
	server       *httptest.Server
	accessKey    string
	accountEmail string
	accountName  string

	mu         sync.Mutex
	apps       map[string]*appRecord
	accessKeys map[string]*accessKeyRecord
	sessions   map[string]*sessionRecord
}

type appRecord struct {
	name          string
	collaborators map[string]collaboratorRecord
	deployments   map[string]*deploymentRecord
}

type collaboratorRecord struct {
	Permission       string `json:"permission"`
	IsCurrentAccount bool   `json:"isCurrentAccount,omitempty"`
}

type deploymentRecord struct {
	name    string
	key     string
	history []packageRecord
	metrics map[string]metricsRecord
}

// packageRecord mirrors the packageInfo wire shape.
type packageRecord struct {
	AppVersion         string `json:"appVersion,omitempty"`
	BlobURL            string `json:"blobUrl,omitempty"`
	Description        string `json:"description,omitempty"`
	IsDisabled         bool   `json:"isDisabled"`
	IsMandatory        bool   `json:"isMandatory"`
	Label              string `json:"label,omitempty"`
	PackageHash        string `json:"packageHash,omitempty"`
	Rollout            int    `json:"rollout,omitempty"`
	Size               int64  `json:"size,omitempty"`
	UploadTime         int64  `json:"uploadTime,omitempty"`
	ReleaseMethod      string `json:"releaseMethod,omitempty"`
	ReleasedBy         string `json:"releasedBy,omitempty"`
	OriginalLabel      string `json:"originalLabel,omitempty"`
	OriginalDeployment string `json:"originalDeployment,omitempty"`
}

// packagePatch mirrors the partial packageInfo accepted on patch and
// promote calls.
type packagePatch struct {
	Label       *string `json:"label,omitempty"`
	AppVersion  *string `json:"appVersion,omitempty"`
	Description *string `json:"description,omitempty"`
	IsDisabled  *bool   `json:"isDisabled,omitempty"`
	IsMandatory *bool   `json:"isMandatory,omitempty"`
	Rollout     *int    `json:"rollout,omitempty"`
}

type accessKeyRecord struct {
	Key          string `json:"key,omitempty"`
	FriendlyName string `json:"friendlyName"`
	CreatedBy    string `json:"createdBy,omitempty"`
	CreatedTime  int64  `json:"createdTime,omitempty"`
	Expires      int64  `json:"expires,omitempty"`
}

type sessionRecord struct {
	MachineName  string `json:"machineName"`
	LoggedInTime int64  `json:"loggedInTime,omitempty"`
}

type metricsRecord struct {
	Active     int64 `json:"active"`
	Downloaded int64 `json:"downloaded,omitempty"`
	Failed     int64 `json:"failed,omitempty"`
	Installed  int64 `json:"installed,omitempty"`
}

// SetAccessKey makes the server reject requests that do not carry the
// given key as a bearer token. An empty key disables the check.
func (s *UpdriftServer) SetAccessKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessKey = key
}

// SetAccount sets the account identity the server reports.
func (s *UpdriftServer) SetAccount(email, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountEmail = email
	s.accountName = name
}

// Start starts the UpdriftServer.
func (s *UpdriftServer) Start() {
	s.server = httptest.NewServer(http.HandlerFunc(s.route))
}

// Stop stops the UpdriftServer, if started.
func (s *UpdriftServer) Stop() {
	if s.server != nil {
		s.server.Close()
	}
}

// Root returns the configured docroot of the UpdriftServer.
func (s *UpdriftServer) Root() string {
	return s.docroot
}

// URL returns the address the UpdriftServer is listening at, if
// started.
func (s *UpdriftServer) URL() string {
	if s.server != nil {
		return s.server.URL
	}
	return ""
}

func (s *UpdriftServer) route(w http.ResponseWriter, r *http.Request) {
	segs := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(segs) == 0 || segs[0] == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	// Package blobs are public; everything else requires the key.
	if segs[0] == "storage" {
		if len(segs) == 2 && r.Method == http.MethodGet {
			s.serveBlob(w, r, segs[1])
			return
		}
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessKey != "" && r.Header.Get("Authorization") != "Bearer "+s.accessKey {
		writeError(w, http.StatusUnauthorized, "invalid access key")
		return
	}

	switch segs[0] {
	case "account":
		s.handleAccount(w, r, segs)
	case "accessKeys":
		s.handleAccessKeys(w, r, segs)
	case "sessions":
		s.handleSessions(w, r, segs)
	case "apps":
		s.handleApps(w, r, segs)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// serveBlob serves an uploaded package blob from the docroot. The
// requested name is joined securely so that it cannot escape the
// docroot.
func (s *UpdriftServer) serveBlob(w http.ResponseWriter, r *http.Request, name string) {
	p, err := securejoin.SecureJoin(s.docroot, name)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	http.ServeFile(w, r, p)
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, statusCode int, msg string) {
	writeJSON(w, statusCode, map[string]string{"message": msg})
}
