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

package testserver

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/opencontainers/go-digest"
)

func randKey() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

func nowMs() int64 {
	return time.Now().UnixMilli()
}

// SeedSession registers a logged-in machine, since the management API
// has no route that creates sessions.
func (s *UpdriftServer) SeedSession(machineName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[machineName] = &sessionRecord{
		MachineName:  machineName,
		LoggedInTime: nowMs(),
	}
}

// SetMetrics sets the adoption counters reported for a release label.
func (s *UpdriftServer) SetMetrics(app, deployment, label string, active, downloaded, failed, installed int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[app]
	if !ok {
		return fmt.Errorf("app %s not found", app)
	}
	d, ok := a.deployments[deployment]
	if !ok {
		return fmt.Errorf("deployment %s not found", deployment)
	}
	if d.metrics == nil {
		d.metrics = map[string]metricsRecord{}
	}
	d.metrics[label] = metricsRecord{
		Active:     active,
		Downloaded: downloaded,
		Failed:     failed,
		Installed:  installed,
	}
	return nil
}

func (s *UpdriftServer) handleAccount(w http.ResponseWriter, r *http.Request, segs []string) {
	if len(segs) != 1 || r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"account": map[string]string{
			"email": s.accountEmail,
			"name":  s.accountName,
		},
	})
}

func (s *UpdriftServer) handleAccessKeys(w http.ResponseWriter, r *http.Request, segs []string) {
	switch {
	case len(segs) == 1 && r.Method == http.MethodGet:
		keys := make([]accessKeyRecord, 0, len(s.accessKeys))
		for _, k := range s.accessKeys {
			// Credential material is never listed back.
			masked := *k
			masked.Key = ""
			keys = append(keys, masked)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].FriendlyName < keys[j].FriendlyName })
		writeJSON(w, http.StatusOK, map[string]any{"accessKeys": keys})

	case len(segs) == 1 && r.Method == http.MethodPost:
		var in struct {
			FriendlyName string `json:"friendlyName"`
			TTL          int64  `json:"ttl,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.FriendlyName == "" {
			writeError(w, http.StatusBadRequest, "friendlyName is required")
			return
		}
		if _, exists := s.accessKeys[in.FriendlyName]; exists {
			writeError(w, http.StatusConflict, fmt.Sprintf("access key %s already exists", in.FriendlyName))
			return
		}
		key := &accessKeyRecord{
			Key:          randKey(),
			FriendlyName: in.FriendlyName,
			CreatedBy:    s.accountEmail,
			CreatedTime:  nowMs(),
		}
		if in.TTL > 0 {
			key.Expires = nowMs() + in.TTL
		}
		s.accessKeys[in.FriendlyName] = key
		writeJSON(w, http.StatusCreated, map[string]any{"accessKey": key})

	case len(segs) == 2 && r.Method == http.MethodDelete:
		if _, ok := s.accessKeys[segs[1]]; !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("access key %s not found", segs[1]))
			return
		}
		delete(s.accessKeys, segs[1])
		writeJSON(w, http.StatusOK, map[string]any{})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *UpdriftServer) handleSessions(w http.ResponseWriter, r *http.Request, segs []string) {
	switch {
	case len(segs) == 1 && r.Method == http.MethodGet:
		sessions := make([]sessionRecord, 0, len(s.sessions))
		for _, sess := range s.sessions {
			sessions = append(sessions, *sess)
		}
		sort.Slice(sessions, func(i, j int) bool { return sessions[i].MachineName < sessions[j].MachineName })
		writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})

	case len(segs) == 2 && r.Method == http.MethodDelete:
		if _, ok := s.sessions[segs[1]]; !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("session %s not found", segs[1]))
			return
		}
		delete(s.sessions, segs[1])
		writeJSON(w, http.StatusOK, map[string]any{})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *UpdriftServer) handleApps(w http.ResponseWriter, r *http.Request, segs []string) {
	if len(segs) == 1 {
		switch r.Method {
		case http.MethodGet:
			apps := make([]any, 0, len(s.apps))
			for _, name := range s.appNames() {
				apps = append(apps, s.appJSON(s.apps[name]))
			}
			writeJSON(w, http.StatusOK, map[string]any{"apps": apps})
		case http.MethodPost:
			var in struct {
				Name string `json:"name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
				writeError(w, http.StatusBadRequest, "name is required")
				return
			}
			if _, exists := s.apps[in.Name]; exists {
				writeError(w, http.StatusConflict, fmt.Sprintf("app %s already exists", in.Name))
				return
			}
			app := &appRecord{
				name: in.Name,
				collaborators: map[string]collaboratorRecord{
					s.accountEmail: {Permission: "Owner", IsCurrentAccount: true},
				},
				deployments: map[string]*deploymentRecord{
					"Production": {name: "Production", key: randKey()},
					"Staging":    {name: "Staging", key: randKey()},
				},
			}
			s.apps[in.Name] = app
			writeJSON(w, http.StatusCreated, map[string]any{"app": s.appJSON(app)})
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	app, ok := s.apps[segs[1]]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("app %s not found", segs[1]))
		return
	}

	if len(segs) == 2 {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"app": s.appJSON(app)})
		case http.MethodPatch:
			var in struct {
				Name string `json:"name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
				writeError(w, http.StatusBadRequest, "name is required")
				return
			}
			if _, exists := s.apps[in.Name]; exists && in.Name != app.name {
				writeError(w, http.StatusConflict, fmt.Sprintf("app %s already exists", in.Name))
				return
			}
			delete(s.apps, app.name)
			app.name = in.Name
			s.apps[in.Name] = app
			writeJSON(w, http.StatusOK, map[string]any{})
		case http.MethodDelete:
			delete(s.apps, app.name)
			writeJSON(w, http.StatusOK, map[string]any{})
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	switch segs[2] {
	case "transfer":
		if len(segs) == 4 && r.Method == http.MethodPost {
			email := segs[3]
			for e, c := range app.collaborators {
				if c.Permission == "Owner" {
					app.collaborators[e] = collaboratorRecord{Permission: "Collaborator", IsCurrentAccount: c.IsCurrentAccount}
				}
			}
			app.collaborators[email] = collaboratorRecord{Permission: "Owner"}
			writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
	case "collaborators":
		s.handleCollaborators(w, r, app, segs)
		return
	case "deployments":
		s.handleDeployments(w, r, app, segs)
		return
	}
	writeError(w, http.StatusNotFound, "not found")
}

func (s *UpdriftServer) handleCollaborators(w http.ResponseWriter, r *http.Request, app *appRecord, segs []string) {
	switch {
	case len(segs) == 3 && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"collaborators": app.collaborators})

	case len(segs) == 4 && r.Method == http.MethodPost:
		email := segs[3]
		if _, exists := app.collaborators[email]; exists {
			writeError(w, http.StatusConflict, fmt.Sprintf("%s is already a collaborator", email))
			return
		}
		app.collaborators[email] = collaboratorRecord{Permission: "Collaborator"}
		writeJSON(w, http.StatusCreated, map[string]any{})

	case len(segs) == 4 && r.Method == http.MethodDelete:
		email := segs[3]
		c, exists := app.collaborators[email]
		if !exists {
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s is not a collaborator", email))
			return
		}
		if c.Permission == "Owner" {
			writeError(w, http.StatusConflict, "cannot remove the app owner")
			return
		}
		delete(app.collaborators, email)
		writeJSON(w, http.StatusOK, map[string]any{})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *UpdriftServer) handleDeployments(w http.ResponseWriter, r *http.Request, app *appRecord, segs []string) {
	if len(segs) == 3 {
		switch r.Method {
		case http.MethodGet:
			names := make([]string, 0, len(app.deployments))
			for name := range app.deployments {
				names = append(names, name)
			}
			sort.Strings(names)
			deployments := make([]any, 0, len(names))
			for _, name := range names {
				deployments = append(deployments, s.deploymentJSON(app.deployments[name]))
			}
			writeJSON(w, http.StatusOK, map[string]any{"deployments": deployments})
		case http.MethodPost:
			var in struct {
				Name string `json:"name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
				writeError(w, http.StatusBadRequest, "name is required")
				return
			}
			if _, exists := app.deployments[in.Name]; exists {
				writeError(w, http.StatusConflict, fmt.Sprintf("deployment %s already exists", in.Name))
				return
			}
			d := &deploymentRecord{name: in.Name, key: randKey()}
			app.deployments[in.Name] = d
			writeJSON(w, http.StatusCreated, map[string]any{"deployment": s.deploymentJSON(d)})
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	d, ok := app.deployments[segs[3]]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("deployment %s not found", segs[3]))
		return
	}

	if len(segs) == 4 {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"deployment": s.deploymentJSON(d)})
		case http.MethodPatch:
			var in struct {
				Name string `json:"name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
				writeError(w, http.StatusBadRequest, "name is required")
				return
			}
			if _, exists := app.deployments[in.Name]; exists && in.Name != d.name {
				writeError(w, http.StatusConflict, fmt.Sprintf("deployment %s already exists", in.Name))
				return
			}
			delete(app.deployments, d.name)
			d.name = in.Name
			app.deployments[in.Name] = d
			writeJSON(w, http.StatusOK, map[string]any{})
		case http.MethodDelete:
			delete(app.deployments, d.name)
			writeJSON(w, http.StatusOK, map[string]any{})
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	switch {
	case segs[4] == "release" && len(segs) == 5 && r.Method == http.MethodPost:
		s.handleRelease(w, r, app, d)
	case segs[4] == "release" && len(segs) == 5 && r.Method == http.MethodPatch:
		s.handlePatchRelease(w, r, d)
	case segs[4] == "promote" && len(segs) == 6 && r.Method == http.MethodPost:
		s.handlePromote(w, r, app, d, segs[5])
	case segs[4] == "rollback" && len(segs) <= 6 && r.Method == http.MethodPost:
		label := ""
		if len(segs) == 6 {
			label = segs[5]
		}
		s.handleRollback(w, d, label)
	case segs[4] == "history" && len(segs) == 5 && r.Method == http.MethodGet:
		history := d.history
		if history == nil {
			history = []packageRecord{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"history": history})
	case segs[4] == "history" && len(segs) == 5 && r.Method == http.MethodDelete:
		d.history = nil
		d.metrics = nil
		writeJSON(w, http.StatusOK, map[string]any{})
	case segs[4] == "metrics" && len(segs) == 5 && r.Method == http.MethodGet:
		metrics := d.metrics
		if metrics == nil {
			metrics = map[string]metricsRecord{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"metrics": metrics})
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// handleRelease accepts a multipart upload with a packageInfo field and
// a package file, stores the blob under the docroot and appends a new
// release to the deployment history.
func (s *UpdriftServer) handleRelease(w http.ResponseWriter, r *http.Request, app *appRecord, d *deploymentRecord) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	var pkg packageRecord
	if err := json.Unmarshal([]byte(r.FormValue("packageInfo")), &pkg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid packageInfo")
		return
	}
	if pkg.AppVersion == "" {
		writeError(w, http.StatusBadRequest, "appVersion is required")
		return
	}

	f, fh, err := r.FormFile("package")
	if err != nil {
		writeError(w, http.StatusBadRequest, "package file is required")
		return
	}
	defer f.Close()
	blob, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read package file")
		return
	}

	label := "v" + strconv.Itoa(len(d.history)+1)
	blobName := fmt.Sprintf("%s_%s_%s_%s", app.name, d.name, label, fh.Filename)
	p, err := securejoin.SecureJoin(s.docroot, blobName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store package")
		return
	}
	if err := os.WriteFile(p, blob, 0o644); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store package")
		return
	}

	pkg.Label = label
	pkg.PackageHash = digest.FromBytes(blob).String()
	pkg.Size = int64(len(blob))
	pkg.BlobURL = s.URL() + "/storage/" + url.PathEscape(blobName)
	pkg.UploadTime = nowMs()
	pkg.ReleaseMethod = "Upload"
	pkg.ReleasedBy = s.accountEmail
	d.history = append(d.history, pkg)

	writeJSON(w, http.StatusCreated, map[string]any{"package": pkg})
}

func (s *UpdriftServer) handlePatchRelease(w http.ResponseWriter, r *http.Request, d *deploymentRecord) {
	if len(d.history) == 0 {
		writeError(w, http.StatusNotFound, "deployment has no releases")
		return
	}
	var patch packagePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid packageInfo")
		return
	}

	target := &d.history[len(d.history)-1]
	if patch.Label != nil && *patch.Label != "" {
		target = nil
		for i := range d.history {
			if d.history[i].Label == *patch.Label {
				target = &d.history[i]
				break
			}
		}
		if target == nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("release %s not found", *patch.Label))
			return
		}
	}

	applyPatch(target, patch)
	writeJSON(w, http.StatusOK, map[string]any{"package": *target})
}

func (s *UpdriftServer) handlePromote(w http.ResponseWriter, r *http.Request, app *appRecord, src *deploymentRecord, dstName string) {
	dst, ok := app.deployments[dstName]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("deployment %s not found", dstName))
		return
	}
	if len(src.history) == 0 {
		writeError(w, http.StatusNotFound, "deployment has no releases")
		return
	}
	var patch packagePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid packageInfo")
		return
	}

	pkg := src.history[len(src.history)-1]
	pkg.OriginalLabel = pkg.Label
	pkg.OriginalDeployment = src.name
	pkg.Label = "v" + strconv.Itoa(len(dst.history)+1)
	pkg.ReleaseMethod = "Promote"
	pkg.ReleasedBy = s.accountEmail
	pkg.UploadTime = nowMs()
	applyPatch(&pkg, patch)
	dst.history = append(dst.history, pkg)

	writeJSON(w, http.StatusCreated, map[string]any{"package": pkg})
}

func (s *UpdriftServer) handleRollback(w http.ResponseWriter, d *deploymentRecord, label string) {
	var target *packageRecord
	if label == "" {
		if len(d.history) < 2 {
			writeError(w, http.StatusConflict, "no previous release to roll back to")
			return
		}
		target = &d.history[len(d.history)-2]
	} else {
		for i := range d.history {
			if d.history[i].Label == label {
				target = &d.history[i]
				break
			}
		}
		if target == nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("release %s not found", label))
			return
		}
		if target.Label == d.history[len(d.history)-1].Label {
			writeError(w, http.StatusConflict, "cannot roll back to the current release")
			return
		}
	}

	pkg := *target
	pkg.OriginalLabel = target.Label
	pkg.Label = "v" + strconv.Itoa(len(d.history)+1)
	pkg.ReleaseMethod = "Rollback"
	pkg.ReleasedBy = s.accountEmail
	pkg.UploadTime = nowMs()
	d.history = append(d.history, pkg)

	writeJSON(w, http.StatusCreated, map[string]any{"package": pkg})
}

func applyPatch(pkg *packageRecord, patch packagePatch) {
	if patch.AppVersion != nil {
		pkg.AppVersion = *patch.AppVersion
	}
	if patch.Description != nil {
		pkg.Description = *patch.Description
	}
	if patch.IsDisabled != nil {
		pkg.IsDisabled = *patch.IsDisabled
	}
	if patch.IsMandatory != nil {
		pkg.IsMandatory = *patch.IsMandatory
	}
	if patch.Rollout != nil {
		pkg.Rollout = *patch.Rollout
	}
}

func (s *UpdriftServer) appNames() []string {
	names := make([]string, 0, len(s.apps))
	for name := range s.apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *UpdriftServer) appJSON(app *appRecord) map[string]any {
	deployments := make([]string, 0, len(app.deployments))
	for name := range app.deployments {
		deployments = append(deployments, name)
	}
	sort.Strings(deployments)
	return map[string]any{
		"name":          app.name,
		"collaborators": app.collaborators,
		"deployments":   deployments,
	}
}

func (s *UpdriftServer) deploymentJSON(d *deploymentRecord) map[string]any {
	out := map[string]any{
		"name": d.name,
		"key":  d.key,
	}
	if len(d.history) > 0 {
		out["package"] = d.history[len(d.history)-1]
	}
	return out
}
