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

import "time"

// Collaborator permission levels.
const (
	PermissionOwner        = "Owner"
	PermissionCollaborator = "Collaborator"
)

// Release methods recorded on a package.
const (
	ReleaseMethodUpload   = "Upload"
	ReleaseMethodPromote  = "Promote"
	ReleaseMethodRollback = "Rollback"
)

// Account describes the account that owns the access key in use.
type Account struct {
	Email           string
	Name            string
	LinkedProviders []string
}

// AccessKey is a credential for the management API. Key is only
// populated in the response that creates the access key.
type AccessKey struct {
	Key          string
	FriendlyName string
	CreatedBy    string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Session describes a logged-in machine.
type Session struct {
	MachineName string
	LoggedInAt  time.Time
}

// Collaborator describes an account's access to an app.
type Collaborator struct {
	Permission     string
	CurrentAccount bool
}

// App is a registered application.
type App struct {
	Name          string
	Collaborators map[string]Collaborator
	Deployments   []string
}

// Deployment is a named release channel of an app. Package is the
// latest release on the deployment, or nil if nothing has been
// released yet.
type Deployment struct {
	Name    string
	Key     string
	Package *Package
}

// Package is a single release on a deployment.
type Package struct {
	Label             string
	TargetBinaryRange string
	Description       string
	Mandatory         bool
	Disabled          bool
	Rollout           int
	PackageHash       string
	BlobURL           string
	Size              int64
	UploadTime        time.Time
	ReleaseMethod     string
	ReleasedBy        string

	// OriginalLabel and OriginalDeployment identify the source of a
	// promoted or rolled-back package.
	OriginalLabel      string
	OriginalDeployment string
}

// Metrics are the adoption counters of a single release label.
type Metrics struct {
	Active     int64
	Downloaded int64
	Failed     int64
	Installed  int64
}

// ReleaseOptions carries the optional attributes of a new release.
type ReleaseOptions struct {
	// Description is free-form text attached to the release.
	Description string
	// Mandatory marks the release as required for all clients.
	Mandatory bool
	// Disabled prevents the release from being served to clients.
	Disabled bool
	// Rollout is the percentage of clients eligible for the release,
	// between 1 and 100. Zero means a full rollout.
	Rollout int
}

// PatchOptions carries the attributes that can be changed on an
// existing release. Nil fields are left untouched.
type PatchOptions struct {
	TargetBinaryRange *string
	Description       *string
	Mandatory         *bool
	Disabled          *bool
	Rollout           *int
}
