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

// The backend speaks a legacy wire format: packages are "packageInfo"
// objects with appVersion/isMandatory/isDisabled naming and epoch
// milliseconds for timestamps, and every response wraps its payload in
// a single-key envelope. This file is the one place those shapes are
// adapted to the SDK's domain types.

type wirePackage struct {
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

// wirePackagePatch is the partial packageInfo sent on patch and promote
// calls; nil fields are omitted and left untouched by the backend.
type wirePackagePatch struct {
	AppVersion  *string `json:"appVersion,omitempty"`
	Description *string `json:"description,omitempty"`
	IsDisabled  *bool   `json:"isDisabled,omitempty"`
	IsMandatory *bool   `json:"isMandatory,omitempty"`
	Rollout     *int    `json:"rollout,omitempty"`
}

type wireAccount struct {
	Email           string   `json:"email"`
	Name            string   `json:"name"`
	LinkedProviders []string `json:"linkedProviders,omitempty"`
}

type wireAccessKey struct {
	Key          string `json:"key,omitempty"`
	FriendlyName string `json:"friendlyName"`
	CreatedBy    string `json:"createdBy,omitempty"`
	CreatedTime  int64  `json:"createdTime,omitempty"`
	Expires      int64  `json:"expires,omitempty"`
}

type wireSession struct {
	MachineName  string `json:"machineName"`
	LoggedInTime int64  `json:"loggedInTime,omitempty"`
}

type wireCollaborator struct {
	Permission       string `json:"permission"`
	IsCurrentAccount bool   `json:"isCurrentAccount,omitempty"`
}

type wireApp struct {
	Name          string                      `json:"name"`
	Collaborators map[string]wireCollaborator `json:"collaborators,omitempty"`
	Deployments   []string                    `json:"deployments,omitempty"`
}

type wireDeployment struct {
	Name    string       `json:"name"`
	Key     string       `json:"key,omitempty"`
	Package *wirePackage `json:"package,omitempty"`
}

type wireMetrics struct {
	Active     int64 `json:"active"`
	Downloaded int64 `json:"downloaded,omitempty"`
	Failed     int64 `json:"failed,omitempty"`
	Installed  int64 `json:"installed,omitempty"`
}

func msToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func toPackage(w *wirePackage) *Package {
	if w == nil {
		return nil
	}
	return &Package{
		Label:              w.Label,
		TargetBinaryRange:  w.AppVersion,
		Description:        w.Description,
		Mandatory:          w.IsMandatory,
		Disabled:           w.IsDisabled,
		Rollout:            w.Rollout,
		PackageHash:        w.PackageHash,
		BlobURL:            w.BlobURL,
		Size:               w.Size,
		UploadTime:         msToTime(w.UploadTime),
		ReleaseMethod:      w.ReleaseMethod,
		ReleasedBy:         w.ReleasedBy,
		OriginalLabel:      w.OriginalLabel,
		OriginalDeployment: w.OriginalDeployment,
	}
}

func toAccount(w wireAccount) Account {
	return Account{
		Email:           w.Email,
		Name:            w.Name,
		LinkedProviders: w.LinkedProviders,
	}
}

func toAccessKey(w wireAccessKey) AccessKey {
	return AccessKey{
		Key:          w.Key,
		FriendlyName: w.FriendlyName,
		CreatedBy:    w.CreatedBy,
		CreatedAt:    msToTime(w.CreatedTime),
		ExpiresAt:    msToTime(w.Expires),
	}
}

func toSession(w wireSession) Session {
	return Session{
		MachineName: w.MachineName,
		LoggedInAt:  msToTime(w.LoggedInTime),
	}
}

func toApp(w wireApp) App {
	app := App{
		Name:        w.Name,
		Deployments: w.Deployments,
	}
	if len(w.Collaborators) > 0 {
		app.Collaborators = make(map[string]Collaborator, len(w.Collaborators))
		for email, c := range w.Collaborators {
			app.Collaborators[email] = Collaborator{
				Permission:     c.Permission,
				CurrentAccount: c.IsCurrentAccount,
			}
		}
	}
	return app
}

func toDeployment(w wireDeployment) Deployment {
	return Deployment{
		Name:    w.Name,
		Key:     w.Key,
		Package: toPackage(w.Package),
	}
}

func toMetrics(w map[string]wireMetrics) map[string]Metrics {
	metrics := make(map[string]Metrics, len(w))
	for label, m := range w {
		metrics[label] = Metrics{
			Active:     m.Active,
			Downloaded: m.Downloaded,
			Failed:     m.Failed,
			Installed:  m.Installed,
		}
	}
	return metrics
}
