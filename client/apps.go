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
	"context"
	"net/http"
)

// AddApp registers a new app under the account.
func (c *Client) AddApp(ctx context.Context, name string) (*App, error) {
	in := struct {
		Name string `json:"name"`
	}{Name: name}
	var out struct {
		App wireApp `json:"app"`
	}
	if err := c.doJSON(ctx, http.MethodPost, apiPath("apps"), in, &out); err != nil {
		return nil, err
	}
	app := toApp(out.App)
	return &app, nil
}

// ListApps returns all apps the account has access to.
func (c *Client) ListApps(ctx context.Context) ([]App, error) {
	var out struct {
		Apps []wireApp `json:"apps"`
	}
	if err := c.doJSON(ctx, http.MethodGet, apiPath("apps"), nil, &out); err != nil {
		return nil, err
	}
	apps := make([]App, 0, len(out.Apps))
	for _, a := range out.Apps {
		apps = append(apps, toApp(a))
	}
	return apps, nil
}

// GetApp returns a single app by name.
func (c *Client) GetApp(ctx context.Context, name string) (*App, error) {
	var out struct {
		App wireApp `json:"app"`
	}
	if err := c.doJSON(ctx, http.MethodGet, apiPath("apps", name), nil, &out); err != nil {
		return nil, err
	}
	app := toApp(out.App)
	return &app, nil
}

// RenameApp renames an app.
func (c *Client) RenameApp(ctx context.Context, oldName, newName string) error {
	in := struct {
		Name string `json:"name"`
	}{Name: newName}
	return c.doJSON(ctx, http.MethodPatch, apiPath("apps", oldName), in, nil)
}

// RemoveApp deletes an app and all of its deployments.
func (c *Client) RemoveApp(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodDelete, apiPath("apps", name), nil, nil)
}

// TransferApp transfers ownership of an app to the account identified
// by the given email address.
func (c *Client) TransferApp(ctx context.Context, name, email string) error {
	return c.doJSON(ctx, http.MethodPost, apiPath("apps", name, "transfer", email), nil, nil)
}

// AddCollaborator grants the account identified by email collaborator
// access to the app.
func (c *Client) AddCollaborator(ctx context.Context, app, email string) error {
	return c.doJSON(ctx, http.MethodPost, apiPath("apps", app, "collaborators", email), nil, nil)
}

// ListCollaborators returns the collaborators of an app keyed by email.
func (c *Client) ListCollaborators(ctx context.Context, app string) (map[string]Collaborator, error) {
	var out struct {
		Collaborators map[string]wireCollaborator `json:"collaborators"`
	}
	if err := c.doJSON(ctx, http.MethodGet, apiPath("apps", app, "collaborators"), nil, &out); err != nil {
		return nil, err
	}
	collaborators := make(map[string]Collaborator, len(out.Collaborators))
	for email, w := range out.Collaborators {
		collaborators[email] = Collaborator{
			Permission:     w.Permission,
			CurrentAccount: w.IsCurrentAccount,
		}
	}
	return collaborators, nil
}

// RemoveCollaborator revokes a collaborator's access to the app.
func (c *Client) RemoveCollaborator(ctx context.Context, app, email string) error {
	return c.doJSON(ctx, http.MethodDelete, apiPath("apps", app, "collaborators", email), nil, nil)
}
