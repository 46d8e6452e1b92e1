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

// AddDeployment creates a new deployment on the app.
func (c *Client) AddDeployment(ctx context.Context, app, name string) (*Deployment, error) {
	in := struct {
		Name string `json:"name"`
	}{Name: name}
	var out struct {
		Deployment wireDeployment `json:"deployment"`
	}
	if err := c.doJSON(ctx, http.MethodPost, apiPath("apps", app, "deployments"), in, &out); err != nil {
		return nil, err
	}
	deployment := toDeployment(out.Deployment)
	return &deployment, nil
}

// ListDeployments returns all deployments of the app.
func (c *Client) ListDeployments(ctx context.Context, app string) ([]Deployment, error) {
	var out struct {
		Deployments []wireDeployment `json:"deployments"`
	}
	if err := c.doJSON(ctx, http.MethodGet, apiPath("apps", app, "deployments"), nil, &out); err != nil {
		return nil, err
	}
	deployments := make([]Deployment, 0, len(out.Deployments))
	for _, d := range out.Deployments {
		deployments = append(deployments, toDeployment(d))
	}
	return deployments, nil
}

// GetDeployment returns a single deployment by name.
func (c *Client) GetDeployment(ctx context.Context, app, name string) (*Deployment, error) {
	var out struct {
		Deployment wireDeployment `json:"deployment"`
	}
	if err := c.doJSON(ctx, http.MethodGet, apiPath("apps", app, "deployments", name), nil, &out); err != nil {
		return nil, err
	}
	deployment := toDeployment(out.Deployment)
	return &deployment, nil
}

// RenameDeployment renames a deployment.
func (c *Client) RenameDeployment(ctx context.Context, app, oldName, newName string) error {
	in := struct {
		Name string `json:"name"`
	}{Name: newName}
	return c.doJSON(ctx, http.MethodPatch, apiPath("apps", app, "deployments", oldName), in, nil)
}

// RemoveDeployment deletes a deployment and its release history.
func (c *Client) RemoveDeployment(ctx context.Context, app, name string) error {
	return c.doJSON(ctx, http.MethodDelete, apiPath("apps", app, "deployments", name), nil, nil)
}

// DeploymentHistory returns the releases of a deployment in the order
// they were released, oldest first.
func (c *Client) DeploymentHistory(ctx context.Context, app, deployment string) ([]Package, error) {
	var out struct {
		History []wirePackage `json:"history"`
	}
	if err := c.doJSON(ctx, http.MethodGet, apiPath("apps", app, "deployments", deployment, "history"), nil, &out); err != nil {
		return nil, err
	}
	history := make([]Package, 0, len(out.History))
	for i := range out.History {
		history = append(history, *toPackage(&out.History[i]))
	}
	return history, nil
}

// ClearDeploymentHistory removes every release from a deployment.
func (c *Client) ClearDeploymentHistory(ctx context.Context, app, deployment string) error {
	return c.doJSON(ctx, http.MethodDelete, apiPath("apps", app, "deployments", deployment, "history"), nil, nil)
}

// DeploymentMetrics returns the adoption counters of a deployment,
// keyed by release label.
func (c *Client) DeploymentMetrics(ctx context.Context, app, deployment string) (map[string]Metrics, error) {
	var out struct {
		Metrics map[string]wireMetrics `json:"metrics"`
	}
	if err := c.doJSON(ctx, http.MethodGet, apiPath("apps", app, "deployments", deployment, "metrics"), nil, &out); err != nil {
		return nil, err
	}
	return toMetrics(out.Metrics), nil
}
