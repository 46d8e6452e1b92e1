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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/updrift/updrift-go/bundle"
	"github.com/updrift/updrift-go/version"
)

// Release bundles the given path and uploads it as a new release on
// the deployment, targeted at clients whose binary version satisfies
// targetBinaryRange. A file path is uploaded as is; a directory is
// archived first and the temporary archive is deleted once the upload
// has completed or failed.
func (c *Client) Release(ctx context.Context, app, deployment, path, targetBinaryRange string, opts ReleaseOptions) (*Package, error) {
	if _, err := version.ParseRange(targetBinaryRange); err != nil {
		return nil, err
	}
	if opts.Rollout < 0 || opts.Rollout > 100 {
		return nil, fmt.Errorf("rollout must be between 1 and 100, got %d", opts.Rollout)
	}

	artifact, err := c.bundler.Bundle(path)
	if err != nil {
		return nil, err
	}
	if artifact.Temporary {
		defer func() {
			if err := os.Remove(artifact.Path); err != nil {
				c.log.Info("failed to remove temporary archive", "path", artifact.Path, "error", err)
			}
		}()
	}

	info := wirePackage{
		AppVersion:  targetBinaryRange,
		Description: opts.Description,
		IsDisabled:  opts.Disabled,
		IsMandatory: opts.Mandatory,
		Rollout:     opts.Rollout,
	}
	return c.upload(ctx, apiPath("apps", app, "deployments", deployment, "release"), artifact, info)
}

// PatchRelease updates the attributes of an existing release. An empty
// label addresses the latest release on the deployment.
func (c *Client) PatchRelease(ctx context.Context, app, deployment, label string, opts PatchOptions) (*Package, error) {
	if opts.TargetBinaryRange != nil {
		if _, err := version.ParseRange(*opts.TargetBinaryRange); err != nil {
			return nil, err
		}
	}
	if opts.Rollout != nil && (*opts.Rollout < 1 || *opts.Rollout > 100) {
		return nil, fmt.Errorf("rollout must be between 1 and 100, got %d", *opts.Rollout)
	}

	in := struct {
		Label string `json:"label,omitempty"`
		wirePackagePatch
	}{
		Label: label,
		wirePackagePatch: wirePackagePatch{
			AppVersion:  opts.TargetBinaryRange,
			Description: opts.Description,
			IsDisabled:  opts.Disabled,
			IsMandatory: opts.Mandatory,
			Rollout:     opts.Rollout,
		},
	}
	var out struct {
		Package wirePackage `json:"package"`
	}
	if err := c.doJSON(ctx, http.MethodPatch, apiPath("apps", app, "deployments", deployment, "release"), in, &out); err != nil {
		return nil, err
	}
	return toPackage(&out.Package), nil
}

// Promote copies the latest release of the source deployment onto the
// destination deployment, optionally overriding release attributes.
func (c *Client) Promote(ctx context.Context, app, source, destination string, opts PatchOptions) (*Package, error) {
	if opts.TargetBinaryRange != nil {
		if _, err := version.ParseRange(*opts.TargetBinaryRange); err != nil {
			return nil, err
		}
	}

	in := wirePackagePatch{
		AppVersion:  opts.TargetBinaryRange,
		Description: opts.Description,
		IsDisabled:  opts.Disabled,
		IsMandatory: opts.Mandatory,
		Rollout:     opts.Rollout,
	}
	var out struct {
		Package wirePackage `json:"package"`
	}
	if err := c.doJSON(ctx, http.MethodPost, apiPath("apps", app, "deployments", source, "promote", destination), in, &out); err != nil {
		return nil, err
	}
	return toPackage(&out.Package), nil
}

// Rollback re-releases a previous package on the deployment. An empty
// label rolls back to the release preceding the latest one.
func (c *Client) Rollback(ctx context.Context, app, deployment, label string) (*Package, error) {
	path := apiPath("apps", app, "deployments", deployment, "rollback")
	if label != "" {
		path = apiPath("apps", app, "deployments", deployment, "rollback", label)
	}
	var out struct {
		Package wirePackage `json:"package"`
	}
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return toPackage(&out.Package), nil
}

// upload posts the artifact as a multipart form: a "packageInfo" field
// carrying the release attributes and a "package" file carrying the
// artifact bytes.
func (c *Client) upload(ctx context.Context, path string, artifact *bundle.Artifact, info wirePackage) (*Package, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	meta, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("failed to encode package info: %w", err)
	}
	if err := mw.WriteField("packageInfo", string(meta)); err != nil {
		return nil, fmt.Errorf("failed to write package info: %w", err)
	}

	fw, err := mw.CreateFormFile("package", filepath.Base(artifact.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to create package form file: %w", err)
	}
	f, err := os.Open(artifact.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact %s: %w", artifact.Path, err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read artifact %s: %w", artifact.Path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close artifact %s: %w", artifact.Path, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload body: %w", err)
	}

	var out struct {
		Package wirePackage `json:"package"`
	}
	if err := c.do(ctx, http.MethodPost, path, buf.Bytes(), mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return toPackage(&out.Package), nil
}
