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
	"time"
)

// GetAccount returns the account that owns the access key in use.
func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	var out struct {
		Account wireAccount `json:"account"`
	}
	if err := c.doJSON(ctx, http.MethodGet, apiPath("account"), nil, &out); err != nil {
		return nil, err
	}
	account := toAccount(out.Account)
	return &account, nil
}

// AddAccessKey creates a new access key with the given friendly name.
// A zero ttl creates a key without an expiry. The returned key's Key
// field is the only chance to read the credential; the backend will
// not return it again.
func (c *Client) AddAccessKey(ctx context.Context, friendlyName string, ttl time.Duration) (*AccessKey, error) {
	in := struct {
		FriendlyName string `json:"friendlyName"`
		TTL          int64  `json:"ttl,omitempty"`
	}{
		FriendlyName: friendlyName,
		TTL:          ttl.Milliseconds(),
	}
	var out struct {
		AccessKey wireAccessKey `json:"accessKey"`
	}
	if err := c.doJSON(ctx, http.MethodPost, apiPath("accessKeys"), in, &out); err != nil {
		return nil, err
	}
	key := toAccessKey(out.AccessKey)
	return &key, nil
}

// ListAccessKeys returns all access keys of the account, without their
// credential material.
func (c *Client) ListAccessKeys(ctx context.Context) ([]AccessKey, error) {
	var out struct {
		AccessKeys []wireAccessKey `json:"accessKeys"`
	}
	if err := c.doJSON(ctx, http.MethodGet, apiPath("accessKeys"), nil, &out); err != nil {
		return nil, err
	}
	keys := make([]AccessKey, 0, len(out.AccessKeys))
	for _, k := range out.AccessKeys {
		keys = append(keys, toAccessKey(k))
	}
	return keys, nil
}

// RemoveAccessKey revokes the access key with the given friendly name.
func (c *Client) RemoveAccessKey(ctx context.Context, friendlyName string) error {
	return c.doJSON(ctx, http.MethodDelete, apiPath("accessKeys", friendlyName), nil, nil)
}

// ListSessions returns the machines currently logged in to the account.
func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	var out struct {
		Sessions []wireSession `json:"sessions"`
	}
	if err := c.doJSON(ctx, http.MethodGet, apiPath("sessions"), nil, &out); err != nil {
		return nil, err
	}
	sessions := make([]Session, 0, len(out.Sessions))
	for _, s := range out.Sessions {
		sessions = append(sessions, toSession(s))
	}
	return sessions, nil
}

// RemoveSession logs out the session of the given machine.
func (c *Client) RemoveSession(ctx context.Context, machineName string) error {
	return c.doJSON(ctx, http.MethodDelete, apiPath("sessions", machineName), nil, nil)
}
