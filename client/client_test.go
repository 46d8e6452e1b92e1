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

package client_test

import (
	"context"
	"os"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/updrift/updrift-go/bundle"
	"github.com/updrift/updrift-go/client"
	"github.com/updrift/updrift-go/config"
	"github.com/updrift/updrift-go/testserver"
)

func startServer(t *testing.T) *testserver.UpdriftServer {
	t.Helper()
	srv, err := testserver.NewTempUpdriftServer()
	if err != nil {
		t.Fatalf("failed to create the test server: %v", err)
	}
	srv.Start()
	t.Cleanup(func() {
		srv.Stop()
		os.RemoveAll(srv.Root())
	})
	return srv
}

func newTestClient(t *testing.T, srv *testserver.UpdriftServer, accessKey string) (*client.Client, string) {
	t.Helper()
	tmp := t.TempDir()
	c, err := client.New(
		&config.Options{ServerURL: srv.URL(), AccessKey: accessKey},
		client.WithBundler(bundle.New(bundle.WithTempDir(tmp))),
	)
	if err != nil {
		t.Fatalf("failed to create the client: %v", err)
	}
	return c, tmp
}

func TestClient_GetAccount(t *testing.T) {
	g := NewWithT(t)

	srv := startServer(t)
	srv.SetAccount("owner@example.com", "owner")
	c, _ := newTestClient(t, srv, "")

	account, err := c.GetAccount(context.Background())
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(account.Email).To(Equal("owner@example.com"))
	g.Expect(account.Name).To(Equal("owner"))
}

func TestClient_AccessKeys(t *testing.T) {
	g := NewWithT(t)

	srv := startServer(t)
	c, _ := newTestClient(t, srv, "")
	ctx := context.Background()

	key, err := c.AddAccessKey(ctx, "ci-key", time.Hour)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(key.Key).ToNot(BeEmpty())
	g.Expect(key.FriendlyName).To(Equal("ci-key"))
	g.Expect(key.ExpiresAt.After(key.CreatedAt)).To(BeTrue())

	keys, err := c.ListAccessKeys(ctx)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(keys).To(HaveLen(1))
	// Credential material is only returned on creation.
	g.Expect(keys[0].Key).To(BeEmpty())

	g.Expect(c.RemoveAccessKey(ctx, "ci-key")).To(Succeed())

	err = c.RemoveAccessKey(ctx, "ci-key")
	g.Expect(err).To(HaveOccurred())
	g.Expect(client.IsNotFound(err)).To(BeTrue())
}

func TestClient_Sessions(t *testing.T) {
	g := NewWithT(t)

	srv := startServer(t)
	srv.SeedSession("build-agent-7")
	c, _ := newTestClient(t, srv, "")
	ctx := context.Background()

	sessions, err := c.ListSessions(ctx)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(sessions).To(HaveLen(1))
	g.Expect(sessions[0].MachineName).To(Equal("build-agent-7"))

	g.Expect(c.RemoveSession(ctx, "build-agent-7")).To(Succeed())

	sessions, err = c.ListSessions(ctx)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(sessions).To(BeEmpty())
}

func TestClient_Apps(t *testing.T) {
	g := NewWithT(t)

	srv := startServer(t)
	c, _ := newTestClient(t, srv, "")
	ctx := context.Background()

	app, err := c.AddApp(ctx, "Phoenix")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(app.Name).To(Equal("Phoenix"))
	// New apps come with the default channels.
	g.Expect(app.Deployments).To(Equal([]string{"Production", "Staging"}))

	apps, err := c.ListApps(ctx)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(apps).To(HaveLen(1))

	g.Expect(c.RenameApp(ctx, "Phoenix", "Phoenix-iOS")).To(Succeed())

	got, err := c.GetApp(ctx, "Phoenix-iOS")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(got.Name).To(Equal("Phoenix-iOS"))

	_, err = c.GetApp(ctx, "Phoenix")
	g.Expect(client.IsNotFound(err)).To(BeTrue())

	g.Expect(c.RemoveApp(ctx, "Phoenix-iOS")).To(Succeed())
	_, err = c.GetApp(ctx, "Phoenix-iOS")
	g.Expect(client.IsNotFound(err)).To(BeTrue())
}

func TestClient_Apps_namesAreEscaped(t *testing.T) {
	g := NewWithT(t)

	srv := startServer(t)
	c, _ := newTestClient(t, srv, "")
	ctx := context.Background()

	_, err := c.AddApp(ctx, "My App 1.0")
	g.Expect(err).ToNot(HaveOccurred())

	got, err := c.GetApp(ctx, "My App 1.0")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(got.Name).To(Equal("My App 1.0"))
}

func TestClient_Collaborators(t *testing.T) {
	g := NewWithT(t)

	srv := startServer(t)
	srv.SetAccount("owner@example.com", "owner")
	c, _ := newTestClient(t, srv, "")
	ctx := context.Background()

	_, err := c.AddApp(ctx, "Phoenix")
	g.Expect(err).ToNot(HaveOccurred())

	g.Expect(c.AddCollaborator(ctx, "Phoenix", "dev@example.com")).To(Succeed())

	collaborators, err := c.ListCollaborators(ctx, "Phoenix")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(collaborators).To(HaveLen(2))
	g.Expect(collaborators["owner@example.com"].Permission).To(Equal(client.PermissionOwner))
	g.Expect(collaborators["owner@example.com"].CurrentAccount).To(BeTrue())
	g.Expect(collaborators["dev@example.com"].Permission).To(Equal(client.PermissionCollaborator))

	g.Expect(c.RemoveCollaborator(ctx, "Phoenix", "dev@example.com")).To(Succeed())

	// The owner cannot be removed.
	err = c.RemoveCollaborator(ctx, "Phoenix", "owner@example.com")
	g.Expect(err).To(HaveOccurred())
}

func TestClient_Deployments(t *testing.T) {
	g := NewWithT(t)

	srv := startServer(t)
	c, _ := newTestClient(t, srv, "")
	ctx := context.Background()

	_, err := c.AddApp(ctx, "Phoenix")
	g.Expect(err).ToNot(HaveOccurred())

	d, err := c.AddDeployment(ctx, "Phoenix", "QA")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(d.Name).To(Equal("QA"))
	g.Expect(d.Key).ToNot(BeEmpty())
	g.Expect(d.Package).To(BeNil())

	deployments, err := c.ListDeployments(ctx, "Phoenix")
	g.Expect(err).ToNot(HaveOccurred())
	var names []string
	for _, dep := range deployments {
		names = append(names, dep.Name)
	}
	g.Expect(names).To(Equal([]string{"Production", "QA", "Staging"}))

	g.Expect(c.RenameDeployment(ctx, "Phoenix", "QA", "Canary")).To(Succeed())
	g.Expect(c.RemoveDeployment(ctx, "Phoenix", "Canary")).To(Succeed())

	_, err = c.GetDeployment(ctx, "Phoenix", "Canary")
	g.Expect(client.IsNotFound(err)).To(BeTrue())
}

func TestClient_Unauthorized(t *testing.T) {
	g := NewWithT(t)

	srv := startServer(t)
	srv.SetAccessKey("correct-key")
	c, _ := newTestClient(t, srv, "wrong-key")

	_, err := c.ListApps(context.Background())
	g.Expect(err).To(HaveOccurred())
	g.Expect(client.IsUnauthorized(err)).To(BeTrue())
}
