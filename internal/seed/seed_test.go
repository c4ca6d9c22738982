package seed

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/devplatform/community-api/internal/memstore"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSeeder(t *testing.T) (*Seeder, *memstore.Store) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := memstore.New(logger)
	return NewSeeder(s, logger), s
}

func TestApplyDefaultSpec(t *testing.T) {
	seeder, s := newTestSeeder(t)
	ctx := context.Background()

	res, err := seeder.Apply(ctx, DefaultSpec())
	require.NoError(t, err)
	assert.Len(t, res.Users, 4)
	assert.Equal(t, 6, res.Tags)

	orgID := res.Organizations["makers"]
	john, err := s.GetUser(ctx, res.Users["john.doe"])
	require.NoError(t, err)
	assert.Contains(t, john.AdminFor, orgID)
	assert.Contains(t, john.JoinedOrganizations, orgID)

	eventID := res.Events["repair-cafe"]
	jane, err := s.GetUser(ctx, res.Users["jane.smith"])
	require.NoError(t, err)
	assert.Contains(t, jane.CreatedEvents, eventID)
	assert.Contains(t, jane.EventAdmin, eventID)

	event, err := s.GetEvent(ctx, eventID)
	require.NoError(t, err)
	tasks, err := s.ListTasks(ctx, event.Tasks)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Book the hall", tasks[0].Title)

	projects, err := s.ListEventProjects(ctx, eventID)
	require.NoError(t, err)
	assert.Len(t, projects, 1)

	post, err := s.GetPost(ctx, res.Posts["welcome"])
	require.NoError(t, err)
	comments, err := s.ListComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, len(comments), post.CommentCount)
	assert.Equal(t, "Hi, I fix bikes.", comments[0].Text)

	roots, err := s.ListChildTags(ctx, orgID, nil)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "mentors", roots[0].Name)
	assert.Equal(t, "volunteers", roots[1].Name)
}

func TestApplyReusesExistingTags(t *testing.T) {
	seeder, s := newTestSeeder(t)
	ctx := context.Background()

	res, err := seeder.Apply(ctx, DefaultSpec())
	require.NoError(t, err)
	orgID := res.Organizations["makers"]

	// A second tree under the same organization only adds the new leaf
	tags := []TagSpec{{
		Organization: "makers",
		Name:         "volunteers",
		Children:     []TagSpec{{Name: "kitchen"}, {Name: "garden"}},
	}}
	p := &plan{result: res}
	for _, tag := range tags {
		require.NoError(t, seeder.applyTag(ctx, p, orgID, nil, tag))
	}
	assert.Equal(t, 7, res.Tags)

	roots, err := s.ListChildTags(ctx, orgID, nil)
	require.NoError(t, err)
	require.Len(t, roots, 2)

	children, err := s.ListChildTags(ctx, orgID, &roots[1].ID)
	require.NoError(t, err)
	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"garden", "kitchen", "workshop"}, names)
}

func TestApplyRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name string
		spec *Spec
		msg  string
	}{
		{
			name: "unknown org creator",
			spec: &Spec{Organizations: []OrganizationSpec{{Key: "o", Name: "O", Creator: "ghost"}}},
			msg:  `unknown user "ghost"`,
		},
		{
			name: "unknown event organization",
			spec: &Spec{
				Users:  []UserSpec{{Key: "u"}},
				Events: []EventSpec{{Key: "e", Organization: "nowhere", Creator: "u"}},
			},
			msg: `unknown organization "nowhere"`,
		},
		{
			name: "duplicate user key",
			spec: &Spec{Users: []UserSpec{{Key: "u"}, {Key: "u"}}},
			msg:  `duplicate user key "u"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seeder, _ := newTestSeeder(t)
			_, err := seeder.Apply(context.Background(), tt.spec)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
users:
  - key: ada
    firstName: Ada
    email: ada@example.com
organizations:
  - key: lab
    name: Lab
    creator: ada
    admins: [ada]
    members: [ada]
tags:
  - organization: lab
    name: core
    children:
      - name: infra
`), 0o600))

	spec, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, spec.Users, 1)
	assert.Equal(t, "Ada", spec.Users[0].FirstName)
	assert.Equal(t, []string{"ada"}, spec.Organizations[0].Admins)
	require.Len(t, spec.Tags, 1)
	assert.Equal(t, "infra", spec.Tags[0].Children[0].Name)

	seeder, _ := newTestSeeder(t)
	res, err := seeder.Apply(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Tags)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("users: {not: [a list"), 0o600))
	_, err = LoadFile(path)
	assert.Error(t, err)
}
