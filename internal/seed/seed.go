// Package seed writes fixture data into an entity store for local
// development and demos.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/devplatform/community-api/internal/models"
	"github.com/devplatform/community-api/internal/store"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/yaml.v3"
)

// Result maps the keys of a Spec to the ids they were stored under
type Result struct {
	Users         map[string]primitive.ObjectID
	Organizations map[string]primitive.ObjectID
	Events        map[string]primitive.ObjectID
	Posts         map[string]primitive.ObjectID
	Tags          int
}

// Seeder writes a Spec into a store
type Seeder struct {
	store  store.Store
	logger *logrus.Logger
	now    func() time.Time
}

// NewSeeder creates a new seeder
func NewSeeder(s store.Store, logger *logrus.Logger) *Seeder {
	return &Seeder{
		store:  s,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// LoadFile reads a Spec from a YAML file
func LoadFile(path string) (*Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var spec Spec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &spec, nil
}

// plan holds the ids assigned before anything is written, so that documents
// inserted early can already reference documents inserted later
type plan struct {
	result *Result
	users  map[string]*models.User
}

func (p *plan) user(key string) (primitive.ObjectID, error) {
	id, ok := p.result.Users[key]
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unknown user %q", key)
	}
	return id, nil
}

func (p *plan) userList(keys []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(keys))
	for _, k := range keys {
		id, err := p.user(k)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (p *plan) organization(key string) (primitive.ObjectID, error) {
	id, ok := p.result.Organizations[key]
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unknown organization %q", key)
	}
	return id, nil
}

// Apply writes spec into the store. Tags that already exist are reused;
// every other entity is created fresh.
func (s *Seeder) Apply(ctx context.Context, spec *Spec) (*Result, error) {
	p := &plan{
		result: &Result{
			Users:         make(map[string]primitive.ObjectID),
			Organizations: make(map[string]primitive.ObjectID),
			Events:        make(map[string]primitive.ObjectID),
			Posts:         make(map[string]primitive.ObjectID),
		},
		users: make(map[string]*models.User),
	}
	now := s.now()

	for _, u := range spec.Users {
		if _, dup := p.users[u.Key]; dup {
			return nil, fmt.Errorf("duplicate user key %q", u.Key)
		}
		user := &models.User{
			ID:        primitive.NewObjectID(),
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			CreatedAt: now,
		}
		p.users[u.Key] = user
		p.result.Users[u.Key] = user.ID
	}
	for _, o := range spec.Organizations {
		p.result.Organizations[o.Key] = primitive.NewObjectID()
	}
	for _, e := range spec.Events {
		p.result.Events[e.Key] = primitive.NewObjectID()
	}

	orgs, err := s.buildOrganizations(p, spec.Organizations, now)
	if err != nil {
		return nil, err
	}
	events, tasks, projects, err := s.buildEvents(p, spec.Events, now)
	if err != nil {
		return nil, err
	}

	// Users carry the reverse side of the membership and event links, so
	// they are written once those are known
	for _, u := range spec.Users {
		if err := s.store.InsertUser(ctx, p.users[u.Key]); err != nil {
			return nil, fmt.Errorf("insert user %s: %w", u.Key, err)
		}
	}
	for _, org := range orgs {
		if err := s.store.InsertOrganization(ctx, org); err != nil {
			return nil, fmt.Errorf("insert organization %s: %w", org.Name, err)
		}
	}
	for _, event := range events {
		if err := s.store.InsertEvent(ctx, event); err != nil {
			return nil, fmt.Errorf("insert event %s: %w", event.Title, err)
		}
	}
	for _, task := range tasks {
		if err := s.store.InsertTask(ctx, task); err != nil {
			return nil, fmt.Errorf("insert task %s: %w", task.Title, err)
		}
	}
	for _, project := range projects {
		if err := s.store.InsertEventProject(ctx, project); err != nil {
			return nil, fmt.Errorf("insert event project %s: %w", project.Title, err)
		}
	}

	if err := s.applyPosts(ctx, p, spec.Posts, now); err != nil {
		return nil, err
	}
	if err := s.applyGroupChats(ctx, p, spec.GroupChats, now); err != nil {
		return nil, err
	}
	for _, t := range spec.Tags {
		orgID, err := p.organization(t.Organization)
		if err != nil {
			return nil, fmt.Errorf("tag %s: %w", t.Name, err)
		}
		if err := s.applyTag(ctx, p, orgID, nil, t); err != nil {
			return nil, err
		}
	}

	s.logger.WithFields(logrus.Fields{
		"users":         len(p.result.Users),
		"organizations": len(p.result.Organizations),
		"events":        len(p.result.Events),
		"posts":         len(p.result.Posts),
		"tags":          p.result.Tags,
	}).Info("Seed data applied")

	return p.result, nil
}

func (s *Seeder) buildOrganizations(p *plan, specs []OrganizationSpec, now time.Time) ([]*models.Organization, error) {
	orgs := make([]*models.Organization, 0, len(specs))
	for _, o := range specs {
		creator, err := p.user(o.Creator)
		if err != nil {
			return nil, fmt.Errorf("organization %s: %w", o.Key, err)
		}
		admins, err := p.userList(o.Admins)
		if err != nil {
			return nil, fmt.Errorf("organization %s: %w", o.Key, err)
		}
		members, err := p.userList(o.Members)
		if err != nil {
			return nil, fmt.Errorf("organization %s: %w", o.Key, err)
		}

		id := p.result.Organizations[o.Key]
		for _, k := range o.Admins {
			p.users[k].AdminFor = append(p.users[k].AdminFor, id)
		}
		for _, k := range o.Members {
			p.users[k].JoinedOrganizations = append(p.users[k].JoinedOrganizations, id)
		}

		orgs = append(orgs, &models.Organization{
			ID:          id,
			Name:        o.Name,
			Description: o.Description,
			Creator:     creator,
			Admins:      admins,
			Members:     members,
			CreatedAt:   now,
		})
	}
	return orgs, nil
}

func (s *Seeder) buildEvents(p *plan, specs []EventSpec, now time.Time) ([]*models.Event, []*models.Task, []*models.EventProject, error) {
	var (
		events   []*models.Event
		tasks    []*models.Task
		projects []*models.EventProject
	)

	for _, e := range specs {
		orgID, err := p.organization(e.Organization)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("event %s: %w", e.Key, err)
		}
		creator, err := p.user(e.Creator)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("event %s: %w", e.Key, err)
		}
		admins, err := p.userList(e.Admins)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("event %s: %w", e.Key, err)
		}
		registrants, err := p.userList(e.Registrants)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("event %s: %w", e.Key, err)
		}

		id := p.result.Events[e.Key]
		p.users[e.Creator].CreatedEvents = append(p.users[e.Creator].CreatedEvents, id)
		for _, k := range e.Admins {
			p.users[k].EventAdmin = append(p.users[k].EventAdmin, id)
		}
		for _, k := range e.Registrants {
			p.users[k].RegisteredEvents = append(p.users[k].RegisteredEvents, id)
		}

		event := &models.Event{
			ID:           id,
			Title:        e.Title,
			Description:  e.Description,
			Organization: orgID,
			Creator:      creator,
			Admins:       admins,
			Registrants:  registrants,
			StartDate:    now.AddDate(0, 0, 7),
			EndDate:      now.AddDate(0, 0, 8),
			CreatedAt:    now,
		}

		for _, t := range e.Tasks {
			taskCreator, err := p.user(t.Creator)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("task %s: %w", t.Title, err)
			}
			task := &models.Task{
				ID:        primitive.NewObjectID(),
				Title:     t.Title,
				Event:     id,
				Creator:   taskCreator,
				CreatedAt: now,
			}
			event.Tasks = append(event.Tasks, task.ID)
			tasks = append(tasks, task)
		}

		for _, pr := range e.Projects {
			projectCreator, err := p.user(pr.Creator)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("project %s: %w", pr.Title, err)
			}
			projects = append(projects, &models.EventProject{
				ID:        primitive.NewObjectID(),
				Title:     pr.Title,
				Event:     id,
				Creator:   projectCreator,
				CreatedAt: now,
			})
		}

		events = append(events, event)
	}

	return events, tasks, projects, nil
}

func (s *Seeder) applyPosts(ctx context.Context, p *plan, specs []PostSpec, now time.Time) error {
	for _, ps := range specs {
		orgID, err := p.organization(ps.Organization)
		if err != nil {
			return fmt.Errorf("post %s: %w", ps.Key, err)
		}
		creator, err := p.user(ps.Creator)
		if err != nil {
			return fmt.Errorf("post %s: %w", ps.Key, err)
		}

		post := &models.Post{
			Title:        ps.Title,
			Text:         ps.Text,
			Organization: orgID,
			Creator:      creator,
			LikedBy:      []primitive.ObjectID{},
			CommentCount: len(ps.Comments),
			CreatedAt:    now,
		}
		if err := s.store.InsertPost(ctx, post); err != nil {
			return fmt.Errorf("insert post %s: %w", ps.Key, err)
		}
		p.result.Posts[ps.Key] = post.ID

		for i, c := range ps.Comments {
			commenter, err := p.user(c.Creator)
			if err != nil {
				return fmt.Errorf("comment on %s: %w", ps.Key, err)
			}
			comment := &models.Comment{
				Text:    c.Text,
				PostID:  post.ID,
				Creator: commenter,
				LikedBy: []primitive.ObjectID{},
				// spread creation times so listing order is stable
				CreatedAt: now.Add(time.Duration(i) * time.Second),
			}
			if err := s.store.InsertComment(ctx, comment); err != nil {
				return fmt.Errorf("insert comment on %s: %w", ps.Key, err)
			}
		}
	}
	return nil
}

func (s *Seeder) applyGroupChats(ctx context.Context, p *plan, specs []GroupChatSpec, now time.Time) error {
	for _, g := range specs {
		orgID, err := p.organization(g.Organization)
		if err != nil {
			return fmt.Errorf("group chat %s: %w", g.Title, err)
		}
		creator, err := p.user(g.Creator)
		if err != nil {
			return fmt.Errorf("group chat %s: %w", g.Title, err)
		}
		users, err := p.userList(g.Users)
		if err != nil {
			return fmt.Errorf("group chat %s: %w", g.Title, err)
		}

		chat := &models.GroupChat{
			Title:        g.Title,
			Creator:      creator,
			Users:        users,
			Organization: orgID,
			CreatedAt:    now,
		}
		if err := s.store.InsertGroupChat(ctx, chat); err != nil {
			return fmt.Errorf("insert group chat %s: %w", g.Title, err)
		}
	}
	return nil
}

// applyTag inserts t below parent and then its subtree. A tag that already
// exists among its siblings is reused.
func (s *Seeder) applyTag(ctx context.Context, p *plan, orgID primitive.ObjectID, parent *primitive.ObjectID, t TagSpec) error {
	tag := &models.OrganizationTagUser{
		Name:           t.Name,
		OrganizationID: orgID,
		ParentTagID:    parent,
	}

	err := s.store.InsertTag(ctx, tag)
	switch {
	case err == nil:
		p.result.Tags++
	case errors.Is(err, store.ErrDuplicate):
		existing, err := s.findSibling(ctx, orgID, parent, t.Name)
		if err != nil {
			return err
		}
		s.logger.WithField("tag", t.Name).Debug("Tag already exists, skipping")
		tag = existing
	default:
		return fmt.Errorf("insert tag %s: %w", t.Name, err)
	}

	for _, child := range t.Children {
		if err := s.applyTag(ctx, p, orgID, &tag.ID, child); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) findSibling(ctx context.Context, orgID primitive.ObjectID, parent *primitive.ObjectID, name string) (*models.OrganizationTagUser, error) {
	siblings, err := s.store.ListChildTags(ctx, orgID, parent)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	for _, sib := range siblings {
		if sib.Name == name {
			return sib, nil
		}
	}
	return nil, fmt.Errorf("tag %s reported as duplicate but not found", name)
}
