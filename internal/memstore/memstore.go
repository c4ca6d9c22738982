// Package memstore provides an in-memory implementation of store.Store for
// tests and ephemeral environments. Documents are copied on the way in and
// out so callers never share slices with the stored state.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/devplatform/community-api/internal/models"
	"github.com/devplatform/community-api/internal/store"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ store.Store = (*Store)(nil)

// Store is a mutex-guarded set of collections
type Store struct {
	mu            sync.RWMutex
	logger        *logrus.Logger
	totalRequests int64

	users         map[primitive.ObjectID]*models.User
	organizations map[primitive.ObjectID]*models.Organization
	events        map[primitive.ObjectID]*models.Event
	eventProjects map[primitive.ObjectID]*models.EventProject
	tasks         map[primitive.ObjectID]*models.Task
	posts         map[primitive.ObjectID]*models.Post
	comments      map[primitive.ObjectID]*models.Comment
	groupChats    map[primitive.ObjectID]*models.GroupChat
	tags          map[primitive.ObjectID]*models.OrganizationTagUser

	// tagKeys mirrors the (organizationId, parentTagId, name) unique index
	tagKeys map[string]primitive.ObjectID
}

// New creates an empty store
func New(logger *logrus.Logger) *Store {
	logger.Debug("In-memory entity store initialized")
	return &Store{
		logger:        logger,
		users:         map[primitive.ObjectID]*models.User{},
		organizations: map[primitive.ObjectID]*models.Organization{},
		events:        map[primitive.ObjectID]*models.Event{},
		eventProjects: map[primitive.ObjectID]*models.EventProject{},
		tasks:         map[primitive.ObjectID]*models.Task{},
		posts:         map[primitive.ObjectID]*models.Post{},
		comments:      map[primitive.ObjectID]*models.Comment{},
		groupChats:    map[primitive.ObjectID]*models.GroupChat{},
		tags:          map[primitive.ObjectID]*models.OrganizationTagUser{},
		tagKeys:       map[string]primitive.ObjectID{},
	}
}

func (s *Store) read() func() {
	atomic.AddInt64(&s.totalRequests, 1)
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) write() func() {
	atomic.AddInt64(&s.totalRequests, 1)
	s.mu.Lock()
	return s.mu.Unlock
}

func ensureID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}

func ids(in []primitive.ObjectID) []primitive.ObjectID {
	if in == nil {
		return []primitive.ObjectID{}
	}
	return slices.Clone(in)
}

func pull(list []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	return slices.DeleteFunc(list, func(v primitive.ObjectID) bool { return v == id })
}

// ═══════════════════════════════════════════════════════════════════════════
// COPIES
// ═══════════════════════════════════════════════════════════════════════════

func copyUser(u *models.User) *models.User {
	c := *u
	c.AdminFor = ids(u.AdminFor)
	c.JoinedOrganizations = ids(u.JoinedOrganizations)
	c.EventAdmin = ids(u.EventAdmin)
	c.CreatedEvents = ids(u.CreatedEvents)
	c.RegisteredEvents = ids(u.RegisteredEvents)
	return &c
}

func copyOrganization(o *models.Organization) *models.Organization {
	c := *o
	c.Admins = ids(o.Admins)
	c.Members = ids(o.Members)
	return &c
}

func copyEvent(e *models.Event) *models.Event {
	c := *e
	c.Admins = ids(e.Admins)
	c.Registrants = ids(e.Registrants)
	c.Tasks = ids(e.Tasks)
	return &c
}

func copyEventProject(p *models.EventProject) *models.EventProject {
	c := *p
	return &c
}

func copyTask(t *models.Task) *models.Task {
	c := *t
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	return &c
}

func copyPost(p *models.Post) *models.Post {
	c := *p
	c.LikedBy = ids(p.LikedBy)
	return &c
}

func copyComment(cm *models.Comment) *models.Comment {
	c := *cm
	c.LikedBy = ids(cm.LikedBy)
	return &c
}

func copyGroupChat(g *models.GroupChat) *models.GroupChat {
	c := *g
	c.Users = ids(g.Users)
	return &c
}

func copyTag(t *models.OrganizationTagUser) *models.OrganizationTagUser {
	c := *t
	if t.ParentTagID != nil {
		p := *t.ParentTagID
		c.ParentTagID = &p
	}
	return &c
}

// ═══════════════════════════════════════════════════════════════════════════
// USER OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

// UserExists reports whether a user with id exists
func (s *Store) UserExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	defer s.read()()
	_, ok := s.users[id]
	return ok, nil
}

// GetUser retrieves a user by id
func (s *Store) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	defer s.read()()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id.Hex(), store.ErrNotFound)
	}
	return copyUser(u), nil
}

// ListUsers retrieves the users whose id is in ids, in the order given
func (s *Store) ListUsers(ctx context.Context, userIDs []primitive.ObjectID) ([]*models.User, error) {
	defer s.read()()
	users := make([]*models.User, 0, len(userIDs))
	for _, id := range userIDs {
		if u, ok := s.users[id]; ok {
			users = append(users, copyUser(u))
		}
	}
	return users, nil
}

// InsertUser stores a new user
func (s *Store) InsertUser(ctx context.Context, user *models.User) error {
	defer s.write()()
	ensureID(&user.ID)
	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("user %s: %w", user.ID.Hex(), store.ErrDuplicate)
	}
	s.users[user.ID] = copyUser(user)
	return nil
}

// PullUserEvent removes eventID from the user's three event lists
func (s *Store) PullUserEvent(ctx context.Context, userID, eventID primitive.ObjectID) error {
	defer s.write()()
	u, ok := s.users[userID]
	if !ok {
		// matches updateOne semantics: no document, no change, no error
		return nil
	}
	u.EventAdmin = pull(u.EventAdmin, eventID)
	u.CreatedEvents = pull(u.CreatedEvents, eventID)
	u.RegisteredEvents = pull(u.RegisteredEvents, eventID)
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// ORGANIZATION OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

// GetOrganization retrieves an organization by id
func (s *Store) GetOrganization(ctx context.Context, id primitive.ObjectID) (*models.Organization, error) {
	defer s.read()()
	o, ok := s.organizations[id]
	if !ok {
		return nil, fmt.Errorf("organization %s: %w", id.Hex(), store.ErrNotFound)
	}
	return copyOrganization(o), nil
}

// InsertOrganization stores a new organization
func (s *Store) InsertOrganization(ctx context.Context, org *models.Organization) error {
	defer s.write()()
	ensureID(&org.ID)
	if _, ok := s.organizations[org.ID]; ok {
		return fmt.Errorf("organization %s: %w", org.ID.Hex(), store.ErrDuplicate)
	}
	s.organizations[org.ID] = copyOrganization(org)
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// EVENT OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

// GetEvent retrieves an event by id
func (s *Store) GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	defer s.read()()
	e, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", id.Hex(), store.ErrNotFound)
	}
	return copyEvent(e), nil
}

// InsertEvent stores a new event
func (s *Store) InsertEvent(ctx context.Context, event *models.Event) error {
	defer s.write()()
	ensureID(&event.ID)
	if _, ok := s.events[event.ID]; ok {
		return fmt.Errorf("event %s: %w", event.ID.Hex(), store.ErrDuplicate)
	}
	s.events[event.ID] = copyEvent(event)
	return nil
}

// DeleteEvent deletes an event by id
func (s *Store) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	defer s.write()()
	delete(s.events, id)
	return nil
}

// PullEventTask removes taskID from the event's tasks list
func (s *Store) PullEventTask(ctx context.Context, eventID, taskID primitive.ObjectID) error {
	defer s.write()()
	if e, ok := s.events[eventID]; ok {
		e.Tasks = pull(e.Tasks, taskID)
	}
	return nil
}

// GetEventProject retrieves an event project by id
func (s *Store) GetEventProject(ctx context.Context, id primitive.ObjectID) (*models.EventProject, error) {
	defer s.read()()
	p, ok := s.eventProjects[id]
	if !ok {
		return nil, fmt.Errorf("event project %s: %w", id.Hex(), store.ErrNotFound)
	}
	return copyEventProject(p), nil
}

// ListEventProjects retrieves all projects of an event, oldest first
func (s *Store) ListEventProjects(ctx context.Context, eventID primitive.ObjectID) ([]*models.EventProject, error) {
	defer s.read()()
	var projects []*models.EventProject
	for _, p := range s.eventProjects {
		if p.Event == eventID {
			projects = append(projects, copyEventProject(p))
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID.Hex() < projects[j].ID.Hex() })
	return projects, nil
}

// InsertEventProject stores a new event project
func (s *Store) InsertEventProject(ctx context.Context, project *models.EventProject) error {
	defer s.write()()
	ensureID(&project.ID)
	if _, ok := s.eventProjects[project.ID]; ok {
		return fmt.Errorf("event project %s: %w", project.ID.Hex(), store.ErrDuplicate)
	}
	s.eventProjects[project.ID] = copyEventProject(project)
	return nil
}

// DeleteEventProject deletes an event project by id
func (s *Store) DeleteEventProject(ctx context.Context, id primitive.ObjectID) error {
	defer s.write()()
	delete(s.eventProjects, id)
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// TASK OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

// GetTask retrieves a task by id
func (s *Store) GetTask(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	defer s.read()()
	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id.Hex(), store.ErrNotFound)
	}
	return copyTask(t), nil
}

// ListTasks retrieves the tasks whose id is in ids, in the order given
func (s *Store) ListTasks(ctx context.Context, taskIDs []primitive.ObjectID) ([]*models.Task, error) {
	defer s.read()()
	tasks := make([]*models.Task, 0, len(taskIDs))
	for _, id := range taskIDs {
		if t, ok := s.tasks[id]; ok {
			tasks = append(tasks, copyTask(t))
		}
	}
	return tasks, nil
}

// InsertTask stores a new task
func (s *Store) InsertTask(ctx context.Context, task *models.Task) error {
	defer s.write()()
	ensureID(&task.ID)
	if _, ok := s.tasks[task.ID]; ok {
		return fmt.Errorf("task %s: %w", task.ID.Hex(), store.ErrDuplicate)
	}
	s.tasks[task.ID] = copyTask(task)
	return nil
}

// UpdateTask sets the non-nil fields of input
func (s *Store) UpdateTask(ctx context.Context, id primitive.ObjectID, input *models.UpdateTaskInput) (*models.Task, error) {
	defer s.write()()
	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id.Hex(), store.ErrNotFound)
	}
	if input.Title != nil {
		t.Title = *input.Title
	}
	if input.Description != nil {
		t.Description = *input.Description
	}
	if input.Deadline != nil {
		d := *input.Deadline
		t.Deadline = &d
	}
	if input.Completed != nil {
		t.Completed = *input.Completed
	}
	return copyTask(t), nil
}

// DeleteTask deletes a task by id
func (s *Store) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	defer s.write()()
	delete(s.tasks, id)
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// POST & COMMENT OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

// GetPost retrieves a post by id
func (s *Store) GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	defer s.read()()
	p, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id.Hex(), store.ErrNotFound)
	}
	return copyPost(p), nil
}

// InsertPost stores a new post
func (s *Store) InsertPost(ctx context.Context, post *models.Post) error {
	defer s.write()()
	ensureID(&post.ID)
	if _, ok := s.posts[post.ID]; ok {
		return fmt.Errorf("post %s: %w", post.ID.Hex(), store.ErrDuplicate)
	}
	s.posts[post.ID] = copyPost(post)
	return nil
}

// LikePost adds userID to likedBy and increments likeCount, only if absent
func (s *Store) LikePost(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	defer s.write()()
	p, ok := s.posts[postID]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", postID.Hex(), store.ErrNotFound)
	}
	if !slices.Contains(p.LikedBy, userID) {
		p.LikedBy = append(p.LikedBy, userID)
		p.LikeCount++
	}
	return copyPost(p), nil
}

// UnlikePost removes userID from likedBy and decrements likeCount, only if present
func (s *Store) UnlikePost(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	defer s.write()()
	p, ok := s.posts[postID]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", postID.Hex(), store.ErrNotFound)
	}
	if slices.Contains(p.LikedBy, userID) {
		p.LikedBy = pull(p.LikedBy, userID)
		p.LikeCount--
	}
	return copyPost(p), nil
}

// IncPostCommentCount adds delta to the post's commentCount
func (s *Store) IncPostCommentCount(ctx context.Context, postID primitive.ObjectID, delta int) error {
	defer s.write()()
	if p, ok := s.posts[postID]; ok {
		p.CommentCount += delta
	}
	return nil
}

// GetComment retrieves a comment by id
func (s *Store) GetComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	defer s.read()()
	c, ok := s.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id.Hex(), store.ErrNotFound)
	}
	return copyComment(c), nil
}

// ListComments retrieves the comments of a post, oldest first
func (s *Store) ListComments(ctx context.Context, postID primitive.ObjectID) ([]*models.Comment, error) {
	defer s.read()()
	var comments []*models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			comments = append(comments, copyComment(c))
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID.Hex() < comments[j].ID.Hex()
	})
	return comments, nil
}

// InsertComment stores a new comment
func (s *Store) InsertComment(ctx context.Context, comment *models.Comment) error {
	defer s.write()()
	ensureID(&comment.ID)
	if _, ok := s.comments[comment.ID]; ok {
		return fmt.Errorf("comment %s: %w", comment.ID.Hex(), store.ErrDuplicate)
	}
	s.comments[comment.ID] = copyComment(comment)
	return nil
}

// DeleteComment deletes a comment by id
func (s *Store) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	defer s.write()()
	delete(s.comments, id)
	return nil
}

// LikeComment adds userID to likedBy and increments likeCount, only if absent
func (s *Store) LikeComment(ctx context.Context, commentID, userID primitive.ObjectID) (*models.Comment, error) {
	defer s.write()()
	c, ok := s.comments[commentID]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", commentID.Hex(), store.ErrNotFound)
	}
	if !slices.Contains(c.LikedBy, userID) {
		c.LikedBy = append(c.LikedBy, userID)
		c.LikeCount++
	}
	return copyComment(c), nil
}

// UnlikeComment removes userID from likedBy and decrements likeCount, only if present
func (s *Store) UnlikeComment(ctx context.Context, commentID, userID primitive.ObjectID) (*models.Comment, error) {
	defer s.write()()
	c, ok := s.comments[commentID]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", commentID.Hex(), store.ErrNotFound)
	}
	if slices.Contains(c.LikedBy, userID) {
		c.LikedBy = pull(c.LikedBy, userID)
		c.LikeCount--
	}
	return copyComment(c), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// GROUP CHAT OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

// GetGroupChat retrieves a group chat by id
func (s *Store) GetGroupChat(ctx context.Context, id primitive.ObjectID) (*models.GroupChat, error) {
	defer s.read()()
	g, ok := s.groupChats[id]
	if !ok {
		return nil, fmt.Errorf("group chat %s: %w", id.Hex(), store.ErrNotFound)
	}
	return copyGroupChat(g), nil
}

// InsertGroupChat stores a new group chat
func (s *Store) InsertGroupChat(ctx context.Context, chat *models.GroupChat) error {
	defer s.write()()
	ensureID(&chat.ID)
	if _, ok := s.groupChats[chat.ID]; ok {
		return fmt.Errorf("group chat %s: %w", chat.ID.Hex(), store.ErrDuplicate)
	}
	s.groupChats[chat.ID] = copyGroupChat(chat)
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// TAG OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

func tagKey(orgID primitive.ObjectID, parentID *primitive.ObjectID, name string) string {
	parent := "null"
	if parentID != nil {
		parent = parentID.Hex()
	}
	return orgID.Hex() + "/" + parent + "/" + name
}

// GetTag retrieves a user tag by id
func (s *Store) GetTag(ctx context.Context, id primitive.ObjectID) (*models.OrganizationTagUser, error) {
	defer s.read()()
	t, ok := s.tags[id]
	if !ok {
		return nil, fmt.Errorf("tag %s: %w", id.Hex(), store.ErrNotFound)
	}
	return copyTag(t), nil
}

// ListChildTags retrieves the tags of an organization under parentID, by name
func (s *Store) ListChildTags(ctx context.Context, orgID primitive.ObjectID, parentID *primitive.ObjectID) ([]*models.OrganizationTagUser, error) {
	defer s.read()()
	var tags []*models.OrganizationTagUser
	for _, t := range s.tags {
		if t.OrganizationID != orgID {
			continue
		}
		switch {
		case parentID == nil && t.ParentTagID == nil:
		case parentID != nil && t.ParentTagID != nil && *parentID == *t.ParentTagID:
		default:
			continue
		}
		tags = append(tags, copyTag(t))
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

// InsertTag stores a new tag, enforcing sibling-name uniqueness
func (s *Store) InsertTag(ctx context.Context, tag *models.OrganizationTagUser) error {
	defer s.write()()
	ensureID(&tag.ID)
	key := tagKey(tag.OrganizationID, tag.ParentTagID, tag.Name)
	if _, ok := s.tagKeys[key]; ok {
		return fmt.Errorf("tag %q: %w", tag.Name, store.ErrDuplicate)
	}
	if _, ok := s.tags[tag.ID]; ok {
		return fmt.Errorf("tag %s: %w", tag.ID.Hex(), store.ErrDuplicate)
	}
	s.tags[tag.ID] = copyTag(tag)
	s.tagKeys[key] = tag.ID
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// HEALTH & STATS
// ═══════════════════════════════════════════════════════════════════════════

// HealthCheck always succeeds for the in-memory store
func (s *Store) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}

// GetStats returns request statistics
func (s *Store) GetStats() *models.Stats {
	return &models.Stats{
		Backend:       "memory",
		TotalRequests: int(atomic.LoadInt64(&s.totalRequests)),
	}
}
