package resolvers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devplatform/community-api/internal/apperrors"
	"github.com/devplatform/community-api/internal/models"
	"github.com/devplatform/community-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ═══════════════════════════════════════════════════════════════════════════
// ROOT QUERIES
// ═══════════════════════════════════════════════════════════════════════════

// Me returns the caller's user document
func (r *Resolver) Me(ctx context.Context, caller Caller) (*models.User, error) {
	return r.loadUser(ctx, caller)
}

// User returns a user by id
func (r *Resolver) User(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := r.store.GetUser(ctx, id)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.UserNotFound)
	}
	return user, nil
}

// Organization returns an organization by id
func (r *Resolver) Organization(ctx context.Context, id primitive.ObjectID) (*models.Organization, error) {
	org, err := r.store.GetOrganization(ctx, id)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.OrganizationNotFound)
	}
	return org, nil
}

// Event returns an event by id
func (r *Resolver) Event(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	event, err := r.store.GetEvent(ctx, id)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.EventNotFound)
	}
	return event, nil
}

// Post returns a post by id
func (r *Resolver) Post(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	post, err := r.store.GetPost(ctx, id)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.PostNotFound)
	}
	return post, nil
}

// Comment returns a comment by id
func (r *Resolver) Comment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	comment, err := r.store.GetComment(ctx, id)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.CommentNotFound)
	}
	return comment, nil
}

// GroupChat returns a group chat by id
func (r *Resolver) GroupChat(ctx context.Context, id primitive.ObjectID) (*models.GroupChat, error) {
	chat, err := r.store.GetGroupChat(ctx, id)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.GroupChatNotFound)
	}
	return chat, nil
}

// UserTag returns a tag by id
func (r *Resolver) UserTag(ctx context.Context, id primitive.ObjectID) (*models.OrganizationTagUser, error) {
	tag, err := r.store.GetTag(ctx, id)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.TagNotFound)
	}
	return tag, nil
}

// Health reports whether the store answers
func (r *Resolver) Health(ctx context.Context) *models.HealthStatus {
	status := &models.HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
		Store:     true,
	}
	if err := r.store.HealthCheck(ctx); err != nil {
		r.logger.WithError(err).Warn("Store health check failed")
		status.Status = "unhealthy"
		status.Store = false
	}
	return status
}

// Stats returns the store's connection statistics
func (r *Resolver) Stats() *models.Stats {
	return r.store.GetStats()
}

// ═══════════════════════════════════════════════════════════════════════════
// FIELD RESOLVERS
// ═══════════════════════════════════════════════════════════════════════════

// optionalUser returns nil without error when the referenced user is gone
func (r *Resolver) optionalUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := r.store.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user: %w", err)
	}
	return user, nil
}

// OrganizationMembers returns the users listed in org.Members
func (r *Resolver) OrganizationMembers(ctx context.Context, org *models.Organization) ([]*models.User, error) {
	return r.store.ListUsers(ctx, org.Members)
}

// OrganizationAdmins returns the users listed in org.Admins
func (r *Resolver) OrganizationAdmins(ctx context.Context, org *models.Organization) ([]*models.User, error) {
	return r.store.ListUsers(ctx, org.Admins)
}

// GroupChatCreator returns the chat's creator, or nil if the user no longer exists
func (r *Resolver) GroupChatCreator(ctx context.Context, chat *models.GroupChat) (*models.User, error) {
	return r.optionalUser(ctx, chat.Creator)
}

// GroupChatUsers returns the chat's member users
func (r *Resolver) GroupChatUsers(ctx context.Context, chat *models.GroupChat) ([]*models.User, error) {
	return r.store.ListUsers(ctx, chat.Users)
}

// EventTasks returns the tasks listed in event.Tasks
func (r *Resolver) EventTasks(ctx context.Context, event *models.Event) ([]*models.Task, error) {
	return r.store.ListTasks(ctx, event.Tasks)
}

// EventProjects returns the projects of an event
func (r *Resolver) EventProjects(ctx context.Context, event *models.Event) ([]*models.EventProject, error) {
	return r.store.ListEventProjects(ctx, event.ID)
}

// PostComments returns the comments of a post, oldest first
func (r *Resolver) PostComments(ctx context.Context, post *models.Post) ([]*models.Comment, error) {
	return r.store.ListComments(ctx, post.ID)
}

// PostCreator returns the post's creator, or nil if the user no longer exists
func (r *Resolver) PostCreator(ctx context.Context, post *models.Post) (*models.User, error) {
	return r.optionalUser(ctx, post.Creator)
}

// CommentCreator returns the comment's creator, or nil if the user no longer exists
func (r *Resolver) CommentCreator(ctx context.Context, comment *models.Comment) (*models.User, error) {
	return r.optionalUser(ctx, comment.Creator)
}

// TaskCreator returns the task's creator, or nil if the user no longer exists
func (r *Resolver) TaskCreator(ctx context.Context, task *models.Task) (*models.User, error) {
	return r.optionalUser(ctx, task.Creator)
}

// TagParent returns the parent tag, or nil for root tags and dangling parents
func (r *Resolver) TagParent(ctx context.Context, tag *models.OrganizationTagUser) (*models.OrganizationTagUser, error) {
	if tag.IsRoot() {
		return nil, nil
	}
	parent, err := r.store.GetTag(ctx, *tag.ParentTagID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tag: %w", err)
	}
	return parent, nil
}

// TagChildren returns the direct children of a tag, by name
func (r *Resolver) TagChildren(ctx context.Context, tag *models.OrganizationTagUser) ([]*models.OrganizationTagUser, error) {
	id := tag.ID
	return r.store.ListChildTags(ctx, tag.OrganizationID, &id)
}
