// Package store defines the persistence contract the resolvers run against.
// Implementations guarantee atomicity per document only; nothing here spans
// documents and nothing cascades.
package store

import (
	"context"
	"errors"

	"github.com/devplatform/community-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when no document matches the identifier
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when an insert violates a unique index
	ErrDuplicate = errors.New("duplicate key")
)

// Store is implemented by every entity store backend
type Store interface {
	// ═══════════════════════════════════════════════════════════════════════════
	// USER OPERATIONS
	// ═══════════════════════════════════════════════════════════════════════════

	// UserExists reports whether a user with id exists
	UserExists(ctx context.Context, id primitive.ObjectID) (bool, error)

	// GetUser retrieves a user by id
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	// ListUsers retrieves the users whose id is in ids; missing ids are skipped
	ListUsers(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error)

	// InsertUser stores a new user
	InsertUser(ctx context.Context, user *models.User) error

	// PullUserEvent removes eventID from the user's eventAdmin, createdEvents
	// and registeredEvents lists in one update. Lists without it are untouched.
	PullUserEvent(ctx context.Context, userID, eventID primitive.ObjectID) error

	// ═══════════════════════════════════════════════════════════════════════════
	// ORGANIZATION OPERATIONS
	// ═══════════════════════════════════════════════════════════════════════════

	// GetOrganization retrieves an organization by id
	GetOrganization(ctx context.Context, id primitive.ObjectID) (*models.Organization, error)

	// InsertOrganization stores a new organization
	InsertOrganization(ctx context.Context, org *models.Organization) error

	// ═══════════════════════════════════════════════════════════════════════════
	// EVENT OPERATIONS
	// ═══════════════════════════════════════════════════════════════════════════

	// GetEvent retrieves an event by id
	GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error)

	// InsertEvent stores a new event
	InsertEvent(ctx context.Context, event *models.Event) error

	// DeleteEvent deletes an event by id
	DeleteEvent(ctx context.Context, id primitive.ObjectID) error

	// PullEventTask removes taskID from the event's tasks list
	PullEventTask(ctx context.Context, eventID, taskID primitive.ObjectID) error

	// GetEventProject retrieves an event project by id
	GetEventProject(ctx context.Context, id primitive.ObjectID) (*models.EventProject, error)

	// ListEventProjects retrieves all projects of an event
	ListEventProjects(ctx context.Context, eventID primitive.ObjectID) ([]*models.EventProject, error)

	// InsertEventProject stores a new event project
	InsertEventProject(ctx context.Context, project *models.EventProject) error

	// DeleteEventProject deletes an event project by id
	DeleteEventProject(ctx context.Context, id primitive.ObjectID) error

	// ═══════════════════════════════════════════════════════════════════════════
	// TASK OPERATIONS
	// ═══════════════════════════════════════════════════════════════════════════

	// GetTask retrieves a task by id
	GetTask(ctx context.Context, id primitive.ObjectID) (*models.Task, error)

	// ListTasks retrieves the tasks whose id is in ids; missing ids are skipped
	ListTasks(ctx context.Context, ids []primitive.ObjectID) ([]*models.Task, error)

	// InsertTask stores a new task
	InsertTask(ctx context.Context, task *models.Task) error

	// UpdateTask sets the non-nil fields of input and returns the updated task
	UpdateTask(ctx context.Context, id primitive.ObjectID, input *models.UpdateTaskInput) (*models.Task, error)

	// DeleteTask deletes a task by id
	DeleteTask(ctx context.Context, id primitive.ObjectID) error

	// ═══════════════════════════════════════════════════════════════════════════
	// POST & COMMENT OPERATIONS
	// ═══════════════════════════════════════════════════════════════════════════

	// GetPost retrieves a post by id
	GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error)

	// InsertPost stores a new post
	InsertPost(ctx context.Context, post *models.Post) error

	// LikePost adds userID to likedBy and increments likeCount, only if absent.
	// It returns the post as stored after the call.
	LikePost(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error)

	// UnlikePost removes userID from likedBy and decrements likeCount, only if
	// present. It returns the post as stored after the call.
	UnlikePost(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error)

	// IncPostCommentCount adds delta to the post's commentCount
	IncPostCommentCount(ctx context.Context, postID primitive.ObjectID, delta int) error

	// GetComment retrieves a comment by id
	GetComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)

	// ListComments retrieves the comments of a post, oldest first
	ListComments(ctx context.Context, postID primitive.ObjectID) ([]*models.Comment, error)

	// InsertComment stores a new comment
	InsertComment(ctx context.Context, comment *models.Comment) error

	// DeleteComment deletes a comment by id
	DeleteComment(ctx context.Context, id primitive.ObjectID) error

	// LikeComment is the comment counterpart of LikePost
	LikeComment(ctx context.Context, commentID, userID primitive.ObjectID) (*models.Comment, error)

	// UnlikeComment is the comment counterpart of UnlikePost
	UnlikeComment(ctx context.Context, commentID, userID primitive.ObjectID) (*models.Comment, error)

	// ═══════════════════════════════════════════════════════════════════════════
	// GROUP CHAT OPERATIONS
	// ═══════════════════════════════════════════════════════════════════════════

	// GetGroupChat retrieves a group chat by id
	GetGroupChat(ctx context.Context, id primitive.ObjectID) (*models.GroupChat, error)

	// InsertGroupChat stores a new group chat
	InsertGroupChat(ctx context.Context, chat *models.GroupChat) error

	// ═══════════════════════════════════════════════════════════════════════════
	// TAG OPERATIONS
	// ═══════════════════════════════════════════════════════════════════════════

	// GetTag retrieves a user tag by id
	GetTag(ctx context.Context, id primitive.ObjectID) (*models.OrganizationTagUser, error)

	// ListChildTags retrieves the tags of an organization under parentID;
	// a nil parentID lists the root tags.
	ListChildTags(ctx context.Context, orgID primitive.ObjectID, parentID *primitive.ObjectID) ([]*models.OrganizationTagUser, error)

	// InsertTag stores a new tag, returning ErrDuplicate when a sibling with
	// the same name already exists
	InsertTag(ctx context.Context, tag *models.OrganizationTagUser) error

	// ═══════════════════════════════════════════════════════════════════════════
	// HEALTH & STATS
	// ═══════════════════════════════════════════════════════════════════════════

	// HealthCheck verifies the backend is reachable
	HealthCheck(ctx context.Context) error

	// GetStats returns connection statistics
	GetStats() *models.Stats
}
