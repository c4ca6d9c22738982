package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a member of the community
type User struct {
	ID                  primitive.ObjectID   `bson:"_id" json:"id"`
	FirstName           string               `bson:"firstName" json:"firstName"`
	LastName            string               `bson:"lastName" json:"lastName"`
	Email               string               `bson:"email" json:"email"`
	AdminFor            []primitive.ObjectID `bson:"adminFor" json:"adminFor"`
	JoinedOrganizations []primitive.ObjectID `bson:"joinedOrganizations" json:"joinedOrganizations"`
	EventAdmin          []primitive.ObjectID `bson:"eventAdmin" json:"eventAdmin"`
	CreatedEvents       []primitive.ObjectID `bson:"createdEvents" json:"createdEvents"`
	RegisteredEvents    []primitive.ObjectID `bson:"registeredEvents" json:"registeredEvents"`
	CreatedAt           time.Time            `bson:"createdAt" json:"createdAt"`
}

// Organization groups users under a set of admins
type Organization struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Creator     primitive.ObjectID   `bson:"creator" json:"creator"`
	Admins      []primitive.ObjectID `bson:"admins" json:"admins"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}

// Event is scheduled inside an organization
type Event struct {
	ID           primitive.ObjectID   `bson:"_id" json:"id"`
	Title        string               `bson:"title" json:"title"`
	Description  string               `bson:"description" json:"description"`
	Organization primitive.ObjectID   `bson:"organization" json:"organization"`
	Creator      primitive.ObjectID   `bson:"creator" json:"creator"`
	Admins       []primitive.ObjectID `bson:"admins" json:"admins"`
	Registrants  []primitive.ObjectID `bson:"registrants" json:"registrants"`
	Tasks        []primitive.ObjectID `bson:"tasks" json:"tasks"`
	StartDate    time.Time            `bson:"startDate" json:"startDate"`
	EndDate      time.Time            `bson:"endDate" json:"endDate"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
}

// EventProject belongs to one event and has exactly one creator
type EventProject struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Event       primitive.ObjectID `bson:"event" json:"event"`
	Creator     primitive.ObjectID `bson:"creator" json:"creator"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Task belongs to one event and has exactly one creator
type Task struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Event       primitive.ObjectID `bson:"event" json:"event"`
	Creator     primitive.ObjectID `bson:"creator" json:"creator"`
	Deadline    *time.Time         `bson:"deadline" json:"deadline"`
	Completed   bool               `bson:"completed" json:"completed"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Post is published to an organization. LikeCount always equals len(LikedBy).
type Post struct {
	ID           primitive.ObjectID   `bson:"_id" json:"id"`
	Title        string               `bson:"title" json:"title"`
	Text         string               `bson:"text" json:"text"`
	Organization primitive.ObjectID   `bson:"organization" json:"organization"`
	Creator      primitive.ObjectID   `bson:"creator" json:"creator"`
	LikedBy      []primitive.ObjectID `bson:"likedBy" json:"likedBy"`
	LikeCount    int                  `bson:"likeCount" json:"likeCount"`
	CommentCount int                  `bson:"commentCount" json:"commentCount"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
}

// Comment belongs to exactly one post. LikeCount always equals len(LikedBy).
type Comment struct {
	ID        primitive.ObjectID   `bson:"_id" json:"id"`
	Text      string               `bson:"text" json:"text"`
	PostID    primitive.ObjectID   `bson:"postId" json:"postId"`
	Creator   primitive.ObjectID   `bson:"creator" json:"creator"`
	LikedBy   []primitive.ObjectID `bson:"likedBy" json:"likedBy"`
	LikeCount int                  `bson:"likeCount" json:"likeCount"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}

// GroupChat has one creator and a set of member users
type GroupChat struct {
	ID           primitive.ObjectID   `bson:"_id" json:"id"`
	Title        string               `bson:"title" json:"title"`
	Creator      primitive.ObjectID   `bson:"creator" json:"creator"`
	Users        []primitive.ObjectID `bson:"users" json:"users"`
	Organization primitive.ObjectID   `bson:"organization" json:"organization"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
}

// OrganizationTagUser is a node of an organization's user-tag hierarchy.
// A nil ParentTagID marks a root tag. (OrganizationID, ParentTagID, Name) is unique.
type OrganizationTagUser struct {
	ID             primitive.ObjectID  `bson:"_id" json:"id"`
	Name           string              `bson:"name" json:"name"`
	OrganizationID primitive.ObjectID  `bson:"organizationId" json:"organizationId"`
	ParentTagID    *primitive.ObjectID `bson:"parentTagId" json:"parentTagId"`
}

// IsRoot reports whether the tag has no parent
func (t *OrganizationTagUser) IsRoot() bool {
	return t.ParentTagID == nil
}

// CreateCommentInput contains fields for creating a comment
type CreateCommentInput struct {
	PostID primitive.ObjectID `json:"postId"`
	Text   string             `json:"text"`
}

// UpdateTaskInput contains fields for updating a task; nil fields are left untouched
type UpdateTaskInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
}

// IsEmpty reports whether no field is set
func (in *UpdateTaskInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.Deadline == nil && in.Completed == nil
}

// CreateUserTagInput contains fields for creating a user tag
type CreateUserTagInput struct {
	OrganizationID primitive.ObjectID  `json:"organizationId"`
	ParentTagID    *primitive.ObjectID `json:"parentTagId,omitempty"`
	Name           string              `json:"name"`
}

// Stats contains connection pool statistics
type Stats struct {
	Backend       string `json:"backend"`
	PoolSize      int    `json:"poolSize"`
	Open          int    `json:"open"`
	InUse         int    `json:"inUse"`
	TotalRequests int    `json:"totalRequests"`
}

// HealthStatus represents the health status of the service
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
	Store     bool   `json:"store"`
}
