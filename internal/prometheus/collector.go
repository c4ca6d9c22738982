package prometheus

import (
	"context"
	"time"

	"github.com/devplatform/community-api/internal/models"
	"github.com/devplatform/community-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ store.Store = (*StoreCollector)(nil)

// StoreCollector wraps a store.Store and records metrics for all operations
type StoreCollector struct {
	next store.Store
}

// NewStoreCollector creates a new instrumented wrapper around a store.Store
func NewStoreCollector(next store.Store) *StoreCollector {
	return &StoreCollector{next: next}
}

// recordOperation records duration and count for an operation
func recordOperation(operation string, start time.Time, err error) {
	success := "true"
	if err != nil {
		success = "false"
	}

	OperationDuration.WithLabelValues(operation, success).Observe(time.Since(start).Seconds())
	OperationsTotal.WithLabelValues(operation, success).Inc()
}

// updatePoolMetrics updates connection pool gauges from stats
func updatePoolMetrics(stats *models.Stats) {
	if stats == nil {
		return
	}
	PoolSize.Set(float64(stats.PoolSize))
	PoolOpenConnections.Set(float64(stats.Open))
	PoolActiveConnections.Set(float64(stats.InUse))
	PoolTotalRequests.Set(float64(stats.TotalRequests))
}

// ═══════════════════════════════════════════════════════════════════════════
// USER OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

func (c *StoreCollector) UserExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	start := time.Now()
	ok, err := c.next.UserExists(ctx, id)
	recordOperation("user_exists", start, err)
	return ok, err
}

func (c *StoreCollector) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	start := time.Now()
	user, err := c.next.GetUser(ctx, id)
	recordOperation("get_user", start, err)
	return user, err
}

func (c *StoreCollector) ListUsers(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error) {
	start := time.Now()
	users, err := c.next.ListUsers(ctx, ids)
	recordOperation("list_users", start, err)
	return users, err
}

func (c *StoreCollector) InsertUser(ctx context.Context, user *models.User) error {
	start := time.Now()
	err := c.next.InsertUser(ctx, user)
	recordOperation("insert_user", start, err)
	return err
}

func (c *StoreCollector) PullUserEvent(ctx context.Context, userID, eventID primitive.ObjectID) error {
	start := time.Now()
	err := c.next.PullUserEvent(ctx, userID, eventID)
	recordOperation("pull_user_event", start, err)
	return err
}

// ═══════════════════════════════════════════════════════════════════════════
// ORGANIZATION OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

func (c *StoreCollector) GetOrganization(ctx context.Context, id primitive.ObjectID) (*models.Organization, error) {
	start := time.Now()
	org, err := c.next.GetOrganization(ctx, id)
	recordOperation("get_organization", start, err)
	return org, err
}

func (c *StoreCollector) InsertOrganization(ctx context.Context, org *models.Organization) error {
	start := time.Now()
	err := c.next.InsertOrganization(ctx, org)
	recordOperation("insert_organization", start, err)
	return err
}

// ═══════════════════════════════════════════════════════════════════════════
// EVENT OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

func (c *StoreCollector) GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	start := time.Now()
	event, err := c.next.GetEvent(ctx, id)
	recordOperation("get_event", start, err)
	return event, err
}

func (c *StoreCollector) InsertEvent(ctx context.Context, event *models.Event) error {
	start := time.Now()
	err := c.next.InsertEvent(ctx, event)
	recordOperation("insert_event", start, err)
	return err
}

func (c *StoreCollector) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	start := time.Now()
	err := c.next.DeleteEvent(ctx, id)
	recordOperation("delete_event", start, err)

	if err == nil {
		EventsRemovedTotal.Inc()
	}

	return err
}

func (c *StoreCollector) PullEventTask(ctx context.Context, eventID, taskID primitive.ObjectID) error {
	start := time.Now()
	err := c.next.PullEventTask(ctx, eventID, taskID)
	recordOperation("pull_event_task", start, err)
	return err
}

func (c *StoreCollector) GetEventProject(ctx context.Context, id primitive.ObjectID) (*models.EventProject, error) {
	start := time.Now()
	project, err := c.next.GetEventProject(ctx, id)
	recordOperation("get_event_project", start, err)
	return project, err
}

func (c *StoreCollector) ListEventProjects(ctx context.Context, eventID primitive.ObjectID) ([]*models.EventProject, error) {
	start := time.Now()
	projects, err := c.next.ListEventProjects(ctx, eventID)
	recordOperation("list_event_projects", start, err)
	return projects, err
}

func (c *StoreCollector) InsertEventProject(ctx context.Context, project *models.EventProject) error {
	start := time.Now()
	err := c.next.InsertEventProject(ctx, project)
	recordOperation("insert_event_project", start, err)
	return err
}

func (c *StoreCollector) DeleteEventProject(ctx context.Context, id primitive.ObjectID) error {
	start := time.Now()
	err := c.next.DeleteEventProject(ctx, id)
	recordOperation("delete_event_project", start, err)

	if err == nil {
		EventProjectsRemovedTotal.Inc()
	}

	return err
}

// ═══════════════════════════════════════════════════════════════════════════
// TASK OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

func (c *StoreCollector) GetTask(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	start := time.Now()
	task, err := c.next.GetTask(ctx, id)
	recordOperation("get_task", start, err)
	return task, err
}

func (c *StoreCollector) ListTasks(ctx context.Context, ids []primitive.ObjectID) ([]*models.Task, error) {
	start := time.Now()
	tasks, err := c.next.ListTasks(ctx, ids)
	recordOperation("list_tasks", start, err)
	return tasks, err
}

func (c *StoreCollector) InsertTask(ctx context.Context, task *models.Task) error {
	start := time.Now()
	err := c.next.InsertTask(ctx, task)
	recordOperation("insert_task", start, err)
	return err
}

func (c *StoreCollector) UpdateTask(ctx context.Context, id primitive.ObjectID, input *models.UpdateTaskInput) (*models.Task, error) {
	start := time.Now()
	task, err := c.next.UpdateTask(ctx, id, input)
	recordOperation("update_task", start, err)

	if err == nil {
		TasksUpdatedTotal.Inc()
	}

	return task, err
}

func (c *StoreCollector) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	start := time.Now()
	err := c.next.DeleteTask(ctx, id)
	recordOperation("delete_task", start, err)

	if err == nil {
		TasksRemovedTotal.Inc()
	}

	return err
}

// ═══════════════════════════════════════════════════════════════════════════
// POST & COMMENT OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

func (c *StoreCollector) GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	start := time.Now()
	post, err := c.next.GetPost(ctx, id)
	recordOperation("get_post", start, err)
	return post, err
}

func (c *StoreCollector) InsertPost(ctx context.Context, post *models.Post) error {
	start := time.Now()
	err := c.next.InsertPost(ctx, post)
	recordOperation("insert_post", start, err)
	return err
}

func (c *StoreCollector) LikePost(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	start := time.Now()
	post, err := c.next.LikePost(ctx, postID, userID)
	recordOperation("like_post", start, err)

	if err == nil {
		LikesToggledTotal.WithLabelValues("post", "like").Inc()
	}

	return post, err
}

func (c *StoreCollector) UnlikePost(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	start := time.Now()
	post, err := c.next.UnlikePost(ctx, postID, userID)
	recordOperation("unlike_post", start, err)

	if err == nil {
		LikesToggledTotal.WithLabelValues("post", "unlike").Inc()
	}

	return post, err
}

func (c *StoreCollector) IncPostCommentCount(ctx context.Context, postID primitive.ObjectID, delta int) error {
	start := time.Now()
	err := c.next.IncPostCommentCount(ctx, postID, delta)
	recordOperation("inc_post_comment_count", start, err)
	return err
}

func (c *StoreCollector) GetComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	start := time.Now()
	comment, err := c.next.GetComment(ctx, id)
	recordOperation("get_comment", start, err)
	return comment, err
}

func (c *StoreCollector) ListComments(ctx context.Context, postID primitive.ObjectID) ([]*models.Comment, error) {
	start := time.Now()
	comments, err := c.next.ListComments(ctx, postID)
	recordOperation("list_comments", start, err)
	return comments, err
}

func (c *StoreCollector) InsertComment(ctx context.Context, comment *models.Comment) error {
	start := time.Now()
	err := c.next.InsertComment(ctx, comment)
	recordOperation("insert_comment", start, err)

	if err == nil {
		CommentsCreatedTotal.Inc()
	}

	return err
}

func (c *StoreCollector) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	start := time.Now()
	err := c.next.DeleteComment(ctx, id)
	recordOperation("delete_comment", start, err)

	if err == nil {
		CommentsRemovedTotal.Inc()
	}

	return err
}

func (c *StoreCollector) LikeComment(ctx context.Context, commentID, userID primitive.ObjectID) (*models.Comment, error) {
	start := time.Now()
	comment, err := c.next.LikeComment(ctx, commentID, userID)
	recordOperation("like_comment", start, err)

	if err == nil {
		LikesToggledTotal.WithLabelValues("comment", "like").Inc()
	}

	return comment, err
}

func (c *StoreCollector) UnlikeComment(ctx context.Context, commentID, userID primitive.ObjectID) (*models.Comment, error) {
	start := time.Now()
	comment, err := c.next.UnlikeComment(ctx, commentID, userID)
	recordOperation("unlike_comment", start, err)

	if err == nil {
		LikesToggledTotal.WithLabelValues("comment", "unlike").Inc()
	}

	return comment, err
}

// ═══════════════════════════════════════════════════════════════════════════
// GROUP CHAT OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

func (c *StoreCollector) GetGroupChat(ctx context.Context, id primitive.ObjectID) (*models.GroupChat, error) {
	start := time.Now()
	chat, err := c.next.GetGroupChat(ctx, id)
	recordOperation("get_group_chat", start, err)
	return chat, err
}

func (c *StoreCollector) InsertGroupChat(ctx context.Context, chat *models.GroupChat) error {
	start := time.Now()
	err := c.next.InsertGroupChat(ctx, chat)
	recordOperation("insert_group_chat", start, err)
	return err
}

// ═══════════════════════════════════════════════════════════════════════════
// TAG OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

func (c *StoreCollector) GetTag(ctx context.Context, id primitive.ObjectID) (*models.OrganizationTagUser, error) {
	start := time.Now()
	tag, err := c.next.GetTag(ctx, id)
	recordOperation("get_tag", start, err)
	return tag, err
}

func (c *StoreCollector) ListChildTags(ctx context.Context, orgID primitive.ObjectID, parentID *primitive.ObjectID) ([]*models.OrganizationTagUser, error) {
	start := time.Now()
	tags, err := c.next.ListChildTags(ctx, orgID, parentID)
	recordOperation("list_child_tags", start, err)
	return tags, err
}

func (c *StoreCollector) InsertTag(ctx context.Context, tag *models.OrganizationTagUser) error {
	start := time.Now()
	err := c.next.InsertTag(ctx, tag)
	recordOperation("insert_tag", start, err)

	if err == nil {
		level := "child"
		if tag.IsRoot() {
			level = "root"
		}
		TagsCreatedTotal.WithLabelValues(level).Inc()
	}

	return err
}

// ═══════════════════════════════════════════════════════════════════════════
// HEALTH & STATS
// ═══════════════════════════════════════════════════════════════════════════

func (c *StoreCollector) HealthCheck(ctx context.Context) error {
	start := time.Now()
	err := c.next.HealthCheck(ctx)
	recordOperation("health_check", start, err)
	return err
}

func (c *StoreCollector) GetStats() *models.Stats {
	stats := c.next.GetStats()
	updatePoolMetrics(stats)
	return stats
}
