package resolvers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devplatform/community-api/internal/apperrors"
	"github.com/devplatform/community-api/internal/authz"
	"github.com/devplatform/community-api/internal/models"
	"github.com/devplatform/community-api/internal/store"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ═══════════════════════════════════════════════════════════════════════════
// EVENT MUTATIONS
// ═══════════════════════════════════════════════════════════════════════════

// AdminRemoveEvent deletes an event on behalf of an admin of its organization.
// Checks: event, organization, user, organization admin. The event id is
// pulled from the caller's eventAdmin, createdEvents and registeredEvents
// lists; other users keep their references. Returns the event as it was.
func (r *Resolver) AdminRemoveEvent(ctx context.Context, caller Caller, eventID primitive.ObjectID) (*models.Event, error) {
	if caller.IsAnonymous() {
		return nil, r.Fail(ctx, apperrors.Unauthenticated)
	}

	event, err := r.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.EventNotFound)
	}

	org, err := r.store.GetOrganization(ctx, event.Organization)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.OrganizationNotFound)
	}

	if err := r.requireUser(ctx, caller); err != nil {
		return nil, err
	}

	if !authz.IsOrganizationAdmin(org, caller.UserID) {
		return nil, r.Fail(ctx, apperrors.UserNotAuthorizedAdmin)
	}

	if err := r.store.PullUserEvent(ctx, caller.UserID, event.ID); err != nil {
		return nil, fmt.Errorf("failed to update user events: %w", err)
	}
	if err := r.store.DeleteEvent(ctx, event.ID); err != nil {
		return nil, fmt.Errorf("failed to delete event: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"event_id":        event.ID.Hex(),
		"organization_id": org.ID.Hex(),
		"user_id":         caller.UserID.Hex(),
	}).Info("Event removed by organization admin")

	return event, nil
}

// RemoveEventProject deletes an event project on behalf of its creator.
// Checks: user, event project, creator.
func (r *Resolver) RemoveEventProject(ctx context.Context, caller Caller, projectID primitive.ObjectID) (*models.EventProject, error) {
	if err := r.requireUser(ctx, caller); err != nil {
		return nil, err
	}

	project, err := r.store.GetEventProject(ctx, projectID)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.EventProjectNotFound)
	}

	if !authz.IsCreator(project.Creator, caller.UserID) {
		return nil, r.Fail(ctx, apperrors.UserNotAuthorized)
	}

	if err := r.store.DeleteEventProject(ctx, project.ID); err != nil {
		return nil, fmt.Errorf("failed to delete event project: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"event_project_id": project.ID.Hex(),
		"user_id":          caller.UserID.Hex(),
	}).Info("Event project removed")

	return project, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// TASK MUTATIONS
// ═══════════════════════════════════════════════════════════════════════════

// RemoveTask deletes a task on behalf of its creator and detaches it from
// its event. Checks: user, task, creator.
func (r *Resolver) RemoveTask(ctx context.Context, caller Caller, taskID primitive.ObjectID) (*models.Task, error) {
	if err := r.requireUser(ctx, caller); err != nil {
		return nil, err
	}

	task, err := r.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.TaskNotFound)
	}

	if !authz.IsCreator(task.Creator, caller.UserID) {
		return nil, r.Fail(ctx, apperrors.UserNotAuthorized)
	}

	if err := r.store.DeleteTask(ctx, task.ID); err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	if err := r.store.PullEventTask(ctx, task.Event, task.ID); err != nil {
		return nil, fmt.Errorf("failed to detach task from event: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"task_id":  task.ID.Hex(),
		"event_id": task.Event.Hex(),
		"user_id":  caller.UserID.Hex(),
	}).Info("Task removed")

	return task, nil
}

// UpdateTask sets the provided fields of a task on behalf of its creator.
// Checks: user, task, creator, non-empty input.
func (r *Resolver) UpdateTask(ctx context.Context, caller Caller, taskID primitive.ObjectID, input *models.UpdateTaskInput) (*models.Task, error) {
	if err := r.requireUser(ctx, caller); err != nil {
		return nil, err
	}

	task, err := r.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.TaskNotFound)
	}

	if !authz.IsCreator(task.Creator, caller.UserID) {
		return nil, r.Fail(ctx, apperrors.UserNotAuthorized)
	}

	if input == nil || input.IsEmpty() {
		return nil, r.Fail(ctx, apperrors.EmptyUpdate)
	}

	updated, err := r.store.UpdateTask(ctx, task.ID, input)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.TaskNotFound)
	}

	r.logger.WithFields(logrus.Fields{
		"task_id": task.ID.Hex(),
		"user_id": caller.UserID.Hex(),
	}).Info("Task updated")

	return updated, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// POST & COMMENT MUTATIONS
// ═══════════════════════════════════════════════════════════════════════════

// CreateComment adds a comment to a post and bumps its commentCount.
// Checks: user, post.
func (r *Resolver) CreateComment(ctx context.Context, caller Caller, input *models.CreateCommentInput) (*models.Comment, error) {
	if err := r.requireUser(ctx, caller); err != nil {
		return nil, err
	}

	post, err := r.store.GetPost(ctx, input.PostID)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.PostNotFound)
	}

	comment := &models.Comment{
		Text:      input.Text,
		PostID:    post.ID,
		Creator:   caller.UserID,
		LikedBy:   []primitive.ObjectID{},
		CreatedAt: time.Now().UTC(),
	}
	if err := r.store.InsertComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	if err := r.store.IncPostCommentCount(ctx, post.ID, 1); err != nil {
		return nil, fmt.Errorf("failed to update comment count: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"comment_id": comment.ID.Hex(),
		"post_id":    post.ID.Hex(),
		"user_id":    caller.UserID.Hex(),
	}).Info("Comment created")

	return comment, nil
}

// RemoveComment deletes a comment on behalf of its creator or of an admin of
// the post's organization, and decrements the post's commentCount.
// Checks: user, comment, post, creator or organization admin.
func (r *Resolver) RemoveComment(ctx context.Context, caller Caller, commentID primitive.ObjectID) (*models.Comment, error) {
	user, err := r.loadUser(ctx, caller)
	if err != nil {
		return nil, err
	}

	comment, err := r.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.CommentNotFound)
	}

	post, err := r.store.GetPost(ctx, comment.PostID)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.PostNotFound)
	}

	if !authz.IsCreator(comment.Creator, caller.UserID) && !authz.AdminsFor(user, post.Organization) {
		return nil, r.Fail(ctx, apperrors.UserNotAuthorized)
	}

	if err := r.store.IncPostCommentCount(ctx, post.ID, -1); err != nil {
		return nil, fmt.Errorf("failed to update comment count: %w", err)
	}
	if err := r.store.DeleteComment(ctx, comment.ID); err != nil {
		return nil, fmt.Errorf("failed to delete comment: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"comment_id": comment.ID.Hex(),
		"post_id":    post.ID.Hex(),
		"user_id":    caller.UserID.Hex(),
	}).Info("Comment removed")

	return comment, nil
}

// LikePost records the caller's like. Liking twice is a no-op.
// Checks: user, post.
func (r *Resolver) LikePost(ctx context.Context, caller Caller, postID primitive.ObjectID) (*models.Post, error) {
	return r.togglePost(ctx, caller, postID, true)
}

// UnlikePost withdraws the caller's like. Unliking a post the caller does
// not like is a no-op. Checks: user, post.
func (r *Resolver) UnlikePost(ctx context.Context, caller Caller, postID primitive.ObjectID) (*models.Post, error) {
	return r.togglePost(ctx, caller, postID, false)
}

func (r *Resolver) togglePost(ctx context.Context, caller Caller, postID primitive.ObjectID, like bool) (*models.Post, error) {
	if err := r.requireUser(ctx, caller); err != nil {
		return nil, err
	}

	if _, err := r.store.GetPost(ctx, postID); err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.PostNotFound)
	}

	var (
		post *models.Post
		err  error
	)
	if like {
		post, err = r.store.LikePost(ctx, postID, caller.UserID)
	} else {
		post, err = r.store.UnlikePost(ctx, postID, caller.UserID)
	}
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.PostNotFound)
	}

	r.logger.WithFields(logrus.Fields{
		"post_id":    postID.Hex(),
		"user_id":    caller.UserID.Hex(),
		"like":       like,
		"like_count": post.LikeCount,
	}).Debug("Post like toggled")

	return post, nil
}

// LikeComment records the caller's like. Checks: user, comment.
func (r *Resolver) LikeComment(ctx context.Context, caller Caller, commentID primitive.ObjectID) (*models.Comment, error) {
	return r.toggleComment(ctx, caller, commentID, true)
}

// UnlikeComment withdraws the caller's like. Checks: user, comment.
func (r *Resolver) UnlikeComment(ctx context.Context, caller Caller, commentID primitive.ObjectID) (*models.Comment, error) {
	return r.toggleComment(ctx, caller, commentID, false)
}

func (r *Resolver) toggleComment(ctx context.Context, caller Caller, commentID primitive.ObjectID, like bool) (*models.Comment, error) {
	if err := r.requireUser(ctx, caller); err != nil {
		return nil, err
	}

	if _, err := r.store.GetComment(ctx, commentID); err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.CommentNotFound)
	}

	var (
		comment *models.Comment
		err     error
	)
	if like {
		comment, err = r.store.LikeComment(ctx, commentID, caller.UserID)
	} else {
		comment, err = r.store.UnlikeComment(ctx, commentID, caller.UserID)
	}
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.CommentNotFound)
	}

	r.logger.WithFields(logrus.Fields{
		"comment_id": commentID.Hex(),
		"user_id":    caller.UserID.Hex(),
		"like":       like,
		"like_count": comment.LikeCount,
	}).Debug("Comment like toggled")

	return comment, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// TAG MUTATIONS
// ═══════════════════════════════════════════════════════════════════════════

// CreateUserTag adds a tag to an organization's hierarchy, as a root tag or
// under a parent tag of the same organization. Checks: user, organization,
// parent tag, organization admin, non-blank name, sibling name uniqueness.
func (r *Resolver) CreateUserTag(ctx context.Context, caller Caller, input *models.CreateUserTagInput) (*models.OrganizationTagUser, error) {
	if err := r.requireUser(ctx, caller); err != nil {
		return nil, err
	}

	org, err := r.store.GetOrganization(ctx, input.OrganizationID)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.OrganizationNotFound)
	}

	if input.ParentTagID != nil {
		parent, err := r.store.GetTag(ctx, *input.ParentTagID)
		if err != nil {
			return nil, r.lookupErr(ctx, err, apperrors.TagNotFound)
		}
		if parent.OrganizationID != org.ID {
			return nil, r.Fail(ctx, apperrors.InvalidParentTag)
		}
	}

	if !authz.IsOrganizationAdmin(org, caller.UserID) {
		return nil, r.Fail(ctx, apperrors.UserNotAuthorizedAdmin)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, r.Fail(ctx, apperrors.InvalidTagName)
	}

	tag := &models.OrganizationTagUser{
		Name:           name,
		OrganizationID: org.ID,
		ParentTagID:    input.ParentTagID,
	}
	if err := r.store.InsertTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, r.Fail(ctx, apperrors.TagAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"tag_id":          tag.ID.Hex(),
		"organization_id": org.ID.Hex(),
		"root":            tag.IsRoot(),
		"user_id":         caller.UserID.Hex(),
	}).Info("User tag created")

	return tag, nil
}
