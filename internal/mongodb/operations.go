package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/devplatform/community-api/internal/models"
	"github.com/devplatform/community-api/internal/store"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// findByID decodes the document with id into out, mapping a miss to store.ErrNotFound
func (m *Manager) findByID(ctx context.Context, coll string, id primitive.ObjectID, out interface{}) error {
	err := m.collection(coll).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s %s: %w", coll, id.Hex(), store.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("find %s %s: %w", coll, id.Hex(), err)
	}
	return nil
}

// insert stores doc, mapping unique index violations to store.ErrDuplicate
func (m *Manager) insert(ctx context.Context, coll string, doc interface{}) error {
	if _, err := m.collection(coll).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert %s: %w", coll, store.ErrDuplicate)
		}
		return fmt.Errorf("insert %s: %w", coll, err)
	}
	return nil
}

// deleteByID removes the document with id; deleting a missing document is not an error
func (m *Manager) deleteByID(ctx context.Context, coll string, id primitive.ObjectID) error {
	if _, err := m.collection(coll).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete %s %s: %w", coll, id.Hex(), err)
	}
	return nil
}

// findAndUpdate applies update to the document matching filter and decodes the
// result into out. It returns mongo.ErrNoDocuments unwrapped when nothing matched.
func (m *Manager) findAndUpdate(ctx context.Context, coll string, filter, update bson.M, out interface{}) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return m.collection(coll).FindOneAndUpdate(ctx, filter, update, opts).Decode(out)
}

func ensureID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// USER OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

// UserExists reports whether a user with id exists
func (m *Manager) UserExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := m.collection(CollectionUsers).CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

// GetUser retrieves a user by id
func (m *Manager) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := m.findByID(ctx, CollectionUsers, id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers retrieves the users whose id is in ids, in the order given
func (m *Manager) ListUsers(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}

	cursor, err := m.collection(CollectionUsers).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	var found []*models.User
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	byID := make(map[primitive.ObjectID]*models.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	users := make([]*models.User, 0, len(found))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

// InsertUser stores a new user
func (m *Manager) InsertUser(ctx context.Context, user *models.User) error {
	ensureID(&user.ID)
	return m.insert(ctx, CollectionUsers, user)
}

// PullUserEvent removes eventID from the user's three event lists in one update
func (m *Manager) PullUserEvent(ctx context.Context, userID, eventID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{
			"eventAdmin":       eventID,
			"createdEvents":    eventID,
			"registeredEvents": eventID,
		},
	}

	if _, err := m.collection(CollectionUsers).UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
		m.logger.WithError(err).Error("Failed to pull event from user")
		return fmt.Errorf("pull event from user: %w", err)
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// ORGANIZATION OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

// GetOrganization retrieves an organization by id
func (m *Manager) GetOrganization(ctx context.Context, id primitive.ObjectID) (*models.Organization, error) {
	var org models.Organization
	if err := m.findByID(ctx, CollectionOrganizations, id, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// InsertOrganization stores a new organization
func (m *Manager) InsertOrganization(ctx context.Context, org *models.Organization) error {
	ensureID(&org.ID)
	return m.insert(ctx, CollectionOrganizations, org)
}

// ═══════════════════════════════════════════════════════════════════════════
// EVENT OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

// GetEvent retrieves an event by id
func (m *Manager) GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var event models.Event
	if err := m.findByID(ctx, CollectionEvents, id, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// InsertEvent stores a new event
func (m *Manager) InsertEvent(ctx context.Context, event *models.Event) error {
	ensureID(&event.ID)
	return m.insert(ctx, CollectionEvents, event)
}

// DeleteEvent deletes an event by id
func (m *Manager) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	m.logger.WithField("event_id", id.Hex()).Info("Deleting event")
	return m.deleteByID(ctx, CollectionEvents, id)
}

// PullEventTask removes taskID from the event's tasks list
func (m *Manager) PullEventTask(ctx context.Context, eventID, taskID primitive.ObjectID) error {
	update := bson.M{"$pull": bson.M{"tasks": taskID}}
	if _, err := m.collection(CollectionEvents).UpdateOne(ctx, bson.M{"_id": eventID}, update); err != nil {
		m.logger.WithError(err).Error("Failed to pull task from event")
		return fmt.Errorf("pull task from event: %w", err)
	}
	return nil
}

// GetEventProject retrieves an event project by id
func (m *Manager) GetEventProject(ctx context.Context, id primitive.ObjectID) (*models.EventProject, error) {
	var project models.EventProject
	if err := m.findByID(ctx, CollectionEventProjects, id, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListEventProjects retrieves all projects of an event, oldest first
func (m *Manager) ListEventProjects(ctx context.Context, eventID primitive.ObjectID) ([]*models.EventProject, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := m.collection(CollectionEventProjects).Find(ctx, bson.M{"event": eventID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find event projects: %w", err)
	}

	var projects []*models.EventProject
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("decode event projects: %w", err)
	}
	return projects, nil
}

// InsertEventProject stores a new event project
func (m *Manager) InsertEventProject(ctx context.Context, project *models.EventProject) error {
	ensureID(&project.ID)
	return m.insert(ctx, CollectionEventProjects, project)
}

// DeleteEventProject deletes an event project by id
func (m *Manager) DeleteEventProject(ctx context.Context, id primitive.ObjectID) error {
	m.logger.WithField("event_project_id", id.Hex()).Info("Deleting event project")
	return m.deleteByID(ctx, CollectionEventProjects, id)
}

// ═══════════════════════════════════════════════════════════════════════════
// TASK OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

// GetTask retrieves a task by id
func (m *Manager) GetTask(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	if err := m.findByID(ctx, CollectionTasks, id, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks retrieves the tasks whose id is in ids, in the order given
func (m *Manager) ListTasks(ctx context.Context, ids []primitive.ObjectID) ([]*models.Task, error) {
	if len(ids) == 0 {
		return []*models.Task{}, nil
	}

	cursor, err := m.collection(CollectionTasks).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}

	var found []*models.Task
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	byID := make(map[primitive.ObjectID]*models.Task, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}
	tasks := make([]*models.Task, 0, len(found))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// InsertTask stores a new task
func (m *Manager) InsertTask(ctx context.Context, task *models.Task) error {
	ensureID(&task.ID)
	return m.insert(ctx, CollectionTasks, task)
}

// UpdateTask sets the non-nil fields of input and returns the updated task
func (m *Manager) UpdateTask(ctx context.Context, id primitive.ObjectID, input *models.UpdateTaskInput) (*models.Task, error) {
	set := bson.M{}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Deadline != nil {
		set["deadline"] = *input.Deadline
	}
	if input.Completed != nil {
		set["completed"] = *input.Completed
	}
	if len(set) == 0 {
		return m.GetTask(ctx, id)
	}

	m.logger.WithFields(logrus.Fields{
		"task_id": id.Hex(),
		"fields":  len(set),
	}).Info("Updating task")

	var task models.Task
	err := m.findAndUpdate(ctx, CollectionTasks, bson.M{"_id": id}, bson.M{"$set": set}, &task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s %s: %w", CollectionTasks, id.Hex(), store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return &task, nil
}

// DeleteTask deletes a task by id
func (m *Manager) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	m.logger.WithField("task_id", id.Hex()).Info("Deleting task")
	return m.deleteByID(ctx, CollectionTasks, id)
}

// ═══════════════════════════════════════════════════════════════════════════
// POST & COMMENT OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

// GetPost retrieves a post by id
func (m *Manager) GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := m.findByID(ctx, CollectionPosts, id, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// InsertPost stores a new post
func (m *Manager) InsertPost(ctx context.Context, post *models.Post) error {
	ensureID(&post.ID)
	return m.insert(ctx, CollectionPosts, post)
}

// likeFilter matches the document only when the set mutation will change it,
// so the counter moves with the set in the same update
func likeFilter(id, userID primitive.ObjectID, like bool) bson.M {
	if like {
		return bson.M{"_id": id, "likedBy": bson.M{"$ne": userID}}
	}
	return bson.M{"_id": id, "likedBy": userID}
}

func likeUpdate(userID primitive.ObjectID, like bool) bson.M {
	if like {
		return bson.M{
			"$push": bson.M{"likedBy": userID},
			"$inc":  bson.M{"likeCount": 1},
		}
	}
	return bson.M{
		"$pull": bson.M{"likedBy": userID},
		"$inc":  bson.M{"likeCount": -1},
	}
}

func (m *Manager) togglePostLike(ctx context.Context, postID, userID primitive.ObjectID, like bool) (*models.Post, error) {
	var post models.Post
	err := m.findAndUpdate(ctx, CollectionPosts, likeFilter(postID, userID, like), likeUpdate(userID, like), &post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// already in the requested state, or gone
		return m.GetPost(ctx, postID)
	}
	if err != nil {
		return nil, fmt.Errorf("toggle post like: %w", err)
	}
	return &post, nil
}

// LikePost adds userID to likedBy and increments likeCount, only if absent
func (m *Manager) LikePost(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	return m.togglePostLike(ctx, postID, userID, true)
}

// UnlikePost removes userID from likedBy and decrements likeCount, only if present
func (m *Manager) UnlikePost(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	return m.togglePostLike(ctx, postID, userID, false)
}

// IncPostCommentCount adds delta to the post's commentCount
func (m *Manager) IncPostCommentCount(ctx context.Context, postID primitive.ObjectID, delta int) error {
	update := bson.M{"$inc": bson.M{"commentCount": delta}}
	if _, err := m.collection(CollectionPosts).UpdateOne(ctx, bson.M{"_id": postID}, update); err != nil {
		return fmt.Errorf("update post comment count: %w", err)
	}
	return nil
}

// GetComment retrieves a comment by id
func (m *Manager) GetComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := m.findByID(ctx, CollectionComments, id, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments retrieves the comments of a post, oldest first
func (m *Manager) ListComments(ctx context.Context, postID primitive.ObjectID) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := m.collection(CollectionComments).Find(ctx, bson.M{"postId": postID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}

	var comments []*models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}

// InsertComment stores a new comment
func (m *Manager) InsertComment(ctx context.Context, comment *models.Comment) error {
	ensureID(&comment.ID)
	return m.insert(ctx, CollectionComments, comment)
}

// DeleteComment deletes a comment by id
func (m *Manager) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	m.logger.WithField("comment_id", id.Hex()).Info("Deleting comment")
	return m.deleteByID(ctx, CollectionComments, id)
}

func (m *Manager) toggleCommentLike(ctx context.Context, commentID, userID primitive.ObjectID, like bool) (*models.Comment, error) {
	var comment models.Comment
	err := m.findAndUpdate(ctx, CollectionComments, likeFilter(commentID, userID, like), likeUpdate(userID, like), &comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return m.GetComment(ctx, commentID)
	}
	if err != nil {
		return nil, fmt.Errorf("toggle comment like: %w", err)
	}
	return &comment, nil
}

// LikeComment adds userID to likedBy and increments likeCount, only if absent
func (m *Manager) LikeComment(ctx context.Context, commentID, userID primitive.ObjectID) (*models.Comment, error) {
	return m.toggleCommentLike(ctx, commentID, userID, true)
}

// UnlikeComment removes userID from likedBy and decrements likeCount, only if present
func (m *Manager) UnlikeComment(ctx context.Context, commentID, userID primitive.ObjectID) (*models.Comment, error) {
	return m.toggleCommentLike(ctx, commentID, userID, false)
}

// ═══════════════════════════════════════════════════════════════════════════
// GROUP CHAT OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

// GetGroupChat retrieves a group chat by id
func (m *Manager) GetGroupChat(ctx context.Context, id primitive.ObjectID) (*models.GroupChat, error) {
	var chat models.GroupChat
	if err := m.findByID(ctx, CollectionGroupChats, id, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// InsertGroupChat stores a new group chat
func (m *Manager) InsertGroupChat(ctx context.Context, chat *models.GroupChat) error {
	ensureID(&chat.ID)
	return m.insert(ctx, CollectionGroupChats, chat)
}

// ═══════════════════════════════════════════════════════════════════════════
// TAG OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════

// GetTag retrieves a user tag by id
func (m *Manager) GetTag(ctx context.Context, id primitive.ObjectID) (*models.OrganizationTagUser, error) {
	var tag models.OrganizationTagUser
	if err := m.findByID(ctx, CollectionTags, id, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListChildTags retrieves the tags of an organization under parentID, by name
func (m *Manager) ListChildTags(ctx context.Context, orgID primitive.ObjectID, parentID *primitive.ObjectID) ([]*models.OrganizationTagUser, error) {
	filter := bson.M{"organizationId": orgID, "parentTagId": nil}
	if parentID != nil {
		filter["parentTagId"] = *parentID
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := m.collection(CollectionTags).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find tags: %w", err)
	}

	var tags []*models.OrganizationTagUser
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return tags, nil
}

// InsertTag stores a new tag; the unique index rejects duplicate siblings
func (m *Manager) InsertTag(ctx context.Context, tag *models.OrganizationTagUser) error {
	ensureID(&tag.ID)
	return m.insert(ctx, CollectionTags, tag)
}
