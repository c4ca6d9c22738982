package resolvers

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/devplatform/community-api/internal/apperrors"
	"github.com/devplatform/community-api/internal/i18n"
	"github.com/devplatform/community-api/internal/memstore"
	"github.com/devplatform/community-api/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/language"
)

type fixture struct {
	ctx   context.Context
	store *memstore.Store
	r     *Resolver

	admin    *models.User
	author   *models.User
	outsider *models.User

	org     *models.Organization
	event   *models.Event
	project *models.EventProject
	task    *models.Task
	post    *models.Post
	comment *models.Comment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s := memstore.New(logger)
	f := &fixture{
		ctx:   context.Background(),
		store: s,
		r:     New(s, i18n.NewTranslator("en"), logger),
	}
	ctx := f.ctx

	orgID, eventID, taskID := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	f.admin = &models.User{
		ID:               primitive.NewObjectID(),
		FirstName:        "Ada",
		AdminFor:         []primitive.ObjectID{orgID},
		EventAdmin:       []primitive.ObjectID{eventID},
		CreatedEvents:    []primitive.ObjectID{eventID},
		RegisteredEvents: []primitive.ObjectID{eventID},
	}
	f.author = &models.User{FirstName: "Bo"}
	f.outsider = &models.User{FirstName: "Cy"}
	for _, u := range []*models.User{f.admin, f.author, f.outsider} {
		require.NoError(t, s.InsertUser(ctx, u))
	}

	f.org = &models.Organization{
		ID:      orgID,
		Name:    "Makers",
		Creator: f.admin.ID,
		Admins:  []primitive.ObjectID{f.admin.ID},
		Members: []primitive.ObjectID{f.admin.ID, f.author.ID},
	}
	require.NoError(t, s.InsertOrganization(ctx, f.org))

	f.event = &models.Event{
		ID:           eventID,
		Title:        "Hack night",
		Organization: orgID,
		Creator:      f.admin.ID,
		Tasks:        []primitive.ObjectID{taskID},
	}
	require.NoError(t, s.InsertEvent(ctx, f.event))

	f.project = &models.EventProject{Title: "Badges", Event: eventID, Creator: f.author.ID}
	require.NoError(t, s.InsertEventProject(ctx, f.project))

	f.task = &models.Task{ID: taskID, Title: "Chairs", Event: eventID, Creator: f.author.ID}
	require.NoError(t, s.InsertTask(ctx, f.task))

	f.post = &models.Post{Title: "Welcome", Organization: orgID, Creator: f.admin.ID, CommentCount: 1}
	require.NoError(t, s.InsertPost(ctx, f.post))

	f.comment = &models.Comment{Text: "hi", PostID: f.post.ID, Creator: f.author.ID}
	require.NoError(t, s.InsertComment(ctx, f.comment))

	return f
}

func as(u *models.User) Caller {
	return Caller{UserID: u.ID}
}

func requireDomainError(t *testing.T, err error, def apperrors.Definition) {
	t.Helper()
	require.Error(t, err)
	assert.Truef(t, apperrors.Matches(err, def), "expected %s, got %v", def.Code, err)
}

// ═══════════════════════════════════════════════════════════════════════════
// adminRemoveEvent
// ═══════════════════════════════════════════════════════════════════════════

func TestAdminRemoveEvent_ByAdmin(t *testing.T) {
	f := newFixture(t)

	removed, err := f.r.AdminRemoveEvent(f.ctx, as(f.admin), f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, f.event.ID, removed.ID)
	assert.Equal(t, "Hack night", removed.Title)

	_, err = f.store.GetEvent(f.ctx, f.event.ID)
	require.Error(t, err)

	admin, err := f.store.GetUser(f.ctx, f.admin.ID)
	require.NoError(t, err)
	assert.NotContains(t, admin.EventAdmin, f.event.ID)
	assert.NotContains(t, admin.CreatedEvents, f.event.ID)
	assert.NotContains(t, admin.RegisteredEvents, f.event.ID)
	assert.Equal(t, []primitive.ObjectID{f.org.ID}, admin.AdminFor)
}

func TestAdminRemoveEvent_CheckOrder(t *testing.T) {
	f := newFixture(t)

	t.Run("missing event", func(t *testing.T) {
		_, err := f.r.AdminRemoveEvent(f.ctx, as(f.admin), primitive.NewObjectID())
		requireDomainError(t, err, apperrors.EventNotFound)
	})

	t.Run("missing organization", func(t *testing.T) {
		orphan := &models.Event{Title: "Orphan", Organization: primitive.NewObjectID()}
		require.NoError(t, f.store.InsertEvent(f.ctx, orphan))

		_, err := f.r.AdminRemoveEvent(f.ctx, as(f.admin), orphan.ID)
		requireDomainError(t, err, apperrors.OrganizationNotFound)
	})

	t.Run("missing user is checked after the event", func(t *testing.T) {
		ghost := Caller{UserID: primitive.NewObjectID()}

		_, err := f.r.AdminRemoveEvent(f.ctx, ghost, primitive.NewObjectID())
		requireDomainError(t, err, apperrors.EventNotFound)

		_, err = f.r.AdminRemoveEvent(f.ctx, ghost, f.event.ID)
		requireDomainError(t, err, apperrors.UserNotFound)
	})

	t.Run("non admin", func(t *testing.T) {
		_, err := f.r.AdminRemoveEvent(f.ctx, as(f.author), f.event.ID)
		requireDomainError(t, err, apperrors.UserNotAuthorizedAdmin)

		_, err = f.store.GetEvent(f.ctx, f.event.ID)
		require.NoError(t, err)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := f.r.AdminRemoveEvent(f.ctx, Caller{}, f.event.ID)
		requireDomainError(t, err, apperrors.Unauthenticated)
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// removeEventProject
// ═══════════════════════════════════════════════════════════════════════════

func TestRemoveEventProject(t *testing.T) {
	f := newFixture(t)

	_, err := f.r.RemoveEventProject(f.ctx, Caller{UserID: primitive.NewObjectID()}, f.project.ID)
	requireDomainError(t, err, apperrors.UserNotFound)

	_, err = f.r.RemoveEventProject(f.ctx, as(f.author), primitive.NewObjectID())
	requireDomainError(t, err, apperrors.EventProjectNotFound)

	// even the organization admin is not the creator
	_, err = f.r.RemoveEventProject(f.ctx, as(f.admin), f.project.ID)
	requireDomainError(t, err, apperrors.UserNotAuthorized)
	_, err = f.store.GetEventProject(f.ctx, f.project.ID)
	require.NoError(t, err)

	removed, err := f.r.RemoveEventProject(f.ctx, as(f.author), f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Badges", removed.Title)

	projects, err := f.store.ListEventProjects(f.ctx, f.event.ID)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

// ═══════════════════════════════════════════════════════════════════════════
// removeTask / updateTask
// ═══════════════════════════════════════════════════════════════════════════

func TestRemoveTask_DetachesFromEvent(t *testing.T) {
	f := newFixture(t)

	removed, err := f.r.RemoveTask(f.ctx, as(f.author), f.task.ID)
	require.NoError(t, err)
	assert.Equal(t, f.task.ID, removed.ID)

	_, err = f.store.GetTask(f.ctx, f.task.ID)
	require.Error(t, err)

	event, err := f.store.GetEvent(f.ctx, f.event.ID)
	require.NoError(t, err)
	assert.NotContains(t, event.Tasks, f.task.ID)
}

func TestRemoveTask_Rejections(t *testing.T) {
	f := newFixture(t)

	_, err := f.r.RemoveTask(f.ctx, as(f.author), primitive.NewObjectID())
	requireDomainError(t, err, apperrors.TaskNotFound)

	_, err = f.r.RemoveTask(f.ctx, as(f.outsider), f.task.ID)
	requireDomainError(t, err, apperrors.UserNotAuthorized)

	event, err := f.store.GetEvent(f.ctx, f.event.ID)
	require.NoError(t, err)
	assert.Contains(t, event.Tasks, f.task.ID)
}

func TestUpdateTask(t *testing.T) {
	f := newFixture(t)

	done := true
	_, err := f.r.UpdateTask(f.ctx, as(f.outsider), f.task.ID, &models.UpdateTaskInput{Completed: &done})
	requireDomainError(t, err, apperrors.UserNotAuthorized)

	_, err = f.r.UpdateTask(f.ctx, as(f.author), f.task.ID, &models.UpdateTaskInput{})
	requireDomainError(t, err, apperrors.EmptyUpdate)

	deadline := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	updated, err := f.r.UpdateTask(f.ctx, as(f.author), f.task.ID, &models.UpdateTaskInput{Completed: &done, Deadline: &deadline})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.Deadline)
	assert.True(t, deadline.Equal(*updated.Deadline))
	assert.Equal(t, "Chairs", updated.Title)
}

// ═══════════════════════════════════════════════════════════════════════════
// comments
// ═══════════════════════════════════════════════════════════════════════════

func TestRemoveComment_ByCreatorDecrementsCount(t *testing.T) {
	f := newFixture(t)

	removed, err := f.r.RemoveComment(f.ctx, as(f.author), f.comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi", removed.Text)

	post, err := f.store.GetPost(f.ctx, f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, post.CommentCount)

	_, err = f.store.GetComment(f.ctx, f.comment.ID)
	require.Error(t, err)
}

func TestRemoveComment_ByOrganizationAdmin(t *testing.T) {
	f := newFixture(t)

	_, err := f.r.RemoveComment(f.ctx, as(f.admin), f.comment.ID)
	require.NoError(t, err)
}

func TestRemoveComment_Rejections(t *testing.T) {
	f := newFixture(t)

	_, err := f.r.RemoveComment(f.ctx, as(f.outsider), f.comment.ID)
	requireDomainError(t, err, apperrors.UserNotAuthorized)

	post, err := f.store.GetPost(f.ctx, f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, post.CommentCount)

	_, err = f.r.RemoveComment(f.ctx, as(f.author), primitive.NewObjectID())
	requireDomainError(t, err, apperrors.CommentNotFound)

	dangling := &models.Comment{Text: "lost", PostID: primitive.NewObjectID(), Creator: f.author.ID}
	require.NoError(t, f.store.InsertComment(f.ctx, dangling))
	_, err = f.r.RemoveComment(f.ctx, as(f.author), dangling.ID)
	requireDomainError(t, err, apperrors.PostNotFound)
}

func TestCreateComment_IncrementsCount(t *testing.T) {
	f := newFixture(t)

	comment, err := f.r.CreateComment(f.ctx, as(f.outsider), &models.CreateCommentInput{PostID: f.post.ID, Text: "first!"})
	require.NoError(t, err)
	assert.Equal(t, f.outsider.ID, comment.Creator)
	assert.Equal(t, 0, comment.LikeCount)

	post, err := f.store.GetPost(f.ctx, f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, post.CommentCount)

	comments, err := f.r.PostComments(f.ctx, post)
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	_, err = f.r.CreateComment(f.ctx, as(f.outsider), &models.CreateCommentInput{PostID: primitive.NewObjectID(), Text: "x"})
	requireDomainError(t, err, apperrors.PostNotFound)
}

// ═══════════════════════════════════════════════════════════════════════════
// likes
// ═══════════════════════════════════════════════════════════════════════════

func TestUnlikePost_TwiceIsNoop(t *testing.T) {
	f := newFixture(t)

	liked, err := f.r.LikePost(f.ctx, as(f.author), f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.LikeCount)

	first, err := f.r.UnlikePost(f.ctx, as(f.author), f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, first.LikeCount)

	second, err := f.r.UnlikePost(f.ctx, as(f.author), f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.LikeCount)
	assert.Empty(t, second.LikedBy)
}

func TestLikeCountMatchesLikedBy(t *testing.T) {
	f := newFixture(t)
	users := []Caller{as(f.admin), as(f.author), as(f.outsider)}

	ops := []struct {
		like bool
		who  int
	}{
		{true, 0}, {true, 1}, {true, 0}, {false, 2}, {true, 2}, {false, 0}, {false, 0}, {true, 1},
	}

	for _, op := range ops {
		var (
			comment *models.Comment
			post    *models.Post
			err     error
		)
		if op.like {
			post, err = f.r.LikePost(f.ctx, users[op.who], f.post.ID)
			require.NoError(t, err)
			comment, err = f.r.LikeComment(f.ctx, users[op.who], f.comment.ID)
		} else {
			post, err = f.r.UnlikePost(f.ctx, users[op.who], f.post.ID)
			require.NoError(t, err)
			comment, err = f.r.UnlikeComment(f.ctx, users[op.who], f.comment.ID)
		}
		require.NoError(t, err)
		assert.Equal(t, len(post.LikedBy), post.LikeCount)
		assert.Equal(t, len(comment.LikedBy), comment.LikeCount)
	}

	post, err := f.store.GetPost(f.ctx, f.post.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []primitive.ObjectID{f.author.ID, f.outsider.ID}, post.LikedBy)
}

func TestUnlike_Rejections(t *testing.T) {
	f := newFixture(t)

	_, err := f.r.UnlikePost(f.ctx, as(f.author), primitive.NewObjectID())
	requireDomainError(t, err, apperrors.PostNotFound)

	_, err = f.r.UnlikeComment(f.ctx, as(f.author), primitive.NewObjectID())
	requireDomainError(t, err, apperrors.CommentNotFound)

	_, err = f.r.UnlikePost(f.ctx, Caller{UserID: primitive.NewObjectID()}, f.post.ID)
	requireDomainError(t, err, apperrors.UserNotFound)
}

// ═══════════════════════════════════════════════════════════════════════════
// tags
// ═══════════════════════════════════════════════════════════════════════════

func TestCreateUserTag_Hierarchy(t *testing.T) {
	f := newFixture(t)

	root, err := f.r.CreateUserTag(f.ctx, as(f.admin), &models.CreateUserTagInput{OrganizationID: f.org.ID, Name: "volunteers"})
	require.NoError(t, err)
	assert.True(t, root.IsRoot())

	child, err := f.r.CreateUserTag(f.ctx, as(f.admin), &models.CreateUserTagInput{OrganizationID: f.org.ID, ParentTagID: &root.ID, Name: "kitchen"})
	require.NoError(t, err)

	parent, err := f.r.TagParent(f.ctx, child)
	require.NoError(t, err)
	require.NotNil(t, parent)
	assert.Equal(t, root.ID, parent.ID)

	children, err := f.r.TagChildren(f.ctx, root)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "kitchen", children[0].Name)

	_, err = f.r.CreateUserTag(f.ctx, as(f.admin), &models.CreateUserTagInput{OrganizationID: f.org.ID, Name: "volunteers"})
	requireDomainError(t, err, apperrors.TagAlreadyExists)

	// same name one level down is a different sibling set
	_, err = f.r.CreateUserTag(f.ctx, as(f.admin), &models.CreateUserTagInput{OrganizationID: f.org.ID, ParentTagID: &root.ID, Name: "volunteers"})
	require.NoError(t, err)
}

func TestCreateUserTag_Rejections(t *testing.T) {
	f := newFixture(t)

	_, err := f.r.CreateUserTag(f.ctx, as(f.author), &models.CreateUserTagInput{OrganizationID: f.org.ID, Name: "x"})
	requireDomainError(t, err, apperrors.UserNotAuthorizedAdmin)

	_, err = f.r.CreateUserTag(f.ctx, as(f.admin), &models.CreateUserTagInput{OrganizationID: primitive.NewObjectID(), Name: "x"})
	requireDomainError(t, err, apperrors.OrganizationNotFound)

	missing := primitive.NewObjectID()
	_, err = f.r.CreateUserTag(f.ctx, as(f.admin), &models.CreateUserTagInput{OrganizationID: f.org.ID, ParentTagID: &missing, Name: "x"})
	requireDomainError(t, err, apperrors.TagNotFound)

	foreign := &models.OrganizationTagUser{Name: "other", OrganizationID: primitive.NewObjectID()}
	require.NoError(t, f.store.InsertTag(f.ctx, foreign))
	_, err = f.r.CreateUserTag(f.ctx, as(f.admin), &models.CreateUserTagInput{OrganizationID: f.org.ID, ParentTagID: &foreign.ID, Name: "x"})
	requireDomainError(t, err, apperrors.InvalidParentTag)

	for _, blank := range []string{"", "   ", "\t\n"} {
		_, err = f.r.CreateUserTag(f.ctx, as(f.admin), &models.CreateUserTagInput{OrganizationID: f.org.ID, Name: blank})
		requireDomainError(t, err, apperrors.InvalidTagName)
	}

	// a blank name from a non-admin is still an authorization failure
	_, err = f.r.CreateUserTag(f.ctx, as(f.author), &models.CreateUserTagInput{OrganizationID: f.org.ID, Name: " "})
	requireDomainError(t, err, apperrors.UserNotAuthorizedAdmin)

	roots, err := f.store.ListChildTags(f.ctx, f.org.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestAdminRemoveEvent_AdminWithoutEventLists(t *testing.T) {
	f := newFixture(t)

	orgID := primitive.NewObjectID()
	admin := &models.User{FirstName: "Di", AdminFor: []primitive.ObjectID{orgID}}
	require.NoError(t, f.store.InsertUser(f.ctx, admin))
	require.NoError(t, f.store.InsertOrganization(f.ctx, &models.Organization{
		ID:     orgID,
		Name:   "Quiet",
		Admins: []primitive.ObjectID{admin.ID},
	}))
	event := &models.Event{Title: "Picnic", Organization: orgID, Creator: f.author.ID}
	require.NoError(t, f.store.InsertEvent(f.ctx, event))

	removed, err := f.r.AdminRemoveEvent(f.ctx, as(admin), event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, removed.ID)

	_, err = f.store.GetEvent(f.ctx, event.ID)
	require.Error(t, err)

	stored, err := f.store.GetUser(f.ctx, admin.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.EventAdmin)
	assert.Empty(t, stored.CreatedEvents)
	assert.Empty(t, stored.RegisteredEvents)
}

func TestLikePost_WithoutLikedByList(t *testing.T) {
	f := newFixture(t)

	post := &models.Post{Title: "Bare", Organization: f.org.ID, Creator: f.admin.ID}
	require.NoError(t, f.store.InsertPost(f.ctx, post))

	liked, err := f.r.LikePost(f.ctx, as(f.author), post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.LikeCount)
	assert.Equal(t, []primitive.ObjectID{f.author.ID}, liked.LikedBy)
}

// ═══════════════════════════════════════════════════════════════════════════
// queries
// ═══════════════════════════════════════════════════════════════════════════

func TestQueries(t *testing.T) {
	f := newFixture(t)

	me, err := f.r.Me(f.ctx, as(f.author))
	require.NoError(t, err)
	assert.Equal(t, "Bo", me.FirstName)

	_, err = f.r.Me(f.ctx, Caller{})
	requireDomainError(t, err, apperrors.Unauthenticated)

	members, err := f.r.OrganizationMembers(f.ctx, f.org)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, f.admin.ID, members[0].ID)
	assert.Equal(t, f.author.ID, members[1].ID)

	tasks, err := f.r.EventTasks(f.ctx, f.event)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	creator, err := f.r.TaskCreator(f.ctx, &models.Task{Creator: primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Nil(t, creator)

	_, err = f.r.GroupChat(f.ctx, primitive.NewObjectID())
	requireDomainError(t, err, apperrors.GroupChatNotFound)

	health := f.r.Health(f.ctx)
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.Store)
}

func TestGroupChatCreator(t *testing.T) {
	f := newFixture(t)

	chat := &models.GroupChat{Title: "Organizers", Creator: f.admin.ID, Users: []primitive.ObjectID{f.admin.ID, f.outsider.ID}}
	require.NoError(t, f.store.InsertGroupChat(f.ctx, chat))

	got, err := f.r.GroupChat(f.ctx, chat.ID)
	require.NoError(t, err)

	creator, err := f.r.GroupChatCreator(f.ctx, got)
	require.NoError(t, err)
	require.NotNil(t, creator)
	assert.Equal(t, f.admin.ID, creator.ID)

	users, err := f.r.GroupChatUsers(f.ctx, got)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestErrorsAreTranslated(t *testing.T) {
	f := newFixture(t)
	ctx := i18n.WithLocale(f.ctx, language.French)

	_, err := f.r.RemoveTask(ctx, as(f.author), primitive.NewObjectID())
	requireDomainError(t, err, apperrors.TaskNotFound)
	assert.Equal(t, "Tâche introuvable", err.Error())
}
