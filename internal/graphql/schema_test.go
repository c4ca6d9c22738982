package graphql

import (
	"context"
	"io"
	"testing"

	"github.com/devplatform/community-api/internal/auth"
	"github.com/devplatform/community-api/internal/i18n"
	"github.com/devplatform/community-api/internal/memstore"
	"github.com/devplatform/community-api/internal/models"
	"github.com/devplatform/community-api/internal/resolvers"
	"github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testEnv struct {
	schema *Schema
	store  *memstore.Store
	admin  *models.User
	member *models.User
	org    *models.Organization
	post   *models.Post
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s := memstore.New(logger)
	ctx := context.Background()

	orgID := primitive.NewObjectID()
	env := &testEnv{
		store:  s,
		admin:  &models.User{FirstName: "Ada", AdminFor: []primitive.ObjectID{orgID}},
		member: &models.User{FirstName: "Bo"},
	}
	require.NoError(t, s.InsertUser(ctx, env.admin))
	require.NoError(t, s.InsertUser(ctx, env.member))

	env.org = &models.Organization{
		ID:      orgID,
		Name:    "Makers",
		Admins:  []primitive.ObjectID{env.admin.ID},
		Members: []primitive.ObjectID{env.admin.ID, env.member.ID},
	}
	require.NoError(t, s.InsertOrganization(ctx, env.org))

	env.post = &models.Post{Title: "Welcome", Organization: orgID, Creator: env.admin.ID}
	require.NoError(t, s.InsertPost(ctx, env.post))

	r := resolvers.New(s, i18n.NewTranslator("en"), logger)
	env.schema = NewSchema(r, logger)
	return env
}

func (e *testEnv) do(caller *models.User, query string, vars map[string]interface{}) *graphql.Result {
	ctx := context.Background()
	if caller != nil {
		ctx = auth.WithUser(ctx, caller.ID)
	}
	return graphql.Do(graphql.Params{
		Schema:         e.schema.GetSchema(),
		RequestString:  query,
		VariableValues: vars,
		Context:        ctx,
	})
}

func TestQueryOrganizationMembers(t *testing.T) {
	env := newTestEnv(t)

	res := env.do(nil, `query($id: ID!) { organization(id: $id) { id name members { id firstName } } }`,
		map[string]interface{}{"id": env.org.ID.Hex()})
	require.Empty(t, res.Errors)

	org := res.Data.(map[string]interface{})["organization"].(map[string]interface{})
	assert.Equal(t, env.org.ID.Hex(), org["id"])
	assert.Equal(t, "Makers", org["name"])

	members := org["members"].([]interface{})
	require.Len(t, members, 2)
	assert.Equal(t, "Bo", members[1].(map[string]interface{})["firstName"])
}

func TestMutationLikeUnlikePost(t *testing.T) {
	env := newTestEnv(t)
	vars := map[string]interface{}{"id": env.post.ID.Hex()}

	res := env.do(env.member, `mutation($id: ID!) { likePost(id: $id) { likeCount likedBy } }`, vars)
	require.Empty(t, res.Errors)
	liked := res.Data.(map[string]interface{})["likePost"].(map[string]interface{})
	assert.Equal(t, 1, liked["likeCount"])
	assert.Equal(t, []interface{}{env.member.ID.Hex()}, liked["likedBy"])

	for i := 0; i < 2; i++ {
		res = env.do(env.member, `mutation($id: ID!) { unlikePost(id: $id) { likeCount } }`, vars)
		require.Empty(t, res.Errors)
		unliked := res.Data.(map[string]interface{})["unlikePost"].(map[string]interface{})
		assert.Equal(t, 0, unliked["likeCount"])
	}
}

func TestMutationErrorsCarryExtensions(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		caller *models.User
		query  string
		code   string
		param  string
	}{
		{
			name:   "anonymous caller",
			caller: nil,
			query:  `mutation { removeTask(id: "` + primitive.NewObjectID().Hex() + `") { id } }`,
			code:   "user.notAuthenticated",
			param:  "userAuthentication",
		},
		{
			name:   "anonymous caller with malformed id",
			caller: nil,
			query:  `mutation { likePost(id: "nope") { id } }`,
			code:   "user.notAuthenticated",
			param:  "userAuthentication",
		},
		{
			name:   "missing task",
			caller: env.member,
			query:  `mutation { removeTask(id: "` + primitive.NewObjectID().Hex() + `") { id } }`,
			code:   "task.notFound",
			param:  "task",
		},
		{
			name:   "malformed id",
			caller: env.member,
			query:  `mutation { unlikeComment(id: "nope") { id } }`,
			code:   "comment.notFound",
			param:  "comment",
		},
		{
			name:   "caller without user document and empty id",
			caller: &models.User{ID: primitive.NewObjectID()},
			query:  `mutation { removeComment(id: "") { id } }`,
			code:   "user.notFound",
			param:  "user",
		},
		{
			name:   "malformed parent tag",
			caller: env.admin,
			query:  `mutation { createUserTag(input: {organizationId: "` + env.org.ID.Hex() + `", parentTagId: "zz", name: "x"}) { id } }`,
			code:   "tag.notFound",
			param:  "tag",
		},
		{
			name:   "malformed id in query",
			caller: nil,
			query:  `{ comment(id: "nope") { id } }`,
			code:   "comment.notFound",
			param:  "comment",
		},
		{
			name:   "blank tag name",
			caller: env.admin,
			query:  `mutation { createUserTag(input: {organizationId: "` + env.org.ID.Hex() + `", name: "   "}) { id } }`,
			code:   "tag.invalidName",
			param:  "name",
		},
		{
			name:   "non admin tag creation",
			caller: env.member,
			query:  `mutation { createUserTag(input: {organizationId: "` + env.org.ID.Hex() + `", name: "x"}) { id } }`,
			code:   "user.notAuthorizedAdmin",
			param:  "userAuthorization",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.do(tt.caller, tt.query, nil)
			require.Len(t, res.Errors, 1)
			assert.Equal(t, tt.code, res.Errors[0].Extensions["code"])
			assert.Equal(t, tt.param, res.Errors[0].Extensions["param"])
		})
	}
}

func TestMutationCreateUserTagHierarchy(t *testing.T) {
	env := newTestEnv(t)

	res := env.do(env.admin, `mutation($org: ID!) { createUserTag(input: {organizationId: $org, name: "volunteers"}) { id parentTag { id } } }`,
		map[string]interface{}{"org": env.org.ID.Hex()})
	require.Empty(t, res.Errors)
	root := res.Data.(map[string]interface{})["createUserTag"].(map[string]interface{})
	assert.Nil(t, root["parentTag"])

	res = env.do(env.admin, `mutation($org: ID!, $parent: ID) { createUserTag(input: {organizationId: $org, parentTagId: $parent, name: "kitchen"}) { name parentTag { name } } }`,
		map[string]interface{}{"org": env.org.ID.Hex(), "parent": root["id"]})
	require.Empty(t, res.Errors)
	child := res.Data.(map[string]interface{})["createUserTag"].(map[string]interface{})
	assert.Equal(t, "volunteers", child["parentTag"].(map[string]interface{})["name"])

	res = env.do(nil, `query($id: ID!) { userTag(id: $id) { childTags { name } } }`,
		map[string]interface{}{"id": root["id"]})
	require.Empty(t, res.Errors)
	children := res.Data.(map[string]interface{})["userTag"].(map[string]interface{})["childTags"].([]interface{})
	require.Len(t, children, 1)
	assert.Equal(t, "kitchen", children[0].(map[string]interface{})["name"])
}

func TestQueryHealthAndStats(t *testing.T) {
	env := newTestEnv(t)

	res := env.do(nil, `{ health { status store } stats { backend } }`, nil)
	require.Empty(t, res.Errors)

	data := res.Data.(map[string]interface{})
	assert.Equal(t, "healthy", data["health"].(map[string]interface{})["status"])
	assert.Equal(t, "memory", data["stats"].(map[string]interface{})["backend"])
}
