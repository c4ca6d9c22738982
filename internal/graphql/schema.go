package graphql

import (
	"github.com/devplatform/community-api/internal/resolvers"
	"github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"
)

// Schema represents the GraphQL schema
type Schema struct {
	schema   graphql.Schema
	resolver *resolvers.Resolver
	logger   *logrus.Logger
}

// NewSchema creates a new GraphQL schema
func NewSchema(resolver *resolvers.Resolver, logger *logrus.Logger) *Schema {
	s := &Schema{
		resolver: resolver,
		logger:   logger,
	}

	// Define types
	userType := s.defineUserType()
	organizationType := s.defineOrganizationType(userType)
	taskType := s.defineTaskType(userType)
	eventProjectType := s.defineEventProjectType()
	eventType := s.defineEventType(taskType, eventProjectType)
	commentType := s.defineCommentType(userType)
	postType := s.definePostType(userType, commentType)
	groupChatType := s.defineGroupChatType(userType)
	userTagType := s.defineUserTagType()
	statsType := s.defineStatsType()
	healthType := s.defineHealthType()

	// Define input types
	updateTaskInputType := s.defineUpdateTaskInput()
	createCommentInputType := s.defineCreateCommentInput()
	createUserTagInputType := s.defineCreateUserTagInput()

	idArgs := func(name string) graphql.FieldConfigArgument {
		return graphql.FieldConfigArgument{
			name: &graphql.ArgumentConfig{
				Type: graphql.NewNonNull(graphql.ID),
			},
		}
	}

	// Define root query
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type:    userType,
				Resolve: s.resolveMe,
			},
			"user": &graphql.Field{
				Type:    userType,
				Args:    idArgs("id"),
				Resolve: s.resolveUser,
			},
			"organization": &graphql.Field{
				Type:    organizationType,
				Args:    idArgs("id"),
				Resolve: s.resolveOrganization,
			},
			"event": &graphql.Field{
				Type:    eventType,
				Args:    idArgs("id"),
				Resolve: s.resolveEvent,
			},
			"post": &graphql.Field{
				Type:    postType,
				Args:    idArgs("id"),
				Resolve: s.resolvePost,
			},
			"comment": &graphql.Field{
				Type:    commentType,
				Args:    idArgs("id"),
				Resolve: s.resolveComment,
			},
			"groupChat": &graphql.Field{
				Type:    groupChatType,
				Args:    idArgs("id"),
				Resolve: s.resolveGroupChat,
			},
			"userTag": &graphql.Field{
				Type:    userTagType,
				Args:    idArgs("id"),
				Resolve: s.resolveUserTag,
			},
			"health": &graphql.Field{
				Type:    healthType,
				Resolve: s.resolveHealth,
			},
			"stats": &graphql.Field{
				Type:    statsType,
				Resolve: s.resolveStats,
			},
		},
	})

	// Define root mutation
	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"adminRemoveEvent": &graphql.Field{
				Type:        graphql.NewNonNull(eventType),
				Description: "Delete an event as an admin of its organization",
				Args:        idArgs("eventId"),
				Resolve:     s.resolveAdminRemoveEvent,
			},
			"removeEventProject": &graphql.Field{
				Type:        graphql.NewNonNull(eventProjectType),
				Description: "Delete an event project you created",
				Args:        idArgs("id"),
				Resolve:     s.resolveRemoveEventProject,
			},
			"removeTask": &graphql.Field{
				Type:        graphql.NewNonNull(taskType),
				Description: "Delete a task you created",
				Args:        idArgs("id"),
				Resolve:     s.resolveRemoveTask,
			},
			"updateTask": &graphql.Field{
				Type: graphql.NewNonNull(taskType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.ID),
					},
					"data": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(updateTaskInputType),
					},
				},
				Resolve: s.resolveUpdateTask,
			},
			"createComment": &graphql.Field{
				Type: graphql.NewNonNull(commentType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(createCommentInputType),
					},
				},
				Resolve: s.resolveCreateComment,
			},
			"removeComment": &graphql.Field{
				Type:        graphql.NewNonNull(commentType),
				Description: "Delete a comment you created, or any comment in an organization you administer",
				Args:        idArgs("id"),
				Resolve:     s.resolveRemoveComment,
			},
			"likePost": &graphql.Field{
				Type:    graphql.NewNonNull(postType),
				Args:    idArgs("id"),
				Resolve: s.resolveLikePost,
			},
			"unlikePost": &graphql.Field{
				Type:    graphql.NewNonNull(postType),
				Args:    idArgs("id"),
				Resolve: s.resolveUnlikePost,
			},
			"likeComment": &graphql.Field{
				Type:    graphql.NewNonNull(commentType),
				Args:    idArgs("id"),
				Resolve: s.resolveLikeComment,
			},
			"unlikeComment": &graphql.Field{
				Type:    graphql.NewNonNull(commentType),
				Args:    idArgs("id"),
				Resolve: s.resolveUnlikeComment,
			},
			"createUserTag": &graphql.Field{
				Type: graphql.NewNonNull(userTagType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(createUserTagInputType),
					},
				},
				Resolve: s.resolveCreateUserTag,
			},
		},
	})

	// Create schema
	schemaConfig := graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	}

	schema, err := graphql.NewSchema(schemaConfig)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create schema")
	}

	s.schema = schema
	return s
}

// GetSchema returns the GraphQL schema
func (s *Schema) GetSchema() graphql.Schema {
	return s.schema
}

// GetSchemaPtr returns the schema in the form graphql-go/handler expects
func (s *Schema) GetSchemaPtr() *graphql.Schema {
	return &s.schema
}
