package graphql

import (
	"github.com/devplatform/community-api/internal/apperrors"
	"github.com/devplatform/community-api/internal/models"
	"github.com/graphql-go/graphql"
)

// defineGroupChatType defines the GroupChat GraphQL type
func (s *Schema) defineGroupChatType(userType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "GroupChat",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.NewNonNull(objectIDType)},
			"title":        &graphql.Field{Type: graphql.String},
			"organization": &graphql.Field{Type: objectIDType},
			"createdAt":    &graphql.Field{Type: graphql.DateTime},
			"creator": &graphql.Field{
				Type:        userType,
				Description: "Null when the creating user no longer exists",
				Resolve:     s.resolveGroupChatCreator,
			},
			"users": &graphql.Field{
				Type:    graphql.NewList(userType),
				Resolve: s.resolveGroupChatUsers,
			},
		},
	})
}

// ============================================================================
// GROUP CHAT RESOLVERS
// ============================================================================

func (s *Schema) resolveGroupChat(p graphql.ResolveParams) (interface{}, error) {
	id, err := s.idArg(p, "id", apperrors.GroupChatNotFound)
	if err != nil {
		return nil, err
	}
	return s.resolver.GroupChat(p.Context, id)
}

func (s *Schema) resolveGroupChatCreator(p graphql.ResolveParams) (interface{}, error) {
	chat, ok := p.Source.(*models.GroupChat)
	if !ok {
		return nil, nil
	}
	return s.resolver.GroupChatCreator(p.Context, chat)
}

func (s *Schema) resolveGroupChatUsers(p graphql.ResolveParams) (interface{}, error) {
	chat, ok := p.Source.(*models.GroupChat)
	if !ok {
		return nil, nil
	}
	return s.resolver.GroupChatUsers(p.Context, chat)
}
