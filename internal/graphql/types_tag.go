package graphql

import (
	"github.com/devplatform/community-api/internal/apperrors"
	"github.com/devplatform/community-api/internal/models"
	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// defineUserTagType defines the UserTag GraphQL type. The type refers to
// itself, so its fields are built lazily.
func (s *Schema) defineUserTagType() *graphql.Object {
	var tagType *graphql.Object
	tagType = graphql.NewObject(graphql.ObjectConfig{
		Name: "UserTag",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":             &graphql.Field{Type: graphql.NewNonNull(objectIDType)},
				"name":           &graphql.Field{Type: graphql.String},
				"organizationId": &graphql.Field{Type: objectIDType},
				"parentTagId":    &graphql.Field{Type: objectIDType},
				"parentTag": &graphql.Field{
					Type:        tagType,
					Description: "Null for root tags",
					Resolve:     s.resolveTagParent,
				},
				"childTags": &graphql.Field{
					Type:        graphql.NewList(tagType),
					Description: "Direct children, ordered by name",
					Resolve:     s.resolveTagChildren,
				},
			}
		}),
	})
	return tagType
}

// defineCreateUserTagInput defines the CreateUserTagInput GraphQL input type
func (s *Schema) defineCreateUserTagInput() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateUserTagInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"organizationId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"parentTagId":    &graphql.InputObjectFieldConfig{Type: graphql.ID, Description: "Omit to create a root tag"},
			"name":           &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})
}

// ============================================================================
// TAG RESOLVERS
// ============================================================================

func (s *Schema) resolveUserTag(p graphql.ResolveParams) (interface{}, error) {
	id, err := s.idArg(p, "id", apperrors.TagNotFound)
	if err != nil {
		return nil, err
	}
	return s.resolver.UserTag(p.Context, id)
}

func (s *Schema) resolveTagParent(p graphql.ResolveParams) (interface{}, error) {
	tag, ok := p.Source.(*models.OrganizationTagUser)
	if !ok {
		return nil, nil
	}
	return s.resolver.TagParent(p.Context, tag)
}

func (s *Schema) resolveTagChildren(p graphql.ResolveParams) (interface{}, error) {
	tag, ok := p.Source.(*models.OrganizationTagUser)
	if !ok {
		return nil, nil
	}
	return s.resolver.TagChildren(p.Context, tag)
}

func (s *Schema) resolveCreateUserTag(p graphql.ResolveParams) (interface{}, error) {
	input, _ := p.Args["input"].(map[string]interface{})

	rawOrg, _ := input["organizationId"].(string)
	orgID, err := s.parseID(p, rawOrg, apperrors.OrganizationNotFound)
	if err != nil {
		return nil, err
	}

	var parentID *primitive.ObjectID
	if rawParent, ok := input["parentTagId"].(string); ok && rawParent != "" {
		id, err := s.parseID(p, rawParent, apperrors.TagNotFound)
		if err != nil {
			return nil, err
		}
		parentID = &id
	}

	name, _ := input["name"].(string)

	return s.resolver.CreateUserTag(p.Context, caller(p), &models.CreateUserTagInput{
		OrganizationID: orgID,
		ParentTagID:    parentID,
		Name:           name,
	})
}
