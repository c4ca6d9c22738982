package graphql

import (
	"github.com/devplatform/community-api/internal/apperrors"
	"github.com/devplatform/community-api/internal/models"
	"github.com/graphql-go/graphql"
)

// defineUserType defines the User GraphQL type
func (s *Schema) defineUserType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":                  &graphql.Field{Type: graphql.NewNonNull(objectIDType)},
			"firstName":           &graphql.Field{Type: graphql.String},
			"lastName":            &graphql.Field{Type: graphql.String},
			"email":               &graphql.Field{Type: graphql.String},
			"adminFor":            &graphql.Field{Type: graphql.NewList(objectIDType)},
			"joinedOrganizations": &graphql.Field{Type: graphql.NewList(objectIDType)},
			"eventAdmin":          &graphql.Field{Type: graphql.NewList(objectIDType)},
			"createdEvents":       &graphql.Field{Type: graphql.NewList(objectIDType)},
			"registeredEvents":    &graphql.Field{Type: graphql.NewList(objectIDType)},
			"createdAt":           &graphql.Field{Type: graphql.DateTime},
		},
	})
}

// defineOrganizationType defines the Organization GraphQL type
func (s *Schema) defineOrganizationType(userType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Organization",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(objectIDType)},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"creator":     &graphql.Field{Type: objectIDType},
			"createdAt":   &graphql.Field{Type: graphql.DateTime},
			"admins": &graphql.Field{
				Type:        graphql.NewList(userType),
				Description: "Users administering the organization",
				Resolve:     s.resolveOrganizationAdmins,
			},
			"members": &graphql.Field{
				Type:        graphql.NewList(userType),
				Description: "Users belonging to the organization",
				Resolve:     s.resolveOrganizationMembers,
			},
		},
	})
}

// ============================================================================
// USER & ORGANIZATION RESOLVERS
// ============================================================================

func (s *Schema) resolveMe(p graphql.ResolveParams) (interface{}, error) {
	return s.resolver.Me(p.Context, caller(p))
}

func (s *Schema) resolveUser(p graphql.ResolveParams) (interface{}, error) {
	id, err := s.idArg(p, "id", apperrors.UserNotFound)
	if err != nil {
		return nil, err
	}
	return s.resolver.User(p.Context, id)
}

func (s *Schema) resolveOrganization(p graphql.ResolveParams) (interface{}, error) {
	id, err := s.idArg(p, "id", apperrors.OrganizationNotFound)
	if err != nil {
		return nil, err
	}
	return s.resolver.Organization(p.Context, id)
}

func (s *Schema) resolveOrganizationAdmins(p graphql.ResolveParams) (interface{}, error) {
	org, ok := p.Source.(*models.Organization)
	if !ok {
		return nil, nil
	}
	return s.resolver.OrganizationAdmins(p.Context, org)
}

func (s *Schema) resolveOrganizationMembers(p graphql.ResolveParams) (interface{}, error) {
	org, ok := p.Source.(*models.Organization)
	if !ok {
		return nil, nil
	}
	return s.resolver.OrganizationMembers(p.Context, org)
}
