package graphql

import (
	"github.com/devplatform/community-api/internal/apperrors"
	"github.com/devplatform/community-api/internal/auth"
	"github.com/devplatform/community-api/internal/resolvers"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// objectIDType renders document identifiers as 24 character hex strings
var objectIDType = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "ObjectID",
	Description: "A document identifier, serialized as a 24 character hex string",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case primitive.ObjectID:
			return v.Hex()
		case *primitive.ObjectID:
			if v == nil {
				return nil
			}
			return v.Hex()
		case string:
			return v
		}
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil
		}
		return id
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		v, ok := valueAST.(*ast.StringValue)
		if !ok {
			return nil
		}
		id, err := primitive.ObjectIDFromHex(v.Value)
		if err != nil {
			return nil
		}
		return id
	},
})

// idArg reads an ID argument. A malformed id cannot name any document, so in
// a query it is reported as the not-found error for the entity it was meant
// to select. A mutation gets the zero id instead: its resolver then runs the
// caller checks first and reports the same not-found when the lookup misses.
func (s *Schema) idArg(p graphql.ResolveParams, name string, def apperrors.Definition) (primitive.ObjectID, error) {
	raw, _ := p.Args[name].(string)
	return s.parseID(p, raw, def)
}

func (s *Schema) parseID(p graphql.ResolveParams, raw string, def apperrors.Definition) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err == nil {
		return id, nil
	}
	if isMutation(p) {
		return primitive.NilObjectID, nil
	}
	return primitive.NilObjectID, s.resolver.Fail(p.Context, def)
}

func isMutation(p graphql.ResolveParams) bool {
	op, ok := p.Info.Operation.(*ast.OperationDefinition)
	return ok && op.Operation == ast.OperationTypeMutation
}

// caller returns the identity the auth middleware stored in the request context
func caller(p graphql.ResolveParams) resolvers.Caller {
	return resolvers.Caller{UserID: auth.GetUserFromContext(p.Context)}
}
