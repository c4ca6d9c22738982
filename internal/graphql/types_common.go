package graphql

import (
	"github.com/graphql-go/graphql"
)

// defineStatsType defines the Stats GraphQL type
func (s *Schema) defineStatsType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Stats",
		Fields: graphql.Fields{
			"backend":       &graphql.Field{Type: graphql.String},
			"poolSize":      &graphql.Field{Type: graphql.Int},
			"open":          &graphql.Field{Type: graphql.Int},
			"inUse":         &graphql.Field{Type: graphql.Int},
			"totalRequests": &graphql.Field{Type: graphql.Int},
		},
	})
}

// defineHealthType defines the Health GraphQL type
func (s *Schema) defineHealthType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Health",
		Fields: graphql.Fields{
			"status":    &graphql.Field{Type: graphql.String},
			"timestamp": &graphql.Field{Type: graphql.String},
			"store":     &graphql.Field{Type: graphql.Boolean},
		},
	})
}

// ============================================================================
// COMMON RESOLVERS (Health, Stats)
// ============================================================================

func (s *Schema) resolveHealth(p graphql.ResolveParams) (interface{}, error) {
	return s.resolver.Health(p.Context), nil
}

func (s *Schema) resolveStats(p graphql.ResolveParams) (interface{}, error) {
	return s.resolver.Stats(), nil
}
