package graphql

import (
	"time"

	"github.com/devplatform/community-api/internal/apperrors"
	"github.com/devplatform/community-api/internal/models"
	"github.com/graphql-go/graphql"
)

// defineTaskType defines the Task GraphQL type
func (s *Schema) defineTaskType(userType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Task",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(objectIDType)},
			"title":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"event":       &graphql.Field{Type: objectIDType},
			"deadline":    &graphql.Field{Type: graphql.DateTime},
			"completed":   &graphql.Field{Type: graphql.Boolean},
			"createdAt":   &graphql.Field{Type: graphql.DateTime},
			"creator": &graphql.Field{
				Type:    userType,
				Resolve: s.resolveTaskCreator,
			},
		},
	})
}

// defineEventProjectType defines the EventProject GraphQL type
func (s *Schema) defineEventProjectType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "EventProject",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(objectIDType)},
			"title":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"event":       &graphql.Field{Type: objectIDType},
			"creator":     &graphql.Field{Type: objectIDType},
			"createdAt":   &graphql.Field{Type: graphql.DateTime},
		},
	})
}

// defineEventType defines the Event GraphQL type
func (s *Schema) defineEventType(taskType, eventProjectType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Event",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.NewNonNull(objectIDType)},
			"title":        &graphql.Field{Type: graphql.String},
			"description":  &graphql.Field{Type: graphql.String},
			"organization": &graphql.Field{Type: objectIDType},
			"creator":      &graphql.Field{Type: objectIDType},
			"admins":       &graphql.Field{Type: graphql.NewList(objectIDType)},
			"registrants":  &graphql.Field{Type: graphql.NewList(objectIDType)},
			"startDate":    &graphql.Field{Type: graphql.DateTime},
			"endDate":      &graphql.Field{Type: graphql.DateTime},
			"createdAt":    &graphql.Field{Type: graphql.DateTime},
			"tasks": &graphql.Field{
				Type:    graphql.NewList(taskType),
				Resolve: s.resolveEventTasks,
			},
			"projects": &graphql.Field{
				Type:    graphql.NewList(eventProjectType),
				Resolve: s.resolveEventProjects,
			},
		},
	})
}

// defineUpdateTaskInput defines the UpdateTaskInput GraphQL input type
func (s *Schema) defineUpdateTaskInput() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateTaskInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"deadline":    &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
			"completed":   &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})
}

// ============================================================================
// EVENT QUERY RESOLVERS
// ============================================================================

func (s *Schema) resolveEvent(p graphql.ResolveParams) (interface{}, error) {
	id, err := s.idArg(p, "id", apperrors.EventNotFound)
	if err != nil {
		return nil, err
	}
	return s.resolver.Event(p.Context, id)
}

func (s *Schema) resolveEventTasks(p graphql.ResolveParams) (interface{}, error) {
	event, ok := p.Source.(*models.Event)
	if !ok {
		return nil, nil
	}
	return s.resolver.EventTasks(p.Context, event)
}

func (s *Schema) resolveEventProjects(p graphql.ResolveParams) (interface{}, error) {
	event, ok := p.Source.(*models.Event)
	if !ok {
		return nil, nil
	}
	return s.resolver.EventProjects(p.Context, event)
}

func (s *Schema) resolveTaskCreator(p graphql.ResolveParams) (interface{}, error) {
	task, ok := p.Source.(*models.Task)
	if !ok {
		return nil, nil
	}
	return s.resolver.TaskCreator(p.Context, task)
}

// ============================================================================
// EVENT MUTATION RESOLVERS
// ============================================================================

func (s *Schema) resolveAdminRemoveEvent(p graphql.ResolveParams) (interface{}, error) {
	id, err := s.idArg(p, "eventId", apperrors.EventNotFound)
	if err != nil {
		return nil, err
	}
	return s.resolver.AdminRemoveEvent(p.Context, caller(p), id)
}

func (s *Schema) resolveRemoveEventProject(p graphql.ResolveParams) (interface{}, error) {
	id, err := s.idArg(p, "id", apperrors.EventProjectNotFound)
	if err != nil {
		return nil, err
	}
	return s.resolver.RemoveEventProject(p.Context, caller(p), id)
}

func (s *Schema) resolveRemoveTask(p graphql.ResolveParams) (interface{}, error) {
	id, err := s.idArg(p, "id", apperrors.TaskNotFound)
	if err != nil {
		return nil, err
	}
	return s.resolver.RemoveTask(p.Context, caller(p), id)
}

func (s *Schema) resolveUpdateTask(p graphql.ResolveParams) (interface{}, error) {
	id, err := s.idArg(p, "id", apperrors.TaskNotFound)
	if err != nil {
		return nil, err
	}

	input := &models.UpdateTaskInput{}
	if data, ok := p.Args["data"].(map[string]interface{}); ok {
		if title, ok := data["title"].(string); ok {
			input.Title = &title
		}
		if description, ok := data["description"].(string); ok {
			input.Description = &description
		}
		if deadline, ok := data["deadline"].(time.Time); ok {
			input.Deadline = &deadline
		}
		if completed, ok := data["completed"].(bool); ok {
			input.Completed = &completed
		}
	}

	return s.resolver.UpdateTask(p.Context, caller(p), id, input)
}
