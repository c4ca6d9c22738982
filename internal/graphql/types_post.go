package graphql

import (
	"github.com/devplatform/community-api/internal/apperrors"
	"github.com/devplatform/community-api/internal/models"
	"github.com/graphql-go/graphql"
)

// defineCommentType defines the Comment GraphQL type
func (s *Schema) defineCommentType(userType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Comment",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(objectIDType)},
			"text":      &graphql.Field{Type: graphql.String},
			"postId":    &graphql.Field{Type: objectIDType},
			"likedBy":   &graphql.Field{Type: graphql.NewList(objectIDType)},
			"likeCount": &graphql.Field{Type: graphql.Int},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
			"creator": &graphql.Field{
				Type:    userType,
				Resolve: s.resolveCommentCreator,
			},
		},
	})
}

// definePostType defines the Post GraphQL type
func (s *Schema) definePostType(userType, commentType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.NewNonNull(objectIDType)},
			"title":        &graphql.Field{Type: graphql.String},
			"text":         &graphql.Field{Type: graphql.String},
			"organization": &graphql.Field{Type: objectIDType},
			"likedBy":      &graphql.Field{Type: graphql.NewList(objectIDType)},
			"likeCount":    &graphql.Field{Type: graphql.Int},
			"commentCount": &graphql.Field{Type: graphql.Int},
			"createdAt":    &graphql.Field{Type: graphql.DateTime},
			"creator": &graphql.Field{
				Type:    userType,
				Resolve: s.resolvePostCreator,
			},
			"comments": &graphql.Field{
				Type:        graphql.NewList(commentType),
				Description: "Comments on the post, oldest first",
				Resolve:     s.resolvePostComments,
			},
		},
	})
}

// defineCreateCommentInput defines the CreateCommentInput GraphQL input type
func (s *Schema) defineCreateCommentInput() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateCommentInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"postId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"text":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})
}

// ============================================================================
// POST & COMMENT QUERY RESOLVERS
// ============================================================================

func (s *Schema) resolvePost(p graphql.ResolveParams) (interface{}, error) {
	id, err := s.idArg(p, "id", apperrors.PostNotFound)
	if err != nil {
		return nil, err
	}
	return s.resolver.Post(p.Context, id)
}

func (s *Schema) resolveComment(p graphql.ResolveParams) (interface{}, error) {
	id, err := s.idArg(p, "id", apperrors.CommentNotFound)
	if err != nil {
		return nil, err
	}
	return s.resolver.Comment(p.Context, id)
}

func (s *Schema) resolvePostCreator(p graphql.ResolveParams) (interface{}, error) {
	post, ok := p.Source.(*models.Post)
	if !ok {
		return nil, nil
	}
	return s.resolver.PostCreator(p.Context, post)
}

func (s *Schema) resolvePostComments(p graphql.ResolveParams) (interface{}, error) {
	post, ok := p.Source.(*models.Post)
	if !ok {
		return nil, nil
	}
	return s.resolver.PostComments(p.Context, post)
}

func (s *Schema) resolveCommentCreator(p graphql.ResolveParams) (interface{}, error) {
	comment, ok := p.Source.(*models.Comment)
	if !ok {
		return nil, nil
	}
	return s.resolver.CommentCreator(p.Context, comment)
}

// ============================================================================
// POST & COMMENT MUTATION RESOLVERS
// ============================================================================

func (s *Schema) resolveCreateComment(p graphql.ResolveParams) (interface{}, error) {
	input, _ := p.Args["input"].(map[string]interface{})

	raw, _ := input["postId"].(string)
	postID, err := s.parseID(p, raw, apperrors.PostNotFound)
	if err != nil {
		return nil, err
	}
	text, _ := input["text"].(string)

	return s.resolver.CreateComment(p.Context, caller(p), &models.CreateCommentInput{
		PostID: postID,
		Text:   text,
	})
}

func (s *Schema) resolveRemoveComment(p graphql.ResolveParams) (interface{}, error) {
	id, err := s.idArg(p, "id", apperrors.CommentNotFound)
	if err != nil {
		return nil, err
	}
	return s.resolver.RemoveComment(p.Context, caller(p), id)
}

func (s *Schema) resolveLikePost(p graphql.ResolveParams) (interface{}, error) {
	id, err := s.idArg(p, "id", apperrors.PostNotFound)
	if err != nil {
		return nil, err
	}
	return s.resolver.LikePost(p.Context, caller(p), id)
}

func (s *Schema) resolveUnlikePost(p graphql.ResolveParams) (interface{}, error) {
	id, err := s.idArg(p, "id", apperrors.PostNotFound)
	if err != nil {
		return nil, err
	}
	return s.resolver.UnlikePost(p.Context, caller(p), id)
}

func (s *Schema) resolveLikeComment(p graphql.ResolveParams) (interface{}, error) {
	id, err := s.idArg(p, "id", apperrors.CommentNotFound)
	if err != nil {
		return nil, err
	}
	return s.resolver.LikeComment(p.Context, caller(p), id)
}

func (s *Schema) resolveUnlikeComment(p graphql.ResolveParams) (interface{}, error) {
	id, err := s.idArg(p, "id", apperrors.CommentNotFound)
	if err != nil {
		return nil, err
	}
	return s.resolver.UnlikeComment(p.Context, caller(p), id)
}
