// Package apperrors defines the domain errors raised by resolvers. Each error
// carries a stable code, a translatable message key and an optional
// parameter name, and exposes them to the GraphQL layer as extensions.
package apperrors

import (
	"errors"
)

// Kind classifies a domain error
type Kind int

const (
	// KindNotFound means a referenced entity does not exist
	KindNotFound Kind = iota
	// KindUnauthorized means the caller lacks ownership or admin rights
	KindUnauthorized
	// KindUnauthenticated means the request carried no caller identity
	KindUnauthenticated
	// KindConflict means the write would violate a uniqueness constraint
	KindConflict
	// KindInvalidInput means the arguments are inconsistent
	KindInvalidInput
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFoundError"
	case KindUnauthorized:
		return "UnauthorizedError"
	case KindUnauthenticated:
		return "UnauthenticatedError"
	case KindConflict:
		return "ConflictError"
	case KindInvalidInput:
		return "InputValidationError"
	default:
		return "UnknownError"
	}
}

// Definition is the static description of one error
type Definition struct {
	Kind       Kind
	Code       string
	MessageKey string
	Param      string
}

// Error definitions
var (
	UserNotFound         = Definition{KindNotFound, "user.notFound", "user.notFound", "user"}
	OrganizationNotFound = Definition{KindNotFound, "organization.notFound", "organization.notFound", "organization"}
	EventNotFound        = Definition{KindNotFound, "event.notFound", "event.notFound", "event"}
	EventProjectNotFound = Definition{KindNotFound, "eventProject.notFound", "eventProject.notFound", "eventProject"}
	TaskNotFound         = Definition{KindNotFound, "task.notFound", "task.notFound", "task"}
	PostNotFound         = Definition{KindNotFound, "post.notFound", "post.notFound", "post"}
	CommentNotFound      = Definition{KindNotFound, "comment.notFound", "comment.notFound", "comment"}
	GroupChatNotFound    = Definition{KindNotFound, "groupChat.notFound", "groupChat.notFound", "groupChat"}
	TagNotFound          = Definition{KindNotFound, "tag.notFound", "tag.notFound", "tag"}

	UserNotAuthorized      = Definition{KindUnauthorized, "user.notAuthorized", "user.notAuthorized", "userAuthorization"}
	UserNotAuthorizedAdmin = Definition{KindUnauthorized, "user.notAuthorizedAdmin", "user.notAuthorizedAdmin", "userAuthorization"}
	Unauthenticated        = Definition{KindUnauthenticated, "user.notAuthenticated", "user.notAuthenticated", "userAuthentication"}

	TagAlreadyExists = Definition{KindConflict, "tag.alreadyExists", "tag.alreadyExists", "tag"}
	InvalidParentTag = Definition{KindInvalidInput, "tag.invalidParent", "tag.invalidParent", "parentTag"}
	InvalidTagName   = Definition{KindInvalidInput, "tag.invalidName", "tag.invalidName", "name"}
	EmptyUpdate      = Definition{KindInvalidInput, "input.empty", "input.empty", "data"}
)

// Error is a domain error with its translated message
type Error struct {
	Kind       Kind
	Code       string
	MessageKey string
	Param      string
	Message    string
}

// New builds an Error from a definition and an already translated message.
// An empty message falls back to the message key.
func New(def Definition, message string) *Error {
	if message == "" {
		message = def.MessageKey
	}
	return &Error{
		Kind:       def.Kind,
		Code:       def.Code,
		MessageKey: def.MessageKey,
		Param:      def.Param,
		Message:    message,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Is matches errors with the same code, so errors.Is(err, apperrors.New(def, "")) works
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Extensions implements graphql-go's gqlerrors.ExtendedError
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"code": e.Code,
		"kind": e.Kind.String(),
	}
	if e.Param != "" {
		ext["param"] = e.Param
	}
	return ext
}

// Matches reports whether err is a domain error built from def
func Matches(err error, def Definition) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == def.Code
}

// KindOf returns the kind of a domain error, and false for any other error
func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return 0, false
	}
	return e.Kind, true
}
