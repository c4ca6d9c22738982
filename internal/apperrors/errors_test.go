package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindNotFound, "NotFoundError"},
		{KindUnauthorized, "UnauthorizedError"},
		{KindUnauthenticated, "UnauthenticatedError"},
		{KindConflict, "ConflictError"},
		{KindInvalidInput, "InputValidationError"},
		{Kind(99), "UnknownError"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			assert.Equal(t, test.expected, test.kind.String())
		})
	}
}

func TestNew_FallsBackToMessageKey(t *testing.T) {
	err := New(TaskNotFound, "")
	assert.Equal(t, "task.notFound", err.Error())

	err = New(TaskNotFound, "Task not found")
	assert.Equal(t, "Task not found", err.Error())
	assert.Equal(t, "task.notFound", err.MessageKey)
}

func TestMatches_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("remove task: %w", New(UserNotAuthorized, "nope"))

	assert.True(t, Matches(err, UserNotAuthorized))
	assert.False(t, Matches(err, UserNotAuthorizedAdmin))
	assert.False(t, Matches(errors.New("plain"), UserNotAuthorized))
	assert.True(t, errors.Is(err, New(UserNotAuthorized, "")))
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(New(TagAlreadyExists, ""))
	assert.True(t, ok)
	assert.Equal(t, KindConflict, kind)

	_, ok = KindOf(errors.New("driver failure"))
	assert.False(t, ok)
}

func TestExtensions(t *testing.T) {
	ext := New(EventNotFound, "Event not found").Extensions()

	assert.Equal(t, "event.notFound", ext["code"])
	assert.Equal(t, "event", ext["param"])
	assert.Equal(t, "NotFoundError", ext["kind"])
}
