// Package resolvers implements the GraphQL operations against a store.Store.
//
// Every mutation runs the same gate: load the documents it touches, check
// that the caller may act on them, mutate, and return. Checks short-circuit
// in a fixed order and the first failing check decides the error, so a
// rejected call never writes. Multi-document effects are sequential single
// document updates and are not atomic as a whole.
package resolvers

import (
	"context"
	"errors"
	"fmt"

	"github.com/devplatform/community-api/internal/apperrors"
	"github.com/devplatform/community-api/internal/i18n"
	"github.com/devplatform/community-api/internal/models"
	"github.com/devplatform/community-api/internal/store"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Caller is the identity a resolver acts for. The zero value is anonymous.
type Caller struct {
	UserID primitive.ObjectID
}

// IsAnonymous reports whether the request carried no user identity
func (c Caller) IsAnonymous() bool {
	return c.UserID.IsZero()
}

// Resolver binds the store and translator the operations run against
type Resolver struct {
	store      store.Store
	translator *i18n.Translator
	logger     *logrus.Logger
}

// New creates a new Resolver
func New(s store.Store, translator *i18n.Translator, logger *logrus.Logger) *Resolver {
	return &Resolver{
		store:      s,
		translator: translator,
		logger:     logger,
	}
}

// Fail builds the domain error for def, translated for the locale in ctx
func (r *Resolver) Fail(ctx context.Context, def apperrors.Definition) error {
	return apperrors.New(def, r.translator.TranslateContext(ctx, def.MessageKey))
}

// lookupErr turns store.ErrNotFound into the domain error for def and wraps
// anything else
func (r *Resolver) lookupErr(ctx context.Context, err error, def apperrors.Definition) error {
	if errors.Is(err, store.ErrNotFound) {
		return r.Fail(ctx, def)
	}
	return fmt.Errorf("%s: %w", def.Param, err)
}

// requireUser fails with UNAUTHENTICATED for anonymous callers and with
// USER_NOT_FOUND when the caller's user document is gone
func (r *Resolver) requireUser(ctx context.Context, caller Caller) error {
	if caller.IsAnonymous() {
		return r.Fail(ctx, apperrors.Unauthenticated)
	}
	ok, err := r.store.UserExists(ctx, caller.UserID)
	if err != nil {
		return fmt.Errorf("user: %w", err)
	}
	if !ok {
		return r.Fail(ctx, apperrors.UserNotFound)
	}
	return nil
}

// loadUser is requireUser for resolvers that need the user document itself
func (r *Resolver) loadUser(ctx context.Context, caller Caller) (*models.User, error) {
	if caller.IsAnonymous() {
		return nil, r.Fail(ctx, apperrors.Unauthenticated)
	}
	user, err := r.store.GetUser(ctx, caller.UserID)
	if err != nil {
		return nil, r.lookupErr(ctx, err, apperrors.UserNotFound)
	}
	return user, nil
}
