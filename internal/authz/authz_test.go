package authz

import (
	"testing"

	"github.com/devplatform/community-api/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsCreator(t *testing.T) {
	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()

	tests := []struct {
		name    string
		creator primitive.ObjectID
		caller  primitive.ObjectID
		want    bool
	}{
		{"same user", alice, alice, true},
		{"other user", alice, bob, false},
		{"zero caller never owns", primitive.NilObjectID, primitive.NilObjectID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCreator(tt.creator, tt.caller))
		})
	}
}

func TestIsOrganizationAdmin(t *testing.T) {
	admin, member := primitive.NewObjectID(), primitive.NewObjectID()
	org := &models.Organization{Admins: []primitive.ObjectID{admin}, Members: []primitive.ObjectID{admin, member}}

	assert.True(t, IsOrganizationAdmin(org, admin))
	assert.False(t, IsOrganizationAdmin(org, member))
	assert.False(t, IsOrganizationAdmin(nil, admin))
}

func TestAdminsFor(t *testing.T) {
	orgID := primitive.NewObjectID()
	user := &models.User{AdminFor: []primitive.ObjectID{orgID}}

	assert.True(t, AdminsFor(user, orgID))
	assert.False(t, AdminsFor(user, primitive.NewObjectID()))
	assert.False(t, AdminsFor(nil, orgID))
}
