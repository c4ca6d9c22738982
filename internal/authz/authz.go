// Package authz holds the ownership and admin predicates the resolvers gate
// mutations on. The predicates are pure; loading the documents is the
// caller's job.
package authz

import (
	"slices"

	"github.com/devplatform/community-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsCreator reports whether caller created the document whose creator is given
func IsCreator(creator, caller primitive.ObjectID) bool {
	return !caller.IsZero() && creator == caller
}

// IsOrganizationAdmin reports whether caller is listed in the organization's admins
func IsOrganizationAdmin(org *models.Organization, caller primitive.ObjectID) bool {
	if org == nil || caller.IsZero() {
		return false
	}
	return slices.Contains(org.Admins, caller)
}

// AdminsFor reports whether the user's adminFor list contains orgID
func AdminsFor(user *models.User, orgID primitive.ObjectID) bool {
	if user == nil {
		return false
	}
	return slices.Contains(user.AdminFor, orgID)
}
