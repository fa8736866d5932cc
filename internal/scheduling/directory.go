package scheduling

import (
	"clinic-scheduling-server/internal/models"
)

// resolveActiveUser looks up a user and verifies role and active flag.
func resolveActiveUser(dir UserDirectory, id string, role models.Role) (*models.User, error) {
	user, err := dir.GetUserByID(id)
	if err != nil {
		return nil, &Error{Kind: KindUnknownUser, Message: "user " + id + " not found", Cause: err}
	}
	if user.Role != role {
		return nil, newError(KindUnknownUser, "user %s is not a %s", id, role)
	}
	if !user.IsActive {
		return nil, newError(KindInactiveUser, "%s %s is deactivated", role, id)
	}
	return user, nil
}
