package domain

// CanAccessSession reports whether the actor may read or append to session.
// Owners always may; trainers and admins may for any session.
func CanAccessSession(session *Session, actorID string, role Role) bool {
	if session == nil {
		return false
	}
	if actorID != "" && actorID == session.UserID {
		return true
	}
	return role.SeesAllSessions()
}

// CanPerform reports whether role is one of required.
func CanPerform(role Role, required ...Role) bool {
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}
