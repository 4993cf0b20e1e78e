package auth

import "wayfare/internal/domain"

// Authorization predicates. These are pure functions over the caller's
// verified claims and the target's ownership metadata; they perform no
// I/O and every mutating handler routes its permit/deny decision through
// them.

// CanMutate reports whether the caller may edit or delete a resource
// authored by authorID. Anonymous callers may mutate nothing.
func CanMutate(caller *Claims, authorID string) bool {
	if caller == nil {
		return false
	}
	return caller.IsAdmin || caller.UserID == authorID
}

// CanDeleteUser reports whether the caller may delete the target account.
// Only admins may delete users, and admin accounts may never be deleted,
// including by other admins.
func CanDeleteUser(caller *Claims, target *domain.User) bool {
	if caller == nil || target == nil {
		return false
	}
	return caller.IsAdmin && !target.IsAdmin
}

// CanSave reports whether the caller may save or unsave an article, or
// like a comment. Any authenticated user qualifies; ownership is
// irrelevant.
func CanSave(caller *Claims) bool {
	return caller != nil
}

// CanEdit is the read-time decoration embedded in article and comment
// responses so clients can decide whether to show edit controls. It never
// restricts visibility.
func CanEdit(caller *Claims, authorID string) bool {
	return caller != nil && CanMutate(caller, authorID)
}
