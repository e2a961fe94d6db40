package access

// Roles
const (
	RoleAnonymous = "anonymous"
	RoleCustomer  = "customer"
	RoleAuthor    = "author"
	RoleModerator = "moderator"
	RoleEditor    = "editor"
	RoleAdmin     = "admin"
)

// Capabilities
const (
	CapManageOptions   = "manage_options"
	CapModerate        = "moderate"
	CapEditPosts       = "edit_posts"
	CapEditOthersPosts = "edit_others_posts"
)

func CapabilitiesFor(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{CapManageOptions, CapModerate, CapEditPosts, CapEditOthersPosts}
	case RoleEditor:
		return []string{CapEditPosts, CapEditOthersPosts}
	case RoleModerator:
		return []string{CapModerate}
	case RoleAuthor:
		return []string{CapEditPosts}
	default:
		// customer / anonymous / unknown
		return []string{}
	}
}

// CanEditPost is the edit_post check: others' posts need edit_others_posts,
// own posts need edit_posts.
func CanEditPost(v Viewer, postAuthorID uint) bool {
	if !v.Authenticated() {
		return false
	}
	if v.Can(CapEditOthersPosts) {
		return true
	}
	return v.Can(CapEditPosts) && postAuthorID == v.ID
}
