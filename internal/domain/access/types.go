package access

import "slices"

// Viewer is the identity an access decision is made for.
// It is always passed explicitly; an unauthenticated request is Anonymous().
type Viewer struct {
	ID           uint
	LoggedIn     bool
	Role         string
	Capabilities []string
}

func Anonymous() Viewer {
	return Viewer{Role: RoleAnonymous}
}

// NewViewer builds an authenticated viewer with the capabilities of its role.
func NewViewer(id uint, role string) Viewer {
	if id == 0 {
		return Anonymous()
	}
	return Viewer{
		ID:           id,
		LoggedIn:     true,
		Role:         role,
		Capabilities: CapabilitiesFor(role),
	}
}

func (v Viewer) Authenticated() bool {
	return v.LoggedIn && v.ID != 0
}

func (v Viewer) Can(capability string) bool {
	return slices.Contains(v.Capabilities, capability)
}

// Decision is the outcome of Evaluate. Message is only set when access is denied.
type Decision struct {
	Granted bool   `json:"granted"`
	Message string `json:"message,omitempty"`
}
