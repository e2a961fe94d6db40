package auth

import (
	"testing"
	"time"

	"content-restriction/internal/app/http/middleware"
	"content-restriction/internal/domain/access"
	"content-restriction/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueViewerTokenRoundTrip(t *testing.T) {
	secret := []byte("s3cret")
	token, err := IssueViewerToken(users.User{ID: 12, Email: "ann@test", Role: access.RoleEditor}, secret, time.Now())
	require.NoError(t, err)

	v, err := middleware.ParseViewerToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(12), v.ID)
	assert.True(t, v.Authenticated())
	assert.True(t, v.Can(access.CapEditOthersPosts))
}

func TestIssueViewerTokenDefaultsToCustomer(t *testing.T) {
	secret := []byte("s3cret")
	token, err := IssueViewerToken(users.User{ID: 3}, secret, time.Now())
	require.NoError(t, err)

	v, err := middleware.ParseViewerToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, access.RoleCustomer, v.Role)
}

func TestIssueViewerTokenExpires(t *testing.T) {
	secret := []byte("s3cret")
	token, err := IssueViewerToken(users.User{ID: 3}, secret, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	_, err = middleware.ParseViewerToken(token, secret)
	assert.Error(t, err)
}

func TestIssueViewerTokenNeedsSecret(t *testing.T) {
	_, err := IssueViewerToken(users.User{ID: 3}, nil, time.Now())
	assert.Error(t, err)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "Ann Lee", firstNonEmpty("", " ", "Ann Lee"))
	assert.Equal(t, "", firstNonEmpty())
}
