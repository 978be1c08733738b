package session

import (
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestResolve_ReusesExistingID(t *testing.T) {
	res, err := Resolve("http://127.0.0.1:8000/?session_id=abc-123")
	require.NoError(t, err)
	require.Equal(t, "abc-123", res.ID)
	require.False(t, res.Generated)
	// the URL passes through untouched
	require.Equal(t, "http://127.0.0.1:8000/?session_id=abc-123", res.PageURL)
}

func TestResolve_GeneratesAndInjects(t *testing.T) {
	res, err := Resolve("http://127.0.0.1:8000/")
	require.NoError(t, err)
	require.True(t, res.Generated)
	require.NoError(t, uuid.Validate(res.ID))

	u, err := url.Parse(res.PageURL)
	require.NoError(t, err)
	require.Equal(t, res.ID, u.Query().Get(Param))
}

func TestResolve_PreservesOtherParams(t *testing.T) {
	res, err := Resolve("http://127.0.0.1:8000/?theme=dark")
	require.NoError(t, err)
	require.True(t, res.Generated)

	u, err := url.Parse(res.PageURL)
	require.NoError(t, err)
	require.Equal(t, "dark", u.Query().Get("theme"))
	require.Equal(t, res.ID, u.Query().Get(Param))
}

func TestResolve_EmptyURL(t *testing.T) {
	res, err := Resolve("")
	require.NoError(t, err)
	require.True(t, res.Generated)
	require.NotEmpty(t, res.ID)
}

func TestResolve_FreshIDsDiffer(t *testing.T) {
	a, err := Resolve("")
	require.NoError(t, err)
	b, err := Resolve("")
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)
}
