package access

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultEnforcer(t *testing.T) {
	e, err := NewDefaultEnforcer()
	require.NoError(t, err)

	cases := []struct {
		sub, obj, act string
		want          bool
	}{
		{RoleSeeker, "/api/jobs", "POST", true},
		{RoleWorker, "/api/jobs", "POST", false},
		{RoleWorker, "/api/jobs/:jobId/apply", "POST", true},
		{RoleWorker, "/api/jobs/42/apply", "POST", true},
		{RoleSeeker, "/api/jobs/42/apply", "POST", false},
		{RoleSeeker, "/api/jobs/applications/:applicationId/accept", "PUT", true},
		{RoleWorker, "/api/jobs/applications/:applicationId/accept", "PUT", false},
		{RoleSeeker, "/api/jobs/:jobId/applications", "GET", true},
	}

	for _, tc := range cases {
		ok, err := e.Enforce(tc.sub, tc.obj, tc.act)
		require.NoError(t, err)
		require.Equal(t, tc.want, ok, "%s %s %s", tc.sub, tc.act, tc.obj)
	}
}

func TestDenyMessage(t *testing.T) {
	e, err := NewDefaultEnforcer()
	require.NoError(t, err)

	require.Equal(t, "Access denied. Seeker account required.", DenyMessage(e, "/api/jobs", "POST"))
	require.Equal(t, "Access denied. Worker account required.", DenyMessage(e, "/api/jobs/:jobId/apply", "POST"))
	require.Equal(t, "Access denied", DenyMessage(e, "/api/unknown", "GET"))
}
