package probeclient

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbly/jvmprobe/pkg/controlplane"
	"github.com/nimbly/jvmprobe/pkg/proberuntime"
)

func newTestServer(t *testing.T, rt *proberuntime.Runtime) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(controlplane.New(rt).Engine)
	t.Cleanup(srv.Close)
	return srv, New(srv.URL)
}

func TestStatusRoundTrip(t *testing.T) {
	rt := proberuntime.New()
	rt.HitByClassMethod("c.C", "m")
	_, client := newTestServer(t, rt)

	status, err := client.Status("c.C#m")
	require.NoError(t, err)
	assert.EqualValues(t, 1, status.HitCount)
	assert.Equal(t, "c.C#m", status.Key)
}

func TestResetRoundTrip(t *testing.T) {
	rt := proberuntime.New()
	rt.HitByClassMethod("c.C", "m")
	_, client := newTestServer(t, rt)

	require.NoError(t, client.Reset("c.C#m"))
	assert.EqualValues(t, 0, rt.Hits().Count("c.C#m"))
}

func TestActuateRoundTrip(t *testing.T) {
	rt := proberuntime.New()
	_, client := newTestServer(t, rt)

	targetKey := "c.C#m:10"
	returnTrue := true
	resp, err := client.Actuate(ActuateRequest{
		Mode:          "actuate",
		TargetKey:     &targetKey,
		ReturnBoolean: &returnTrue,
	})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, "actuate", resp.Mode)
	assert.Equal(t, targetKey, resp.TargetKey)
	assert.True(t, resp.ReturnBoolean)

	cfg := rt.Snapshot()
	assert.Equal(t, proberuntime.ModeActuate, cfg.Mode)
	assert.Equal(t, targetKey, cfg.ActuateTargetKey)
}

func TestStatusErrorsOnMissingKey(t *testing.T) {
	rt := proberuntime.New()
	_, client := newTestServer(t, rt)

	_, err := client.Status("")
	assert.Error(t, err)
}
