package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"jobharvest/internal/config"
)

func TestGeocodeUsernameRoundTrip(t *testing.T) {
	keyring.MockInit()

	_, err := GetGeocodeUsername("jobharvest:geonames")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, SetGeocodeUsername("jobharvest:geonames", "  demo-user "))
	u, err := GetGeocodeUsername("jobharvest:geonames")
	require.NoError(t, err)
	assert.Equal(t, "demo-user", u)

	require.NoError(t, DeleteGeocodeUsername("jobharvest:geonames"))
	_, err = GetGeocodeUsername("jobharvest:geonames")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetRejectsBlank(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, SetGeocodeUsername("", "x"))
	assert.Error(t, SetGeocodeUsername("acct", " "))
	assert.Error(t, DeleteGeocodeUsername(""))
}

func TestResolveGeocodeUsername(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvUsername, "")
	cfg := config.Default()

	u, src := ResolveGeocodeUsername(cfg)
	assert.Empty(t, u)
	assert.Empty(t, src)

	require.NoError(t, SetGeocodeUsername(cfg.Geocode.KeyringAccount, "from-keychain"))
	u, src = ResolveGeocodeUsername(cfg)
	assert.Equal(t, "from-keychain", u)
	assert.Equal(t, "keyring", src)

	t.Setenv(EnvUsername, "from-env")
	u, src = ResolveGeocodeUsername(cfg)
	assert.Equal(t, "from-env", u)
	assert.Equal(t, "env", src)

	cfg.Geocode.Username = "from-config"
	u, src = ResolveGeocodeUsername(cfg)
	assert.Equal(t, "from-config", u)
	assert.Equal(t, "config", src)
}
