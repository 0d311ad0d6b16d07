package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyOrderIndependent(t *testing.T) {
	a := map[string]string{}
	a["q"] = "data intern"
	a["l"] = "United States"
	a["start"] = "10"

	b := map[string]string{}
	b["start"] = "10"
	b["l"] = "United States"
	b["q"] = "data intern"

	for i := 0; i < 20; i++ {
		assert.Equal(t, Key("https://www.indeed.com/jobs?", a), Key("https://www.indeed.com/jobs?", b))
	}
	assert.Equal(t, "https://www.indeed.com/jobs?l-United States_q-data intern_start-10",
		Key("https://www.indeed.com/jobs?", a))
}

func TestKeyExcludesPrivateParams(t *testing.T) {
	params := map[string]string{
		"placename": "Buffalo Grove",
		"username":  "secret-user",
		"country":   "us",
		"maxRows":   "1",
	}
	k := Key("http://api.geonames.org/postalCodeSearchJSON?", params, "username")
	assert.NotContains(t, k, "secret-user")
	assert.NotContains(t, k, "username")
	assert.Equal(t, "http://api.geonames.org/postalCodeSearchJSON?country-us_maxRows-1_placename-Buffalo Grove", k)
}

func TestKeyDefaultPrivateParam(t *testing.T) {
	k := Key("base?", map[string]string{"key": "abc123", "a": "1"})
	assert.Equal(t, "base?a-1", k)
}

func TestKeyNoParams(t *testing.T) {
	assert.Equal(t, "base?", Key("base?", nil))
}
