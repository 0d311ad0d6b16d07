package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Data Science Internship - Zoro", CleanText("  Data Science\n Internship  - Zoro "))
	assert.Equal(t, "", CleanText(" \t\n"))
}

func TestContainsAnyFold(t *testing.T) {
	hit, ok := ContainsAnyFold("Software Engineer Intern (Summer 2019)", []string{"", "software engineer"})
	require.True(t, ok)
	assert.Equal(t, "software engineer", hit)

	_, ok = ContainsAnyFold("Data Intern", []string{"software engineer"})
	assert.False(t, ok)
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name, base, href, want string
	}{
		{"relative", "https://www.indeed.com", "/rc/clk?jk=abc123&fccid=x", "https://www.indeed.com/rc/clk?jk=abc123&fccid=x"},
		{"absolute", "https://www.indeed.com", "https://Other.example/job/1#apply", "https://other.example/job/1"},
		{"tracking", "https://www.indeed.com", "/viewjob?jk=1&utm_source=mail", "https://www.indeed.com/viewjob?jk=1"},
		{"empty", "https://www.indeed.com", "  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL(tt.base, tt.href))
		})
	}
}

func TestHostLimiterPerHost(t *testing.T) {
	hl := NewHostLimiter(0, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 5; i++ {
		require.NoError(t, hl.WaitURL(ctx, "https://www.indeed.com/jobs"))
	}
	require.NoError(t, hl.WaitURL(ctx, "http://api.geonames.org/postalCodeSearchJSON"))
	require.NoError(t, hl.WaitURL(ctx, "::not a url"))
	assert.Equal(t, 3, hl.Hosts())
}

func TestHostLimiterHonoursContext(t *testing.T) {
	hl := NewHostLimiter(0.001, 1)
	require.NoError(t, hl.WaitURL(context.Background(), "https://a.example/"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, hl.WaitURL(ctx, "https://a.example/"))
}
