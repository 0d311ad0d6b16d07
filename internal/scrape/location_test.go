package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in          string
		want        Location
		wantAnomaly bool
	}{
		{"Buffalo Grove, IL 60089", Location{"Buffalo Grove", "IL"}, false},
		{"Austin, TX", Location{"Austin", "TX"}, false},
		{"New York,NY", Location{"New York", "NY"}, false},
		{"Seattle, wa 98101 (Downtown area)", Location{"Seattle", "WA"}, false},
		{"United States", Location{}, false},
		{"Remote", Location{}, false},
		{"", Location{}, false},
		{"Chicago, Illinois", Location{City: "Chicago"}, true},
		{"Springfield, 62701", Location{City: "Springfield"}, true},
		{"Springfield, ", Location{City: "Springfield"}, true},
		{", IL", Location{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, anomaly := ParseLocation(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantAnomaly, anomaly != "", anomaly)
		})
	}
}

func TestShouldEnrich(t *testing.T) {
	keep, reason := ShouldEnrich("Software Engineer Intern (Summer 2019)", []string{"software engineer"})
	assert.False(t, keep)
	assert.Equal(t, "software engineer", reason)

	keep, _ = ShouldEnrich("SOFTWARE ENGINEERING Intern", []string{"software engineer"})
	assert.False(t, keep)

	keep, reason = ShouldEnrich("Data Science Intern", []string{"software engineer"})
	assert.True(t, keep)
	assert.Empty(t, reason)
}

func TestSeenTitles(t *testing.T) {
	s := newSeenTitles()
	assert.True(t, s.add("Data Intern"))
	assert.False(t, s.add("Data Intern"))
	assert.True(t, s.add("data intern"))
	assert.Equal(t, 2, s.len())
}
