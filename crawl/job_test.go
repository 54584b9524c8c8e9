package crawl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		domains []string
		want    bool
	}{
		{
			name:    "empty allow-set allows everything",
			url:     "https://anything.example.com/page",
			domains: nil,
			want:    true,
		},
		{
			name:    "exact host match",
			url:     "https://example.com/page",
			domains: []string{"example.com"},
			want:    true,
		},
		{
			name:    "subdomain match",
			url:     "https://docs.example.com/page",
			domains: []string{"example.com"},
			want:    true,
		},
		{
			name:    "suffix without dot boundary rejected",
			url:     "https://notexample.com/page",
			domains: []string{"example.com"},
			want:    false,
		},
		{
			name:    "different domain rejected",
			url:     "https://other.org/page",
			domains: []string{"example.com"},
			want:    false,
		},
		{
			name:    "case insensitive host",
			url:     "https://Docs.Example.COM/page",
			domains: []string{"example.com"},
			want:    true,
		},
		{
			name:    "second allow entry matches",
			url:     "https://other.org/page",
			domains: []string{"example.com", "other.org"},
			want:    true,
		},
		{
			name:    "invalid url rejected",
			url:     "://bad",
			domains: []string{"example.com"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.url, tt.domains))
		})
	}
}

func TestJob_PathGlobs(t *testing.T) {
	job := Job{
		AllowedDomains: []string{"example.com"},
		IncludePaths:   []string{"/docs/**"},
		ExcludePaths:   []string{"/docs/archive/**"},
	}

	assert.True(t, job.admit("https://example.com/docs/guide"))
	assert.True(t, job.admit("https://example.com/docs/api/v2"))
	assert.False(t, job.admit("https://example.com/blog/post"), "outside include globs")
	assert.False(t, job.admit("https://example.com/docs/archive/2019"), "exclude wins")
}

func TestJob_ExcludeOnly(t *testing.T) {
	job := Job{ExcludePaths: []string{"/private/**"}}

	assert.True(t, job.admit("https://example.com/public"))
	assert.False(t, job.admit("https://example.com/private/secret"))
}

func TestJob_NoGlobsAdmitsAll(t *testing.T) {
	job := Job{}
	assert.True(t, job.admit("https://anywhere.net/x"))
}
