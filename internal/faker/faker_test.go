package faker

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNew_Codename(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		codename string
	}{
		{"no locale", Options{}, DefaultCodename},
		{"underscore locale", Options{Locale: "it_IT"}, "it-IT"},
		{"lower case locale", Options{Locale: "en-us"}, "en-US"},
		{"explicit codename wins", Options{Codename: "fixtures", Locale: "it_IT"}, "fixtures"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.codename, f.Codename())
		})
	}
}

func TestNew_InvalidLocale(t *testing.T) {
	_, err := New(Options{Locale: "not a locale!"})
	assert.Error(t, err)
}

func TestParseLocale(t *testing.T) {
	tag, err := ParseLocale("it_IT")
	require.NoError(t, err)
	assert.Equal(t, language.MustParse("it-IT"), tag)
}

func TestFaker_SeedIsReproducible(t *testing.T) {
	a, err := New(Options{Seed: 42})
	require.NoError(t, err)
	b, err := New(Options{Seed: 42})
	require.NoError(t, err)

	assert.Equal(t, a.Name(), b.Name())
	assert.Equal(t, a.Slug(), b.Slug())
}

func TestFaker_DateTimeUsesLocation(t *testing.T) {
	zone := time.FixedZone("UTC+3", 3*60*60)
	f, err := New(Options{Location: zone})
	require.NoError(t, err)

	dt := f.DateTime()
	assert.Equal(t, zone, dt.Location())
	assert.False(t, dt.After(time.Now()))
}

func TestFaker_Formats(t *testing.T) {
	f, err := New(Options{Seed: 7})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[a-z]+-[a-z]+-[a-z]+$`), f.Slug())
	assert.Regexp(t, regexp.MustCompile(`^/[a-z]+/[a-z]+\.\w+$`), f.FilePath())
	assert.Regexp(t, regexp.MustCompile(`^\d+(,\d+){0,4}$`), f.CommaSeparatedInts())
}
