// Package faker wraps gofakeit with the locale and time zone a seeding run
// was configured for.
package faker

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/text/language"
)

// DefaultCodename names a faker built without a locale.
const DefaultCodename = "default"

// Options configures a Faker.
type Options struct {
	Codename string
	// Locale is a BCP 47 tag; underscores are accepted ("it_IT").
	Locale string
	// Seed makes output reproducible. Zero picks a random seed.
	Seed int64
	// Location is the zone generated datetimes are expressed in. Nil is UTC.
	Location *time.Location
}

// Faker is a gofakeit generator labelled with its codename and locale.
type Faker struct {
	*gofakeit.Faker

	codename string
	locale   language.Tag
	location *time.Location
}

// New builds a Faker. An unparsable locale is an error.
func New(opts Options) (*Faker, error) {
	tag := language.Und
	if opts.Locale != "" {
		var err error
		tag, err = ParseLocale(opts.Locale)
		if err != nil {
			return nil, err
		}
	}

	codename := opts.Codename
	if codename == "" {
		codename = DefaultCodename
		if tag != language.Und {
			codename = tag.String()
		}
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	return &Faker{
		Faker:    gofakeit.New(opts.Seed),
		codename: codename,
		locale:   tag,
		location: loc,
	}, nil
}

// ParseLocale canonicalizes a locale such as "it_IT" or "en-us".
func ParseLocale(s string) (language.Tag, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("faker: invalid locale %q: %w", s, err)
	}
	return tag, nil
}

// Codename is the key the faker was created under.
func (f *Faker) Codename() string { return f.codename }

// Locale is the canonical locale, language.Und when none was given.
func (f *Faker) Locale() language.Tag { return f.locale }

// Location is the zone generated datetimes use.
func (f *Faker) Location() *time.Location { return f.location }

// Intn returns a value in [0, n). n must be positive.
func (f *Faker) Intn(n int) int {
	return f.Rand.Intn(n)
}

// Int63n returns a value in [0, n). n must be positive.
func (f *Faker) Int63n(n int64) int64 {
	return f.Rand.Int63n(n)
}

// DateTime returns a random instant between the Unix epoch and now, in the
// faker's location.
func (f *Faker) DateTime() time.Time {
	return f.DateRange(time.Unix(0, 0), time.Now()).In(f.location)
}

// Slug returns a few lower case words joined by dashes.
func (f *Faker) Slug() string {
	words := make([]string, 3)
	for i := range words {
		words[i] = f.LoremIpsumWord()
	}
	return strings.Join(words, "-")
}

// FilePath returns an absolute unix path with a file extension.
func (f *Faker) FilePath() string {
	return fmt.Sprintf("/%s/%s.%s", f.LoremIpsumWord(), f.LoremIpsumWord(), f.FileExtension())
}

// CommaSeparatedInts returns between one and five small integers joined by commas.
func (f *Faker) CommaSeparatedInts() string {
	n := 1 + f.Intn(5)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("%d", f.Number(0, 100))
	}
	return strings.Join(parts, ",")
}
