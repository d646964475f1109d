// Package seed caches fakers and seeders by codename so callers that ask for
// the same locale share one generator.
package seed

import (
	"log/slog"
	"sync"
	"time"

	"modelseed/internal/entity"
	"modelseed/internal/faker"
	"modelseed/internal/seeder"
	"modelseed/internal/store"
)

// Registry hands out one Faker and one Seeder per codename.
type Registry struct {
	store        store.Store
	languageCode string
	fakerSeed    int64
	location     *time.Location
	logger       *slog.Logger
	parser       *entity.Parser

	mu      sync.Mutex
	fakers  map[string]*faker.Faker
	seeders map[string]*seeder.Seeder
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLanguageCode sets the locale used when a caller names none.
func WithLanguageCode(code string) RegistryOption {
	return func(r *Registry) { r.languageCode = code }
}

// WithFakerSeed seeds every faker the registry creates.
func WithFakerSeed(seed int64) RegistryOption {
	return func(r *Registry) { r.fakerSeed = seed }
}

// WithLocation sets the zone generated datetimes use.
func WithLocation(loc *time.Location) RegistryOption {
	return func(r *Registry) { r.location = loc }
}

// WithLogger sets the logger passed to seeders.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// WithParser sets the parser passed to seeders.
func WithParser(p *entity.Parser) RegistryOption {
	return func(r *Registry) { r.parser = p }
}

// NewRegistry returns an empty registry whose seeders write to st.
func NewRegistry(st store.Store, opts ...RegistryOption) *Registry {
	r := &Registry{
		store:   st,
		fakers:  map[string]*faker.Faker{},
		seeders: map[string]*seeder.Seeder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type fakerOptions struct {
	codename string
	locale   string
}

// FakerOption selects which faker Faker returns.
type FakerOption func(*fakerOptions)

// WithCodename looks the faker up under an explicit name.
func WithCodename(name string) FakerOption {
	return func(o *fakerOptions) { o.codename = name }
}

// WithLocale builds the faker for locale, cached under the locale.
func WithLocale(locale string) FakerOption {
	return func(o *fakerOptions) { o.locale = locale }
}

// Codename resolves the cache key for locale: the locale itself, then the
// configured language code, then faker.DefaultCodename.
func (r *Registry) Codename(locale string) string {
	if locale == "" {
		locale = r.languageCode
	}
	if locale == "" {
		return faker.DefaultCodename
	}
	return locale
}

// Faker returns the cached faker for the options, creating it on first use.
func (r *Registry) Faker(opts ...FakerOption) (*faker.Faker, error) {
	var o fakerOptions
	for _, opt := range opts {
		opt(&o)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fakerLocked(o)
}

func (r *Registry) fakerLocked(o fakerOptions) (*faker.Faker, error) {
	code := o.codename
	if code == "" {
		code = r.Codename(o.locale)
	}
	if f, ok := r.fakers[code]; ok {
		return f, nil
	}

	locale := o.locale
	if locale == "" && o.codename == "" {
		locale = r.languageCode
	}
	f, err := faker.New(faker.Options{
		Codename: code,
		Locale:   locale,
		Seed:     r.fakerSeed,
		Location: r.location,
	})
	if err != nil {
		return nil, err
	}
	r.fakers[code] = f
	return f, nil
}

// Seeder returns the cached seeder for locale. It draws from the faker cached
// under the same codename.
func (r *Registry) Seeder(locale string) (*seeder.Seeder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := r.Codename(locale)
	if s, ok := r.seeders[code]; ok {
		return s, nil
	}

	f, ok := r.fakers[code]
	if !ok {
		var err error
		f, err = r.fakerLocked(fakerOptions{locale: locale})
		if err != nil {
			return nil, err
		}
	}

	var opts []seeder.Option
	if r.logger != nil {
		opts = append(opts, seeder.WithLogger(r.logger))
	}
	if r.parser != nil {
		opts = append(opts, seeder.WithParser(r.parser))
	}
	s := seeder.New(r.store, f, opts...)
	r.seeders[code] = s
	return s, nil
}
