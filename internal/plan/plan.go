// Package plan reads seeding plans from YAML and queues them on a seeder.
//
// A plan names an app and, per model, how many instances to create and which
// fields to pin:
//
//	app: games
//	locale: it_IT
//	entities:
//	  - model: Game
//	    count: 5
//	    overrides:
//	      title: Pong
//	      created_at: 1957-03-06T13:13:00Z
//	  - model: Player
//	    count: 10
//	    overrides:
//	      game_id: ref:Game
//
// A "ref:<Model>" value picks a random key already inserted for that model;
// it is an error when the model is not part of the app, and a seeding error
// when the field is required and no instance of the model was inserted.
package plan

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"modelseed/internal/apps"
	"modelseed/internal/entity"
	"modelseed/internal/seeder"
)

// Plan errors.
var (
	ErrInvalidPlan  = errors.New("plan: invalid plan")
	ErrUnknownModel = errors.New("plan: unknown model")
)

const refPrefix = "ref:"

// Plan is one seeding run.
type Plan struct {
	App      string  `yaml:"app"`
	Locale   string  `yaml:"locale,omitempty"`
	Entities []Entry `yaml:"entities"`
}

// Entry asks for Count instances of Model.
type Entry struct {
	Model     string         `yaml:"model"`
	Count     int            `yaml:"count"`
	Overrides map[string]any `yaml:"overrides,omitempty"`
}

// Load reads and validates the plan at path.
func Load(path string) (*Plan, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fail to read plan file: %w", err)
	}
	return Parse(buf)
}

// Parse decodes and validates a YAML plan.
func Parse(buf []byte) (*Plan, error) {
	p := new(Plan)
	if err := yaml.Unmarshal(buf, p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the plan's shape. Field names are checked when it runs.
func (p *Plan) Validate() error {
	if p.App == "" {
		return fmt.Errorf("%w: app is required", ErrInvalidPlan)
	}
	if len(p.Entities) == 0 {
		return fmt.Errorf("%w: no entities", ErrInvalidPlan)
	}
	for i, e := range p.Entities {
		if e.Model == "" {
			return fmt.Errorf("%w: entities[%d]: model is required", ErrInvalidPlan, i)
		}
		if e.Count < 0 {
			return fmt.Errorf("%w: entities[%d]: count must not be negative", ErrInvalidPlan, i)
		}
	}
	return nil
}

// Queue adds every entry of p to s. Models are looked up in app by type
// name or table name.
func (p *Plan) Queue(s *seeder.Seeder, app apps.App, parser *entity.Parser) error {
	if parser == nil {
		parser = entity.NewParser(nil)
	}
	descs := make([]*entity.Descriptor, 0, len(app.Models))
	for _, model := range app.Models {
		d, err := parser.Parse(model)
		if err != nil {
			return err
		}
		descs = append(descs, d)
	}

	for _, e := range p.Entities {
		d := find(descs, e.Model)
		if d == nil {
			return fmt.Errorf("%w: %s in app %s", ErrUnknownModel, e.Model, app.Name)
		}
		overrides := seeder.Overrides{}
		for name, raw := range e.Overrides {
			f, ok := d.Lookup(name)
			if !ok {
				// left to the seeder, which reports unknown fields
				overrides[name] = seeder.Value(raw)
				continue
			}
			fn, err := formatter(descs, f, raw)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", d.Name, name, err)
			}
			overrides[name] = fn
		}
		s.AddEntity(d, e.Count, overrides)
	}
	return nil
}

// Apply queues p on s and executes it.
func (p *Plan) Apply(ctx context.Context, s *seeder.Seeder, app apps.App, parser *entity.Parser) (seeder.Inserted, error) {
	if err := p.Queue(s, app, parser); err != nil {
		return nil, err
	}
	return s.Execute(ctx)
}

func find(descs []*entity.Descriptor, name string) *entity.Descriptor {
	for _, d := range descs {
		if strings.EqualFold(d.Name, name) || d.Table == name {
			return d
		}
	}
	return nil
}

func formatter(descs []*entity.Descriptor, f *entity.Field, raw any) (seeder.Formatter, error) {
	if ref, ok := raw.(string); ok && strings.HasPrefix(ref, refPrefix) {
		name := strings.TrimSpace(strings.TrimPrefix(ref, refPrefix))
		target := find(descs, name)
		if target == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
		}
		return seeder.Ref(target.Name), nil
	}
	v, err := convert(f, raw)
	if err != nil {
		return nil, err
	}
	return seeder.Value(v), nil
}

// convert turns a decoded YAML scalar into the value f expects.
func convert(f *entity.Field, raw any) (any, error) {
	s, isString := raw.(string)
	switch f.Kind {
	case entity.KindDateTime, entity.KindDate:
		if t, ok := raw.(time.Time); ok {
			return t, nil
		}
		if isString && !isStringType(f) {
			for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
				if t, err := time.Parse(layout, s); err == nil {
					return t, nil
				}
			}
			return nil, fmt.Errorf("cannot parse %q as a date", s)
		}
	case entity.KindDuration:
		if isString {
			d, err := time.ParseDuration(s)
			if err != nil {
				return nil, err
			}
			return d, nil
		}
	case entity.KindUUID:
		if isString && !isStringType(f) {
			id, err := uuid.Parse(s)
			if err != nil {
				return nil, err
			}
			return id, nil
		}
	case entity.KindBinary:
		if isString {
			return []byte(s), nil
		}
	case entity.KindSmallInt, entity.KindInt, entity.KindBigInt, entity.KindUint:
		if n, ok := raw.(float64); ok && n != math.Trunc(n) {
			return nil, fmt.Errorf("cannot use %v as an integer", n)
		}
	}
	return raw, nil
}

func isStringType(f *entity.Field) bool {
	t := f.GoType
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t != nil && t.Kind() == reflect.String
}
