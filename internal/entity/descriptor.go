// Package entity describes persistent models as explicit field tables that
// the seeder can work from without reflecting over the model itself.
package entity

import "reflect"

// Kind is the semantic type of a field, finer than its Go type.
type Kind string

// Field kinds understood by the guesser.
const (
	KindUnknown  Kind = "unknown"
	KindBool     Kind = "bool"
	KindSmallInt Kind = "smallint"
	KindInt      Kind = "int"
	KindBigInt   Kind = "bigint"
	KindUint     Kind = "uint"
	KindFloat    Kind = "float"
	KindString   Kind = "string"
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindURL      Kind = "url"
	KindSlug     Kind = "slug"
	KindIP       Kind = "ip"
	KindFilePath Kind = "filepath"
	KindCSI      Kind = "csi"
	KindUUID     Kind = "uuid"
	KindDate     Kind = "date"
	KindDateTime Kind = "datetime"
	KindTime     Kind = "time"
	KindDuration Kind = "duration"
	KindBinary   Kind = "binary"
)

// Textual reports whether values of k are strings a name guess may replace.
func (k Kind) Textual() bool {
	switch k {
	case KindString, KindText, KindEmail, KindURL, KindSlug:
		return true
	}
	return false
}

// Relation points a foreign key field at the entity it references.
type Relation struct {
	Entity string
	Field  string
}

// Field is one persisted column of an entity.
type Field struct {
	Name   string
	Column string
	Kind   Kind
	// GoType is the declared Go type, nil for hand written descriptors.
	GoType reflect.Type

	Nullable      bool
	Unique        bool
	PrimaryKey    bool
	AutoIncrement bool
	HasDefault    bool
	AutoNow       bool
	AutoNowAdd    bool
	MaxLength     int
	Choices       []string
	Relation      *Relation
}

// Descriptor is the field table of one entity.
type Descriptor struct {
	Name  string
	Table string
	// Model is a pointer prototype of the entity, used by stores that
	// persist through the ORM. Nil when the descriptor is hand written.
	Model  any
	Fields []Field
}

// Lookup finds a field by Go name or column name.
func (d *Descriptor) Lookup(name string) (*Field, bool) {
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Name == name || f.Column == name {
			return f, true
		}
	}
	return nil, false
}

// PrimaryKey returns the first primary key field.
func (d *Descriptor) PrimaryKey() (*Field, bool) {
	for i := range d.Fields {
		if d.Fields[i].PrimaryKey {
			return &d.Fields[i], true
		}
	}
	return nil, false
}

// Dependencies lists the distinct entities referenced by d's foreign keys,
// in field order.
func (d *Descriptor) Dependencies() []string {
	var deps []string
	seen := map[string]bool{}
	for _, f := range d.Fields {
		if f.Relation == nil || seen[f.Relation.Entity] {
			continue
		}
		seen[f.Relation.Entity] = true
		deps = append(deps, f.Relation.Entity)
	}
	return deps
}

// Row holds the values of one instance keyed by Go field name.
type Row map[string]any
