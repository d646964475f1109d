package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"modelseed/internal/entity"
	"modelseed/internal/observability"
)

// GormStore errors.
var (
	ErrNoModel         = errors.New("store: descriptor has no model")
	ErrLossyConversion = errors.New("store: conversion loses information")
)

// GormStore persists instances of gorm models.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store writing through db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Transaction runs fn inside a gorm transaction.
func (s *GormStore) Transaction(ctx context.Context, fn func(w Writer) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormWriter{tx: tx})
	})
}

type gormWriter struct {
	tx *gorm.DB
}

func (w *gormWriter) Insert(ctx context.Context, d *entity.Descriptor, row entity.Row) (any, error) {
	if d.Model == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoModel, d.Name)
	}
	defer observability.TrackInsert("gorm", d.Name)()

	modelType := reflect.TypeOf(d.Model)
	for modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}
	instance := reflect.New(modelType)

	for name, value := range row {
		if err := assign(instance.Elem(), name, value); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", d.Name, name, err)
		}
	}

	if err := w.tx.WithContext(ctx).Omit(clause.Associations).Create(instance.Interface()).Error; err != nil {
		return nil, fmt.Errorf("insert %s: %w", d.Name, err)
	}

	pk, ok := d.PrimaryKey()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoPrimaryKey, d.Name)
	}
	return instance.Elem().FieldByName(pk.Name).Interface(), nil
}

// assign sets the struct field name of v to value, converting between
// compatible types and allocating pointer fields.
func assign(v reflect.Value, name string, value any) error {
	field := v.FieldByName(name)
	if !field.IsValid() || !field.CanSet() {
		return fmt.Errorf("no settable field %q", name)
	}
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	rv := reflect.ValueOf(value)
	target := field.Type()
	if target.Kind() == reflect.Ptr && rv.Kind() != reflect.Ptr {
		elem := reflect.New(target.Elem())
		if err := setValue(elem.Elem(), rv); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}
	return setValue(field, rv)
}

func setValue(dst, src reflect.Value) error {
	switch {
	case src.Type().AssignableTo(dst.Type()):
		dst.Set(src)
	case src.Type().ConvertibleTo(dst.Type()) && convertible(src.Kind(), dst.Kind()):
		if err := lossless(src, dst.Type()); err != nil {
			return err
		}
		dst.Set(src.Convert(dst.Type()))
	default:
		return fmt.Errorf("cannot use %s as %s", src.Type(), dst.Type())
	}
	return nil
}

// convertible rejects the conversions reflect allows but that change meaning,
// such as int to string.
func convertible(from, to reflect.Kind) bool {
	numeric := func(k reflect.Kind) bool {
		return k >= reflect.Int && k <= reflect.Float64
	}
	if to == reflect.String {
		return from == reflect.String || from == reflect.Slice
	}
	if numeric(to) {
		return numeric(from)
	}
	return true
}

// lossless rejects numeric conversions that would truncate or overflow.
func lossless(src reflect.Value, to reflect.Type) error {
	var ok bool
	switch k := to.Kind(); {
	case src.CanFloat() && k >= reflect.Int && k <= reflect.Int64:
		f := src.Float()
		ok = f == math.Trunc(f) && !reflect.Zero(to).OverflowInt(int64(f))
	case src.CanFloat() && k >= reflect.Uint && k <= reflect.Uintptr:
		f := src.Float()
		ok = f == math.Trunc(f) && f >= 0 && !reflect.Zero(to).OverflowUint(uint64(f))
	case src.CanInt() && k >= reflect.Int && k <= reflect.Int64:
		ok = !reflect.Zero(to).OverflowInt(src.Int())
	case src.CanInt() && k >= reflect.Uint && k <= reflect.Uintptr:
		ok = src.Int() >= 0 && !reflect.Zero(to).OverflowUint(uint64(src.Int()))
	case src.CanUint() && k >= reflect.Int && k <= reflect.Int64:
		ok = src.Uint() <= math.MaxInt64 && !reflect.Zero(to).OverflowInt(int64(src.Uint()))
	case src.CanUint() && k >= reflect.Uint && k <= reflect.Uintptr:
		ok = !reflect.Zero(to).OverflowUint(src.Uint())
	default:
		return nil
	}
	if !ok {
		return fmt.Errorf("%w: %v to %s", ErrLossyConversion, src.Interface(), to)
	}
	return nil
}
