package artifact

import (
	"encoding"
	"encoding/gob"
	"io"
	"reflect"
	"sort"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Codec serializes a whole artifact map.
type Codec interface {
	Encode(wrt io.Writer, values map[string]any) error
	Decode(rdr io.Reader) (map[string]any, error)
}

// ErrUnexportedState is returned by GobCodec when an artifact keeps state gob cannot see.
var ErrUnexportedState = errors.New("artifact has unexported fields and no gob encoder")

// Register records the concrete type of value so GobCodec can restore it.
// Every type stored as an artifact must be registered before Save and Load,
// except gob's builtin basic types.
//
// gob only sees exported fields. A type keeping fitted state in unexported fields
// must implement gob.GobEncoder/gob.GobDecoder or encoding.BinaryMarshaler/BinaryUnmarshaler.
func Register(value any) {
	gob.Register(value)
}

// GobCodec encodes artifacts with encoding/gob.
// Encode fails with ErrUnexportedState instead of silently dropping unexported fields.
type GobCodec struct{}

// Encode implements Codec.
func (GobCodec) Encode(wrt io.Writer, values map[string]any) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		err := checkEncodable(reflect.TypeOf(values[key]), make(map[reflect.Type]struct{}))
		if err != nil {
			return errors.Wrapf(err, "artifact %q", key)
		}
	}

	err := gob.NewEncoder(wrt).Encode(values)
	if err != nil {
		return errors.Wrap(err, "unable to gob encode")
	}

	return nil
}

// Decode implements Codec.
func (GobCodec) Decode(rdr io.Reader) (map[string]any, error) {
	values := make(map[string]any)

	err := gob.NewDecoder(rdr).Decode(&values)
	if err != nil {
		return nil, errors.Wrap(err, "unable to gob decode")
	}

	return values, nil
}

var (
	gobEncoderType    = reflect.TypeOf((*gob.GobEncoder)(nil)).Elem()
	binaryMarshalType = reflect.TypeOf((*encoding.BinaryMarshaler)(nil)).Elem()
	textMarshalType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

func encodesItself(typ reflect.Type) bool {
	for _, iface := range []reflect.Type{gobEncoderType, binaryMarshalType, textMarshalType} {
		if typ.Implements(iface) || reflect.PointerTo(typ).Implements(iface) {
			return true
		}
	}

	return false
}

// checkEncodable walks typ the way gob does and reports the first unexported field of a
// struct that does not encode itself. Interface fields are checked by gob at run time.
func checkEncodable(typ reflect.Type, seen map[reflect.Type]struct{}) error {
	if typ == nil {
		return nil
	}

	if _, ok := seen[typ]; ok {
		return nil
	}

	seen[typ] = struct{}{}

	if encodesItself(typ) {
		return nil
	}

	switch typ.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return checkEncodable(typ.Elem(), seen)
	case reflect.Map:
		err := checkEncodable(typ.Key(), seen)
		if err != nil {
			return err
		}

		return checkEncodable(typ.Elem(), seen)
	case reflect.Struct:
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				return errors.Wrapf(ErrUnexportedState, "%s.%s", typ, field.Name)
			}

			err := checkEncodable(field.Type, seen)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// ZstdCodec compresses the output of another codec with zstd.
type ZstdCodec struct {
	// Codec is the wrapped codec, GobCodec when nil.
	Codec Codec
}

func (c ZstdCodec) inner() Codec {
	if c.Codec == nil {
		return GobCodec{}
	}

	return c.Codec
}

// Encode implements Codec.
func (c ZstdCodec) Encode(wrt io.Writer, values map[string]any) error {
	enc, err := zstd.NewWriter(wrt)
	if err != nil {
		return errors.Wrap(err, "unable to create zstd writer")
	}

	err = c.inner().Encode(enc, values)
	if err != nil {
		_ = enc.Close()

		return err
	}

	err = enc.Close()
	if err != nil {
		return errors.Wrap(err, "unable to flush zstd writer")
	}

	return nil
}

// Decode implements Codec.
func (c ZstdCodec) Decode(rdr io.Reader) (map[string]any, error) {
	dec, err := zstd.NewReader(rdr)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create zstd reader")
	}
	defer dec.Close()

	return c.inner().Decode(dec)
}

var (
	_ Codec = GobCodec{}
	_ Codec = ZstdCodec{}
)
