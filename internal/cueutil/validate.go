// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

// Validate unifies data with the definition at path in schema and validates
// the result. The unified value is returned so callers can decode it.
func Validate(schema []byte, path string, data []byte, opts ...Option) (cue.Value, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}
	def := schemaValue.LookupPath(cue.ParsePath(path))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", path, def.Err())
	}

	doc, err := compile(ctx, data, o)
	if err != nil {
		return cue.Value{}, err
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}
	return unified, nil
}

// DecodeMap validates data like Validate and decodes the result into a
// generic map, the shape viper merges.
func DecodeMap(schema []byte, path string, data []byte, opts ...Option) (map[string]any, error) {
	unified, err := Validate(schema, path, data, opts...)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var out map[string]any
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return out, nil
}

func compile(ctx *cue.Context, data []byte, o options) (cue.Value, error) {
	switch o.encoding {
	case EncodingJSON:
		expr, err := cuejson.Extract(o.filename, data)
		if err != nil {
			return cue.Value{}, FormatError(err, o.filename)
		}
		v := ctx.BuildExpr(expr)
		if v.Err() != nil {
			return cue.Value{}, FormatError(v.Err(), o.filename)
		}
		return v, nil
	default:
		v := ctx.CompileBytes(data, cue.Filename(o.filename))
		if v.Err() != nil {
			return cue.Value{}, FormatError(v.Err(), o.filename)
		}
		return v, nil
	}
}
