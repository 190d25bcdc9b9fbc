package autowire

import (
	"fmt"
	"reflect"
	"runtime/debug"
)

// Resolver supplies values to the Wirer during construction and invocation.
// Implemented by the container.
type Resolver interface {
	// ResolveKey resolves a value by definition key.
	ResolveKey(key string) (any, error)

	// ResolveType resolves a value by declared type. The second result
	// reports whether the type is known to the resolver at all; an error is
	// returned only when the type is known but its evaluation failed.
	ResolveType(t reflect.Type) (any, bool, error)
}

// Wirer constructs fresh struct instances and invokes callables, filling
// dependencies from a Resolver with extras as overrides.
type Wirer struct {
	analyzer *Analyzer
}

// NewWirer creates a Wirer with its own analysis cache.
func NewWirer() *Wirer {
	return &Wirer{analyzer: New()}
}

// Construct builds a fresh instance of t. For a pointer-to-struct template a
// pointer is returned; for a struct template, a value.
//
// Each injectable field is filled from the first of: a named override in an
// extras map keyed by field name, a positional extra of assignable type
// (consumed at most once), the resolver by inject tag key, or the resolver
// by declared type. Non-optional fields that stay unfilled fail the whole
// construction.
func (w *Wirer) Construct(t reflect.Type, extras []any, r Resolver) (any, error) {
	if t == nil {
		return nil, ErrNilType
	}

	wantPointer := t.Kind() == reflect.Pointer

	info, err := w.analyzer.AnalyzeStruct(t)
	if err != nil {
		return nil, err
	}

	named, positional := splitExtras(extras)

	ptr := reflect.New(info.Type)
	elem := ptr.Elem()

	for _, field := range info.Fields {
		target := elem.Field(field.Index)

		if override, ok := named[field.Name]; ok {
			if override == nil {
				continue // explicit nil override leaves the zero value
			}
			ov := reflect.ValueOf(override)
			if !ov.Type().AssignableTo(field.Type) {
				return nil, FieldTypeError{Target: info.Type, Field: field.Name, Want: field.Type, Got: ov.Type()}
			}
			target.Set(ov)
			continue
		}

		if v, ok := takePositional(positional, field.Type); ok {
			target.Set(reflect.ValueOf(v))
			continue
		}

		if field.Key != "" {
			v, err := r.ResolveKey(field.Key)
			if err != nil {
				if field.Optional {
					continue
				}
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
			if err := assign(target, v); err != nil {
				return nil, FieldTypeError{Target: info.Type, Field: field.Name, Want: field.Type, Got: reflect.TypeOf(v)}
			}
			continue
		}

		v, found, err := r.ResolveType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		if found {
			if err := assign(target, v); err != nil {
				return nil, FieldTypeError{Target: info.Type, Field: field.Name, Want: field.Type, Got: reflect.TypeOf(v)}
			}
			continue
		}

		if !field.Optional {
			return nil, UnsatisfiedFieldError{Target: info.Type, Field: field.Name, Type: field.Type}
		}
	}

	if wantPointer {
		return ptr.Interface(), nil
	}
	return elem.Interface(), nil
}

// Invoke calls fn with each parameter resolved by declared type from the
// resolver, falling back to positional extras of assignable type. Functions
// have no field names to override, so every extra is a positional candidate
// here, maps included. Panics raised by fn are converted to a PanicError.
func (w *Wirer) Invoke(fn any, extras []any, r Resolver) (any, error) {
	info, err := w.analyzer.AnalyzeFunc(fn)
	if err != nil {
		return nil, err
	}

	positional := make([]*positionalExtra, len(extras))
	for i, extra := range extras {
		positional[i] = &positionalExtra{value: extra}
	}

	args := make([]reflect.Value, len(info.Parameters))
	for _, param := range info.Parameters {
		v, found, err := r.ResolveType(param.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", param.Index, err)
		}
		if found {
			arg := reflect.New(param.Type).Elem()
			if err := assign(arg, v); err != nil {
				return nil, fmt.Errorf("parameter %d: resolved value %T is not assignable to %s", param.Index, v, param.Type)
			}
			args[param.Index] = arg
			continue
		}

		if v, ok := takePositional(positional, param.Type); ok {
			arg := reflect.New(param.Type).Elem()
			arg.Set(reflect.ValueOf(v))
			args[param.Index] = arg
			continue
		}

		return nil, UnsatisfiedParameterError{Fn: info.Type, Index: param.Index, Type: param.Type}
	}

	results, err := call(info, args)
	if err != nil {
		return nil, err
	}

	if info.HasErrorReturn {
		last := results[len(results)-1]
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}
		results = results[:len(results)-1]
	}

	if len(results) == 0 {
		return nil, nil
	}
	return results[0].Interface(), nil
}

// call invokes the reflected function, converting panics into PanicError.
func call(info *FuncInfo, args []reflect.Value) (results []reflect.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = PanicError{Fn: info.Type, Value: rec, Stack: debug.Stack()}
		}
	}()
	return info.Value.Call(args), nil
}

// assign sets target from v, tolerating nil values for nilable kinds.
func assign(target reflect.Value, v any) error {
	if v == nil {
		switch target.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			target.Set(reflect.Zero(target.Type()))
			return nil
		default:
			return fmt.Errorf("cannot assign nil to %s", target.Type())
		}
	}

	vv := reflect.ValueOf(v)
	if !vv.Type().AssignableTo(target.Type()) {
		return fmt.Errorf("%s is not assignable to %s", vv.Type(), target.Type())
	}
	target.Set(vv)
	return nil
}

// splitExtras separates named overrides (map[string]any extras, merged) from
// positional extras.
func splitExtras(extras []any) (map[string]any, []*positionalExtra) {
	var named map[string]any
	var positional []*positionalExtra

	for _, extra := range extras {
		if m, ok := extra.(map[string]any); ok {
			if named == nil {
				named = make(map[string]any, len(m))
			}
			for k, v := range m {
				named[k] = v
			}
			continue
		}
		positional = append(positional, &positionalExtra{value: extra})
	}

	return named, positional
}

type positionalExtra struct {
	value    any
	consumed bool
}

// takePositional returns the first unconsumed extra assignable to want and
// marks it consumed, so two fields of the same type take distinct extras.
func takePositional(extras []*positionalExtra, want reflect.Type) (any, bool) {
	for _, extra := range extras {
		if extra.consumed || extra.value == nil {
			continue
		}
		if reflect.TypeOf(extra.value).AssignableTo(want) {
			extra.consumed = true
			return extra.value, true
		}
	}
	return nil, false
}
