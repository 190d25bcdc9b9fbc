// Package autowire provides the reflection facility behind the container's
// Make and Call operations: cached analysis of struct templates and
// callables, plus construction and invocation against a Resolver.
package autowire

import (
	"fmt"
	"reflect"
	"sync"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Analyzer performs reflection-based analysis of struct templates and
// callables. Analysis results are cached; the cache key for callables is the
// function pointer, for structs the type itself.
type Analyzer struct {
	mu      sync.RWMutex
	funcs   map[uintptr]*FuncInfo
	structs map[reflect.Type]*StructInfo
}

// FuncInfo contains analyzed information about a callable.
type FuncInfo struct {
	Type           reflect.Type
	Value          reflect.Value
	Parameters     []Parameter
	HasErrorReturn bool // last return implements error
	NumResults     int  // non-error results
}

// Parameter describes one callable parameter.
type Parameter struct {
	Type  reflect.Type
	Index int
}

// StructInfo contains analyzed information about an auto-wirable struct.
type StructInfo struct {
	Type   reflect.Type // struct type, pointers already dereferenced
	Fields []Field
}

// Field describes one injectable struct field.
type Field struct {
	Name     string
	Type     reflect.Type
	Index    int
	Key      string // from inject:"key" tag
	Optional bool   // from optional:"true" tag
}

// New creates a new Analyzer.
func New() *Analyzer {
	return &Analyzer{
		funcs:   make(map[uintptr]*FuncInfo),
		structs: make(map[reflect.Type]*StructInfo),
	}
}

// AnalyzeFunc analyzes a callable and extracts parameter and return
// information.
func (a *Analyzer) AnalyzeFunc(fn any) (*FuncInfo, error) {
	if fn == nil {
		return nil, ErrNilFunction
	}

	val := reflect.ValueOf(fn)
	if !val.IsValid() || (val.Kind() == reflect.Func && val.IsNil()) {
		return nil, ErrNilFunction
	}

	typ := val.Type()
	if typ.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w, got %s", ErrNotFunction, typ)
	}

	key := val.Pointer()

	a.mu.RLock()
	if cached, ok := a.funcs[key]; ok {
		a.mu.RUnlock()
		return cached, nil
	}
	a.mu.RUnlock()

	info := &FuncInfo{Type: typ, Value: val}

	info.Parameters = make([]Parameter, typ.NumIn())
	for i := 0; i < typ.NumIn(); i++ {
		info.Parameters[i] = Parameter{Type: typ.In(i), Index: i}
	}

	numOut := typ.NumOut()
	if numOut > 2 {
		return nil, fmt.Errorf("callable %s has %d return values; at most a result and an error are supported", typ, numOut)
	}
	if numOut > 0 && typ.Out(numOut-1).Implements(errType) {
		info.HasErrorReturn = true
	}
	info.NumResults = numOut
	if info.HasErrorReturn {
		info.NumResults--
	}
	if info.NumResults > 1 {
		return nil, fmt.Errorf("callable %s returns more than one non-error value", typ)
	}

	a.mu.Lock()
	a.funcs[key] = info
	a.mu.Unlock()

	return info, nil
}

// AnalyzeStruct analyzes a struct type's exported fields. Pointer types are
// dereferenced first. Fields tagged inject:"-" are skipped.
func (a *Analyzer) AnalyzeStruct(t reflect.Type) (*StructInfo, error) {
	if t == nil {
		return nil, ErrNilType
	}

	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotConstructible, t)
	}

	a.mu.RLock()
	if cached, ok := a.structs[t]; ok {
		a.mu.RUnlock()
		return cached, nil
	}
	a.mu.RUnlock()

	info := &StructInfo{Type: t}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		key, ok := field.Tag.Lookup("inject")
		if ok && key == "-" {
			continue
		}

		info.Fields = append(info.Fields, Field{
			Name:     field.Name,
			Type:     field.Type,
			Index:    i,
			Key:      key,
			Optional: field.Tag.Get("optional") == "true",
		})
	}

	a.mu.Lock()
	a.structs[t] = info
	a.mu.Unlock()

	return info, nil
}

// Clear clears the analysis caches.
func (a *Analyzer) Clear() {
	a.mu.Lock()
	a.funcs = make(map[uintptr]*FuncInfo)
	a.structs = make(map[reflect.Type]*StructInfo)
	a.mu.Unlock()
}

// TypeOf extracts the reflect.Type from a template value. Templates may be a
// reflect.Type, a typed nil pointer like (*T)(nil), or any concrete value.
// Returns nil for an untyped nil.
func TypeOf(template any) reflect.Type {
	if template == nil {
		return nil
	}
	if t, ok := template.(reflect.Type); ok {
		return t
	}
	return reflect.TypeOf(template)
}
