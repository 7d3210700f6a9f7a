package caliper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"time"
)

var defaultSerializer = NewSerializer(DefaultFilterProvider())

// Serializer converts events, entities and extension payloads to JSON.
//
// Empty values (empty strings, zero times, nil entities, empty maps and
// slices) are omitted from objects. Times are written with TimeFormat.
// Entities carrying a filter id are filtered by the provider's policy for
// that id. Map keys are written in sorted order and slices keep their order,
// so output is deterministic.
type Serializer struct {
	provider *FilterProvider
}

// NewSerializer creates a serializer resolving filter ids with provider.
// A nil provider behaves like an empty NewFilterProvider.
func NewSerializer(provider *FilterProvider) *Serializer {
	if provider == nil {
		provider = NewFilterProvider()
	}
	return &Serializer{provider: provider}
}

// DefaultSerializer returns the serializer used by the MarshalJSON methods.
func DefaultSerializer() *Serializer {
	return defaultSerializer
}

// Provider returns the filter provider in use.
func (s *Serializer) Provider() *FilterProvider {
	return s.provider
}

// Marshal returns the JSON encoding of v. On error no output is produced.
func (s *Serializer) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent is like Marshal but indents the output.
func (s *Serializer) MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	data, err := s.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, prefix, indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (s *Serializer) encode(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case *Event:
		if t == nil {
			buf.WriteString("null")
			return nil
		}
		return s.encodeObject(buf, t.properties())
	case Entity:
		if isNilEntity(t) {
			buf.WriteString("null")
			return nil
		}
		return s.encodeEntity(buf, t)
	case Action:
		term, ok := t.Term()
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownAction, int(t))
		}
		return writeString(buf, term)
	case Context:
		return writeString(buf, string(t))
	case time.Time:
		return writeString(buf, FormatTime(t))
	case string:
		return writeString(buf, t)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		props := make([]Property, len(keys))
		for i, k := range keys {
			props[i] = Property{Name: k, Value: t[k]}
		}
		return s.encodeObject(buf, props)
	case []any:
		return s.encodeArray(buf, len(t), func(i int) any { return t[i] })
	case json.Marshaler:
		data, err := t.MarshalJSON()
		if err != nil {
			return err
		}
		return json.Compact(buf, data)
	}
	if e, ok := addressableEntity(v); ok {
		return s.encodeEntity(buf, e)
	}
	return s.encodeReflect(buf, v)
}

var entityType = reflect.TypeFor[Entity]()

// addressableEntity returns a pointer to a copy of v when v is a struct
// whose pointer type implements Entity, such as a Document passed by value.
func addressableEntity(v any) (Entity, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Struct || !reflect.PointerTo(rv.Type()).Implements(entityType) {
		return nil, false
	}
	p := reflect.New(rv.Type())
	p.Elem().Set(rv)
	return p.Interface().(Entity), true
}

func (s *Serializer) encodeReflect(buf *bytes.Buffer, v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			buf.WriteString("null")
			return nil
		}
		return s.encodeArray(buf, rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			buf.WriteString("null")
			return nil
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		props := make([]Property, len(keys))
		for i, k := range keys {
			props[i] = Property{Name: k, Value: rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()}
		}
		return s.encodeObject(buf, props)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

func (s *Serializer) encodeObject(buf *bytes.Buffer, props []Property) error {
	buf.WriteByte('{')
	first := true
	for _, p := range props {
		if isEmpty(p.Value) {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeString(buf, p.Name); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := s.encode(buf, p.Value); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func (s *Serializer) encodeArray(buf *bytes.Buffer, n int, at func(int) any) error {
	buf.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := s.encode(buf, at(i)); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

func (s *Serializer) encodeEntity(buf *bytes.Buffer, e Entity) error {
	filter, err := s.resolveFilter(e.FilterID())
	if err != nil {
		return err
	}

	own := e.Properties()
	props := make([]Property, 0, len(own)+2)
	props = append(props,
		Property{Name: "id", Value: e.EntityID()},
		Property{Name: "type", Value: e.EntityType()},
	)
	for _, p := range own {
		if filter == nil || filter.Include(p.Name) {
			props = append(props, p)
		}
	}
	return s.encodeObject(buf, props)
}

// resolveFilter returns nil when every property should be written.
func (s *Serializer) resolveFilter(id string) (PropertyFilter, error) {
	if id == "" {
		return nil, nil
	}
	if f, ok := s.provider.Filter(id); ok {
		return f, nil
	}
	if s.provider.FailOnUnknownID() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, id)
	}
	return nil, nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates the value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case Context:
		return t == ""
	case time.Time:
		return t.IsZero()
	case Action:
		return t == ActionUnset
	case *Event:
		return t == nil
	case Entity:
		return isNilEntity(t)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Struct && reflect.PointerTo(rv.Type()).Implements(entityType) {
		// An entity passed by value is never empty.
		return false
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func isNilEntity(e Entity) bool {
	if e == nil {
		return true
	}
	rv := reflect.ValueOf(e)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
