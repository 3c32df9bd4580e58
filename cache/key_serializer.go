package cache

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	// KeySeparator defines the delimiter used between cache key segments.
	KeySeparator = "::"

	// DefaultMaxKeyLength keeps keys well below the limits of common backends.
	DefaultMaxKeyLength = 250

	hashedSegmentPrefix = "xxh:"
)

// KeySerializer builds a cache key from a method name and arbitrary args.
// Keys must be stable across processes because they may be shared through
// a remote backend.
type KeySerializer interface {
	SerializeKey(method string, args ...any) string
}

// DefaultKeySerializer serializes arguments by walking them with reflection.
// Keys longer than MaxKeyLength keep the method segment and replace the rest
// with an xxhash digest.
type DefaultKeySerializer struct {
	MaxKeyLength int
}

// NewDefaultKeySerializer creates a serializer using DefaultMaxKeyLength.
func NewDefaultKeySerializer() *DefaultKeySerializer {
	return &DefaultKeySerializer{MaxKeyLength: DefaultMaxKeyLength}
}

// SerializeKey joins method and the serialized args with KeySeparator.
func (s *DefaultKeySerializer) SerializeKey(method string, args ...any) string {
	if len(args) == 0 {
		return s.limit(method, "")
	}

	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteString(KeySeparator)
		}
		writeValue(&b, reflect.ValueOf(arg))
	}

	return s.limit(method, b.String())
}

func (s *DefaultKeySerializer) limit(method, rest string) string {
	key := method
	if rest != "" {
		key = method + KeySeparator + rest
	}

	if s.MaxKeyLength <= 0 || len(key) <= s.MaxKeyLength {
		return key
	}

	digest := hashedSegmentPrefix + strconv.FormatUint(xxhash.Sum64String(rest), 16)
	if len(method)+len(KeySeparator)+len(digest) > s.MaxKeyLength {
		return hashedSegmentPrefix + strconv.FormatUint(xxhash.Sum64String(key), 16)
	}
	return method + KeySeparator + digest
}

var stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()

func writeValue(b *strings.Builder, v reflect.Value) {
	if !v.IsValid() {
		b.WriteString("nil")
		return
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			b.WriteString("nil")
			return
		}
		if v.Kind() == reflect.Pointer && v.Type().Implements(stringerType) {
			writeStringer(b, v)
			return
		}
		writeValue(b, v.Elem())
		return
	}

	if isBasicKind(v.Kind()) {
		fmt.Fprintf(b, "%v", v.Interface())
		return
	}

	if v.CanInterface() && v.Type().Implements(stringerType) {
		writeStringer(b, v)
		return
	}

	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			b.WriteString("slice:nil")
			return
		}
		writeSequence(b, "slice", v)
	case reflect.Array:
		writeSequence(b, "array", v)
	case reflect.Map:
		if v.IsNil() {
			b.WriteString("map:nil")
			return
		}
		writeMap(b, v)
	case reflect.Struct:
		writeStruct(b, v)
	default:
		// funcs and channels have no stable value representation
		b.WriteString(v.Kind().String())
		b.WriteByte(':')
		b.WriteString(v.Type().String())
	}
}

func writeStringer(b *strings.Builder, v reflect.Value) {
	b.WriteString("str:")
	b.WriteString(v.Interface().(fmt.Stringer).String())
}

func writeSequence(b *strings.Builder, kind string, v reflect.Value) {
	fmt.Fprintf(b, "%s[%d]:{", kind, v.Len())
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		writeValue(b, v.Index(i))
	}
	b.WriteByte('}')
}

func writeMap(b *strings.Builder, v reflect.Value) {
	pairs := make([]string, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		var pair strings.Builder
		writeValue(&pair, iter.Key())
		pair.WriteByte('=')
		writeValue(&pair, iter.Value())
		pairs = append(pairs, pair.String())
	}
	sort.Strings(pairs)

	fmt.Fprintf(b, "map[%d]:{%s}", len(pairs), strings.Join(pairs, ","))
}

func writeStruct(b *strings.Builder, v reflect.Value) {
	b.WriteString("struct:{")
	t := v.Type()
	first := true
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(field.Name)
		b.WriteByte(':')
		writeValue(b, v.Field(i))
	}
	b.WriteByte('}')
}

func isBasicKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	default:
		return false
	}
}
