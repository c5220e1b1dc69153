// Package jsonv is a closed JSON value model for loosely structured documents.
//
// Unlike decoding into any, every node is one of Object, Array, String, Number,
// Bool or Null, and objects keep their keys in document order.
package jsonv

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/tidwall/gjson"
)

// ErrInvalid is returned by Parse for input that is not a single valid JSON value.
var ErrInvalid = errors.New("jsonv: invalid json")

// Value is a parsed JSON node. The set of implementations is closed.
type Value interface {
	json.Marshaler
	isValue()
}

// Field is one key/value pair of an Object.
type Field struct {
	Key   string
	Value Value
}

// Object is a JSON object with keys in document order.
type Object struct {
	fields []Field
	index  map[string]int
}

// Array is a JSON array.
type Array []Value

// String is a JSON string.
type String string

// Number is a JSON number kept as its literal text.
type Number string

// Bool is a JSON boolean.
type Bool bool

// Null is the JSON null literal.
type Null struct{}

func (*Object) isValue() {}
func (Array) isValue()   {}
func (String) isValue()  {}
func (Number) isValue()  {}
func (Bool) isValue()    {}
func (Null) isValue()    {}

// NewObject builds an Object from fields. A repeated key keeps its first
// position and its last value.
func NewObject(fields ...Field) *Object {
	o := &Object{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		o.set(f.Key, f.Value)
	}
	return o
}

func (o *Object) set(key string, v Value) {
	if i, ok := o.index[key]; ok {
		o.fields[i].Value = v
		return
	}
	o.index[key] = len(o.fields)
	o.fields = append(o.fields, Field{Key: key, Value: v})
}

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.fields) }

// Fields returns the key/value pairs in document order.
func (o *Object) Fields() []Field { return o.fields }

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.fields[i].Value, true
}

// String returns the string stored under key. Non-string values report false.
func (o *Object) String(key string) (string, bool) {
	v, _ := o.Get(key)
	return AsString(v)
}

// Object returns the object stored under key.
func (o *Object) Object(key string) (*Object, bool) {
	v, _ := o.Get(key)
	return AsObject(v)
}

// Array returns the array stored under key.
func (o *Object) Array(key string) (Array, bool) {
	v, _ := o.Get(key)
	return AsArray(v)
}

// AsString unwraps a String.
func AsString(v Value) (string, bool) {
	s, ok := v.(String)
	return string(s), ok
}

// AsObject unwraps an Object.
func AsObject(v Value) (*Object, bool) {
	o, ok := v.(*Object)
	return o, ok && o != nil
}

// AsArray unwraps an Array.
func AsArray(v Value) (Array, bool) {
	a, ok := v.(Array)
	return a, ok
}

// IsNull reports whether v is absent or the JSON null literal.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Float64 parses the number literal.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// Parse decodes data into a Value.
func Parse(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalid
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) Value {
	switch {
	case r.IsObject():
		o := &Object{index: make(map[string]int)}
		r.ForEach(func(key, value gjson.Result) bool {
			o.set(key.Str, fromResult(value))
			return true
		})
		return o
	case r.IsArray():
		arr := Array{}
		r.ForEach(func(_, value gjson.Result) bool {
			arr = append(arr, fromResult(value))
			return true
		})
		return arr
	}

	switch r.Type {
	case gjson.String:
		return String(r.Str)
	case gjson.Number:
		return Number(r.Raw)
	case gjson.True:
		return Bool(true)
	case gjson.False:
		return Bool(false)
	default:
		return Null{}
	}
}

// MarshalJSON writes the object with keys in document order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalValue(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes the array elements in order.
func (a Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := marshalValue(v)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (s String) MarshalJSON() ([]byte, error) { return json.Marshal(string(s)) }
func (n Number) MarshalJSON() ([]byte, error) { return []byte(n), nil }
func (b Bool) MarshalJSON() ([]byte, error)   { return json.Marshal(bool(b)) }
func (Null) MarshalJSON() ([]byte, error)     { return []byte("null"), nil }

func marshalValue(v Value) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return v.MarshalJSON()
}

// Marshal encodes v. A nil Value encodes as null.
func Marshal(v Value) ([]byte, error) {
	return marshalValue(v)
}
