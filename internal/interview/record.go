package interview

import (
	"bytes"
	"encoding/json"
)

// AnswerRecord maps question keys to encoded answers. It keeps insertion
// order so the submitted JSON lists fields in interview order.
type AnswerRecord struct {
	keys   []string
	values map[string]Value
}

// NewAnswerRecord returns a record with every key present and empty.
func NewAnswerRecord(keys []string) *AnswerRecord {
	r := &AnswerRecord{
		keys:   make([]string, 0, len(keys)),
		values: make(map[string]Value, len(keys)),
	}
	for _, k := range keys {
		r.Set(k, StringValue(""))
	}
	return r
}

// Set writes v under key, appending key if it is new.
func (r *AnswerRecord) Set(key string, v Value) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// SetDefault writes v under key only when the current value is empty or
// the key is absent.
func (r *AnswerRecord) SetDefault(key string, v Value) {
	if cur, ok := r.values[key]; ok && !cur.IsEmpty() {
		return
	}
	r.Set(key, v)
}

// Get returns the value stored under key.
func (r *AnswerRecord) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the record keys in order.
func (r *AnswerRecord) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len returns the number of fields.
func (r *AnswerRecord) Len() int {
	return len(r.keys)
}

// Clone returns a deep copy.
func (r *AnswerRecord) Clone() *AnswerRecord {
	c := &AnswerRecord{
		keys:   append([]string(nil), r.keys...),
		values: make(map[string]Value, len(r.values)),
	}
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// MarshalJSON encodes the record as a JSON object in key order.
func (r *AnswerRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
