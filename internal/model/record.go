package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Record is a flat attribute bag returned by the record API.
// ID is assigned by the server; every other attribute is free text.
type Record struct {
	ID     string
	Fields map[string]string
}

// NewRecord returns a record with every field of res set to the empty string.
func NewRecord(res Resource) Record {
	r := Record{Fields: make(map[string]string, len(res.Fields))}
	for _, f := range res.Fields {
		r.Fields[f.Key] = ""
	}
	return r
}

// Get returns the value of key, or "" when it is not set.
func (r Record) Get(key string) string {
	if key == "id" {
		return r.ID
	}
	return r.Fields[key]
}

// Set writes value under key. The id attribute is read-only from the client side.
func (r *Record) Set(key, value string) {
	if key == "id" {
		return
	}
	if r.Fields == nil {
		r.Fields = make(map[string]string)
	}
	r.Fields[key] = value
}

// Equal reports whether both records carry the same id and attribute values.
// A missing attribute and an empty one compare equal.
func (r Record) Equal(o Record) bool {
	if r.ID != o.ID {
		return false
	}
	for k, v := range r.Fields {
		if o.Fields[k] != v {
			return false
		}
	}
	for k, v := range o.Fields {
		if r.Fields[k] != v {
			return false
		}
	}
	return true
}

// Clone returns a copy that does not share the field map.
func (r Record) Clone() Record {
	c := Record{ID: r.ID, Fields: make(map[string]string, len(r.Fields))}
	for k, v := range r.Fields {
		c.Fields[k] = v
	}
	return c
}

// MarshalJSON encodes the record as a flat object. id is omitted while unassigned.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	if r.ID != "" {
		out["id"] = r.ID
	} else {
		delete(out, "id")
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts a flat object. Scalars are stringified; nested values are skipped.
func (r *Record) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Record{}
		return nil
	}

	var raw map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}

	rec := Record{Fields: make(map[string]string, len(raw))}
	for k, v := range raw {
		s, ok, err := scalarString(v)
		if err != nil {
			return fmt.Errorf("decode record field %q: %w", k, err)
		}
		if !ok {
			continue
		}
		if k == "id" {
			rec.ID = s
			continue
		}
		rec.Fields[k] = s
	}
	*r = rec
	return nil
}

func scalarString(raw json.RawMessage) (string, bool, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", false, err
	}
	switch t := v.(type) {
	case nil:
		return "", true, nil
	case string:
		return t, true, nil
	case json.Number:
		return t.String(), true, nil
	case bool:
		return strconv.FormatBool(t), true, nil
	default:
		return "", false, nil
	}
}
