package model

import (
	"fmt"
	"net/url"
	"strings"
)

// Field describes one editable attribute of a resource.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	InputType   string
}

// Resource describes one record variant: where it lives on the API and how its screens look.
type Resource struct {
	// Name is the API collection, e.g. "students".
	Name string
	// Singular is the envelope key the API uses for create/update responses.
	Singular string
	// RoutePrefix is the first path segment of the screens, e.g. "students" or "car".
	RoutePrefix string
	Title       string
	Fields      []Field
}

// ListPath returns the list screen route.
func (r Resource) ListPath() string { return "/" + r.RoutePrefix + "/list" }

// CreatePath returns the create screen route.
func (r Resource) CreatePath() string { return "/" + r.RoutePrefix + "/create" }

// ViewPath returns the view screen route for id. Ids are opaque, so the segment is escaped.
func (r Resource) ViewPath(id string) string { return r.itemPath("view", id) }

// EditPath returns the edit screen route for id.
func (r Resource) EditPath(id string) string { return r.itemPath("edit", id) }

// DeletePath returns the delete confirmation route for id.
func (r Resource) DeletePath(id string) string { return r.itemPath("delete", id) }

func (r Resource) itemPath(action, id string) string {
	return "/" + r.RoutePrefix + "/" + action + "/" + url.PathEscape(id)
}

// HasField reports whether key is one of the declared fields.
func (r Resource) HasField(key string) bool {
	for _, f := range r.Fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

var (
	Students = Resource{
		Name:        "students",
		Singular:    "student",
		RoutePrefix: "students",
		Title:       "Student",
		Fields: []Field{
			{Key: "name", Label: "Student Name", Placeholder: "Please enter student name", InputType: "text"},
			{Key: "department", Label: "Department", Placeholder: "Please enter student department", InputType: "text"},
			{Key: "email", Label: "Email", Placeholder: "Please enter student email", InputType: "email"},
		},
	}

	Cars = Resource{
		Name:        "cars",
		Singular:    "car",
		RoutePrefix: "car",
		Title:       "Car",
		Fields: []Field{
			{Key: "make", Label: "Make", Placeholder: "Please enter car make", InputType: "text"},
			{Key: "model", Label: "Model", Placeholder: "Please enter car model", InputType: "text"},
			{Key: "year", Label: "Year", Placeholder: "Please enter car year", InputType: "text"},
		},
	}
)

var registry = map[string]Resource{
	Students.Name: Students,
	Cars.Name:     Cars,
}

// Lookup resolves a variant by its API collection name.
func Lookup(name string) (Resource, error) {
	r, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Resource{}, fmt.Errorf("unknown resource %q", name)
	}
	return r, nil
}
