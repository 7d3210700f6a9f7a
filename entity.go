package caliper

import "time"

// Property is one named value in an entity's serialization schema.
type Property struct {
	Name  string
	Value any
}

// Entity is anything that can appear as an actor, object or nested value of
// an event. Properties lists the entity's fields in output order, excluding
// "id" and "type", which are always written first.
type Entity interface {
	EntityID() string
	EntityType() string
	Properties() []Property
	// FilterID names the filter policy applied when serializing the entity.
	// An empty id means the entity is never filtered.
	FilterID() string
}

// Person is an agent identified by IRI.
type Person struct {
	ID     string
	Name   string
	Filter string
}

var _ Entity = (*Person)(nil)

func (p *Person) EntityID() string   { return p.ID }
func (p *Person) EntityType() string { return "Person" }
func (p *Person) FilterID() string   { return p.Filter }

func (p *Person) Properties() []Property {
	return []Property{
		{Name: "name", Value: p.Name},
	}
}

// MarshalJSON serializes the person with the default serializer.
func (p *Person) MarshalJSON() ([]byte, error) {
	return defaultSerializer.Marshal(p)
}

// Document is a versioned resource snapshot. Several documents sharing a
// base IRI and differing in Version model a revision history.
type Document struct {
	ID           string
	Name         string
	DateCreated  time.Time
	DateModified time.Time
	Version      string
	Filter       string
}

var _ Entity = (*Document)(nil)

func (d *Document) EntityID() string   { return d.ID }
func (d *Document) EntityType() string { return "Document" }
func (d *Document) FilterID() string   { return d.Filter }

func (d *Document) Properties() []Property {
	return []Property{
		{Name: "name", Value: d.Name},
		{Name: "dateCreated", Value: d.DateCreated},
		{Name: "dateModified", Value: d.DateModified},
		{Name: "version", Value: d.Version},
	}
}

// MarshalJSON serializes the document with the default serializer.
func (d *Document) MarshalJSON() ([]byte, error) {
	return defaultSerializer.Marshal(d)
}
