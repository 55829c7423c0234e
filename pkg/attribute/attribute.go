// Package attribute defines the field values embedded in SE Suite requests
// and the functions that render them to XML fragments.
//
// The records are plain values. Rendering lives in separate functions so the
// same record can be logged, compared or serialized without dragging XML
// along with it.
package attribute

import (
	"iter"
	"sort"
)

// Entity assigns Value to the form/table field ID.
type Entity struct {
	ID    string `json:"id" yaml:"id"`
	Value string `json:"value" yaml:"value"`
}

// Relationship assigns FieldValue to FieldID inside the relationship (grid)
// RelationshipID.
type Relationship struct {
	RelationshipID string `json:"relationshipId" yaml:"relationshipId"`
	FieldID        string `json:"fieldId" yaml:"fieldId"`
	FieldValue     string `json:"fieldValue" yaml:"fieldValue"`
}

// TableField filters a table query on field ID equal to Value.
type TableField struct {
	ID    string `json:"id" yaml:"id"`
	Value string `json:"value" yaml:"value"`
}

// Field is an ordered (id, value) input pair for the generators.
type Field struct {
	ID    string
	Value string
}

// F is shorthand for Field{ID: id, Value: value}.
func F(id, value string) Field {
	return Field{ID: id, Value: value}
}

// Fields converts a map into pairs sorted by id.
func Fields(m map[string]string) []Field {
	out := make([]Field, 0, len(m))
	for id, value := range m {
		out = append(out, Field{ID: id, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Entities yields one Entity per field, in order.
func Entities(fields ...Field) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, f := range fields {
			if !yield(Entity{ID: f.ID, Value: f.Value}) {
				return
			}
		}
	}
}

// Relationships yields one Relationship in relationshipID per field, in order.
func Relationships(relationshipID string, fields ...Field) iter.Seq[Relationship] {
	return func(yield func(Relationship) bool) {
		for _, f := range fields {
			if !yield(Relationship{RelationshipID: relationshipID, FieldID: f.ID, FieldValue: f.Value}) {
				return
			}
		}
	}
}

// TableFields yields one TableField per field, in order.
func TableFields(fields ...Field) iter.Seq[TableField] {
	return func(yield func(TableField) bool) {
		for _, f := range fields {
			if !yield(TableField{ID: f.ID, Value: f.Value}) {
				return
			}
		}
	}
}
