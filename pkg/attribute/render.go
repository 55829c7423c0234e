package attribute

import (
	"github.com/sesuite-go/sesuite/pkg/template"
)

// Fragment template names.
const (
	EntityTemplate       = "attributes/entity.xml"
	RelationshipTemplate = "attributes/relationship.xml"
	TableFieldTemplate   = "attributes/tablefield.xml"
)

// RenderEntity renders e as an EntityAttribute fragment.
func RenderEntity(engine *template.Engine, e Entity) (template.Fragment, error) {
	return engine.RenderFragment(EntityTemplate, template.Values{
		"ID":    e.ID,
		"Value": e.Value,
	})
}

// RenderRelationship renders r as a Relationship fragment.
func RenderRelationship(engine *template.Engine, r Relationship) (template.Fragment, error) {
	return engine.RenderFragment(RelationshipTemplate, template.Values{
		"RelationshipID": r.RelationshipID,
		"FieldID":        r.FieldID,
		"FieldValue":     r.FieldValue,
	})
}

// RenderTableField renders f as a TableField fragment.
func RenderTableField(engine *template.Engine, f TableField) (template.Fragment, error) {
	return engine.RenderFragment(TableFieldTemplate, template.Values{
		"ID":    f.ID,
		"Value": f.Value,
	})
}

// RenderEntities renders every entity, preserving order.
func RenderEntities(engine *template.Engine, entities []Entity) ([]template.Fragment, error) {
	return renderAll(engine, entities, RenderEntity)
}

// RenderRelationships renders every relationship, preserving order.
func RenderRelationships(engine *template.Engine, relationships []Relationship) ([]template.Fragment, error) {
	return renderAll(engine, relationships, RenderRelationship)
}

// RenderTableFields renders every table field, preserving order.
func RenderTableFields(engine *template.Engine, fields []TableField) ([]template.Fragment, error) {
	return renderAll(engine, fields, RenderTableField)
}

func renderAll[T any](engine *template.Engine, items []T, render func(*template.Engine, T) (template.Fragment, error)) ([]template.Fragment, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]template.Fragment, 0, len(items))
	for _, item := range items {
		frag, err := render(engine, item)
		if err != nil {
			return nil, err
		}
		out = append(out, frag)
	}
	return out, nil
}
