package attribute

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sesuite-go/sesuite/pkg/template"
)

func TestEntities_PreservesOrder(t *testing.T) {
	t.Parallel()

	got := slices.Collect(Entities(F("name", "Ana"), F("age", "30"), F("city", "Porto Alegre")))
	assert.Equal(t, []Entity{
		{ID: "name", Value: "Ana"},
		{ID: "age", Value: "30"},
		{ID: "city", Value: "Porto Alegre"},
	}, got)
}

func TestRelationships_ScopesEveryField(t *testing.T) {
	t.Parallel()

	got := slices.Collect(Relationships("items", F("sku", "A1"), F("qty", "2")))
	assert.Equal(t, []Relationship{
		{RelationshipID: "items", FieldID: "sku", FieldValue: "A1"},
		{RelationshipID: "items", FieldID: "qty", FieldValue: "2"},
	}, got)
}

func TestTableFields_StopsEarly(t *testing.T) {
	t.Parallel()

	var seen []TableField
	for f := range TableFields(F("a", "1"), F("b", "2"), F("c", "3")) {
		seen = append(seen, f)
		if f.ID == "b" {
			break
		}
	}
	assert.Equal(t, []TableField{{ID: "a", Value: "1"}, {ID: "b", Value: "2"}}, seen)
}

func TestGenerators_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, slices.Collect(Entities()))
	assert.Empty(t, slices.Collect(Relationships("r")))
	assert.Empty(t, slices.Collect(TableFields()))
}

func TestFields_SortsByID(t *testing.T) {
	t.Parallel()

	got := Fields(map[string]string{"b": "2", "a": "1", "c": "3"})
	assert.Equal(t, []Field{F("a", "1"), F("b", "2"), F("c", "3")}, got)
}

func TestRenderEntity(t *testing.T) {
	t.Parallel()

	frag, err := RenderEntity(template.New(), Entity{ID: "status", Value: "<open>"})
	require.NoError(t, err)

	s := string(frag)
	assert.True(t, strings.HasPrefix(s, "<urn:EntityAttribute>"), s)
	assert.Contains(t, s, "<urn:EntityAttributeID>status</urn:EntityAttributeID>")
	assert.Contains(t, s, "<urn:EntityAttributeValue>&lt;open&gt;</urn:EntityAttributeValue>")
}

func TestRenderRelationship(t *testing.T) {
	t.Parallel()

	frag, err := RenderRelationship(template.New(), Relationship{RelationshipID: "grid", FieldID: "col", FieldValue: "v"})
	require.NoError(t, err)

	s := string(frag)
	assert.Contains(t, s, "<urn:RelationshipID>grid</urn:RelationshipID>")
	assert.Contains(t, s, "<urn:RelationshipAttributeID>col</urn:RelationshipAttributeID>")
	assert.Contains(t, s, "<urn:RelationshipAttributeValue>v</urn:RelationshipAttributeValue>")
}

func TestRenderTableFields(t *testing.T) {
	t.Parallel()

	engine := template.New()
	frags, err := RenderTableFields(engine, slices.Collect(TableFields(F("code", "1"), F("name", "x"))))
	require.NoError(t, err)
	require.Len(t, frags, 2)
	assert.Contains(t, string(frags[0]), "<urn:TableFieldID>code</urn:TableFieldID>")
	assert.Contains(t, string(frags[1]), "<urn:TableFieldID>name</urn:TableFieldID>")

	none, err := RenderTableFields(engine, nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRenderEntities_Order(t *testing.T) {
	t.Parallel()

	frags, err := RenderEntities(template.New(), []Entity{{ID: "z"}, {ID: "a"}})
	require.NoError(t, err)
	require.Len(t, frags, 2)
	assert.Contains(t, string(frags[0]), ">z<")
	assert.Contains(t, string(frags[1]), ">a<")

	rels, err := RenderRelationships(template.New(), []Relationship{{RelationshipID: "r", FieldID: "f", FieldValue: "v"}})
	require.NoError(t, err)
	assert.Len(t, rels, 1)
}
