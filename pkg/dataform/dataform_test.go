package dataform

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serverInfoForm = `<x xmlns="jabber:x:data" type="result">
  <title>Contact addresses</title>
  <instructions>Read only</instructions>
  <field var="FORM_TYPE" type="hidden">
    <value>http://jabber.org/network/serverinfo</value>
  </field>
  <field var="abuse-addresses" type="list-multi" label="Abuse">
    <desc>Where to report abuse</desc>
    <required/>
    <value>mailto:abuse@shakespeare.lit</value>
    <value>xmpp:abuse@shakespeare.lit</value>
    <option label="Mail"><value>mailto:abuse@shakespeare.lit</value></option>
  </field>
</x>`

func parse(t *testing.T, s string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(s))
	return doc.Root()
}

func TestParse(t *testing.T) {
	form := Parse(parse(t, serverInfoForm))

	assert.Equal(t, TypeResult, form.Type)
	assert.Equal(t, "Contact addresses", form.Title)
	assert.Equal(t, []string{"Read only"}, form.Instructions)
	require.Len(t, form.Fields, 2)
	assert.Equal(t, "http://jabber.org/network/serverinfo", form.FormType())

	abuse, ok := form.Field("abuse-addresses")
	require.True(t, ok)
	assert.Equal(t, Field{
		Var:         "abuse-addresses",
		Type:        "list-multi",
		Label:       "Abuse",
		Description: "Where to report abuse",
		Required:    true,
		Values:      []string{"mailto:abuse@shakespeare.lit", "xmpp:abuse@shakespeare.lit"},
		Options:     []Option{{Label: "Mail", Value: "mailto:abuse@shakespeare.lit"}},
	}, abuse)
	assert.Equal(t, "mailto:abuse@shakespeare.lit", abuse.Value())
}

func TestParseFields_Empty(t *testing.T) {
	fields := ParseFields(parse(t, `<x xmlns="jabber:x:data"/>`))
	assert.NotNil(t, fields)
	assert.Empty(t, fields)

	form := Parse(parse(t, `<x xmlns="jabber:x:data"/>`))
	assert.Empty(t, form.FormType())
	_, ok := form.Field("missing")
	assert.False(t, ok)
}

func TestBuild(t *testing.T) {
	in := Parse(parse(t, serverInfoForm))

	parent := etree.NewElement("query")
	x := in.Build(parent)
	assert.Equal(t, NS, x.NamespaceURI())
	assert.Equal(t, in, Parse(x))
}
