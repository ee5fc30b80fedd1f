package rsm

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func parseElement(t *testing.T, s string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(s))
	return doc.Root()
}

func TestBuild(t *testing.T) {
	query := etree.NewElement("query")

	set := Build(query, &Request{After: "12345", Max: "20"})
	require.NotNil(t, set)
	assert.Equal(t, NS, set.NamespaceURI())
	assert.Equal(t, "20", set.SelectElement("max").Text())
	assert.Equal(t, "12345", set.SelectElement("after").Text())
	assert.Nil(t, set.SelectElement("before"))
	assert.Nil(t, set.SelectElement("index"))
}

func TestBuild_LastPage(t *testing.T) {
	query := etree.NewElement("query")

	set := Build(query, &Request{Max: "10", LastPage: true})
	before := set.SelectElement("before")
	require.NotNil(t, before)
	assert.Empty(t, before.Text())

	query = etree.NewElement("query")
	set = Build(query, &Request{Before: "abc", LastPage: true})
	assert.Equal(t, "abc", set.SelectElement("before").Text())
}

func TestBuild_Empty(t *testing.T) {
	query := etree.NewElement("query")

	assert.Nil(t, Build(query, nil))
	assert.Nil(t, Build(query, &Request{}))
	assert.Empty(t, query.ChildElements())
}

func TestFind(t *testing.T) {
	query := parseElement(t, `<query xmlns="http://jabber.org/protocol/disco#items">`+
		`<item jid="a"/>`+
		`<set xmlns="http://jabber.org/protocol/rsm">`+
		`<first index="0">first</first><last>last</last><count>100</count>`+
		`</set></query>`)

	res := Find(query)
	require.NotNil(t, res)
	assert.Equal(t, &Result{First: "first", FirstIndex: intPtr(0), Last: "last", Count: intPtr(100)}, res)
}

func TestFind_WrongNamespace(t *testing.T) {
	query := parseElement(t, `<query><set xmlns="urn:other"><first>x</first></set></query>`)
	assert.Nil(t, Find(query))
	assert.Nil(t, Find(nil))
}

func TestParse_BadNumbers(t *testing.T) {
	set := parseElement(t, `<set xmlns="http://jabber.org/protocol/rsm">`+
		`<first index="x">a</first><count>lots</count></set>`)

	res := Parse(set)
	assert.Equal(t, "a", res.First)
	assert.Nil(t, res.FirstIndex)
	assert.Nil(t, res.Count)
}

func TestResultBuild(t *testing.T) {
	in := &Result{First: "f", FirstIndex: intPtr(20), Last: "l", Count: intPtr(800)}
	parent := etree.NewElement("query")

	out := Find(parseElement(t, serialize(t, in.Build(parent).Parent())))
	assert.Equal(t, in, out)
}

func serialize(t *testing.T, el *etree.Element) string {
	t.Helper()
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	s, err := doc.WriteToString()
	require.NoError(t, err)
	return s
}
