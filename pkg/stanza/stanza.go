// Package stanza provides the XML element-tree helpers used to build and
// inspect XMPP stanzas. Stanzas are plain *etree.Element values so that
// sub-codecs (rsm, dataform) can attach and read children directly.
package stanza

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// IQ types
const (
	TypeGet    = "get"
	TypeSet    = "set"
	TypeResult = "result"
	TypeError  = "error"
)

// Stanza kinds
const (
	KindIQ       = "iq"
	KindMessage  = "message"
	KindPresence = "presence"
)

// ErrNoRoot is returned when parsed data contains no root element
var ErrNoRoot = errors.New("stanza: document has no root element")

// NewIQ creates an iq envelope. Empty attributes are omitted.
func NewIQ(typ, to, id string) *etree.Element {
	iq := etree.NewElement(KindIQ)
	if to != "" {
		iq.CreateAttr("to", to)
	}
	iq.CreateAttr("type", typ)
	if id != "" {
		iq.CreateAttr("id", id)
	}
	return iq
}

// NewQuery creates an iq envelope carrying a query child in namespace ns
// and returns both the envelope and the query element.
func NewQuery(typ, to, id, ns string) (*etree.Element, *etree.Element) {
	iq := NewIQ(typ, to, id)
	query := iq.CreateElement("query")
	query.CreateAttr("xmlns", ns)
	return iq, query
}

// Is reports whether el is a stanza of the given kind.
func Is(el *etree.Element, kind string) bool {
	return el != nil && el.Tag == kind
}

// Type returns the type attribute of a stanza.
func Type(el *etree.Element) string {
	return el.SelectAttrValue("type", "")
}

// ID returns the id attribute of a stanza.
func ID(el *etree.Element) string {
	return el.SelectAttrValue("id", "")
}

// From returns the from attribute of a stanza.
func From(el *etree.Element) string {
	return el.SelectAttrValue("from", "")
}

// To returns the to attribute of a stanza.
func To(el *etree.Element) string {
	return el.SelectAttrValue("to", "")
}

// Query returns the direct query child of el, or nil.
func Query(el *etree.Element) *etree.Element {
	if el == nil {
		return nil
	}
	return el.SelectElement("query")
}

// Child returns the first direct child with the given local name whose
// namespace is ns. An empty ns matches any namespace.
func Child(el *etree.Element, name, ns string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, c := range el.ChildElements() {
		if c.Tag != name {
			continue
		}
		if ns == "" || c.NamespaceURI() == ns {
			return c
		}
	}
	return nil
}

// Parse reads a single stanza from its serialized form.
func Parse(data []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing stanza: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// fixed literals.
func MustParse(data string) *etree.Element {
	el, err := Parse([]byte(data))
	if err != nil {
		panic(err)
	}
	return el
}

// Marshal serializes a stanza without an XML declaration.
func Marshal(el *etree.Element) ([]byte, error) {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializing stanza: %w", err)
	}
	return data, nil
}
