package disco

import (
	"github.com/beevik/etree"
)

// Projector extracts a fixed, ordered set of attribute names from an
// attribute source, keeping only the ones present with a non-empty value.
// The same projector is used to write outbound children and read inbound
// ones.
type Projector struct {
	names []string
}

// NewProjector creates a projector for names, in order
func NewProjector(names ...string) Projector {
	return Projector{names: append([]string(nil), names...)}
}

// Recognized is the attribute set of identity, feature and item children.
var Recognized = NewProjector("type", "name", "category", "var", "jid", "node")

// Names returns the recognized names in order
func (p Projector) Names() []string {
	return append([]string(nil), p.names...)
}

// Project reads each recognized name through lookup.
func (p Projector) Project(lookup func(name string) string) Attributes {
	out := make(Attributes)
	for _, name := range p.names {
		if v := lookup(name); v != "" {
			out[name] = v
		}
	}
	return out
}

// FromElement projects the attributes of el
func (p Projector) FromElement(el *etree.Element) Attributes {
	return p.Project(func(name string) string {
		return el.SelectAttrValue(name, "")
	})
}

// Apply writes the projected attributes onto el in recognized order.
func (p Projector) Apply(el *etree.Element, lookup func(name string) string) {
	for _, name := range p.names {
		if v := lookup(name); v != "" {
			el.CreateAttr(name, v)
		}
	}
}

// allAttributes keeps every non-empty attribute of el, whatever its name.
func allAttributes(el *etree.Element) Attributes {
	out := make(Attributes, len(el.Attr))
	for _, a := range el.Attr {
		if a.Value != "" {
			out[a.FullKey()] = a.Value
		}
	}
	return out
}
