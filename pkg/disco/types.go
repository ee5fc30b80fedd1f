package disco

import (
	"github.com/sirosfoundation/go-disco/pkg/dataform"
	"github.com/sirosfoundation/go-disco/pkg/rsm"
)

// Namespaces
const (
	NSItems = "http://jabber.org/protocol/disco#items"
	NSInfo  = "http://jabber.org/protocol/disco#info"
)

// Kind tags an info result entry
type Kind string

// Entry kinds. Identity, feature and item carry the wire element name.
const (
	KindIdentity Kind = "identity"
	KindFeature  Kind = "feature"
	KindItem     Kind = "item"
	KindForm     Kind = "form"
)

// Request is an outbound discovery query
type Request struct {
	// Of is the address being queried
	Of   string       `json:"of"`
	Node string       `json:"node,omitempty"`
	RSM  *rsm.Request `json:"rsm,omitempty"`
}

// Feature describes one child of an info response we send. Kind names the
// element (identity, feature, ...); a Feature without Kind is skipped.
type Feature struct {
	Kind     string `json:"kind,omitempty" yaml:"kind"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Var      string `json:"var,omitempty" yaml:"var,omitempty"`
	JID      string `json:"jid,omitempty" yaml:"jid,omitempty"`
	Node     string `json:"node,omitempty" yaml:"node,omitempty"`
}

func (f Feature) attr(name string) string {
	switch name {
	case "type":
		return f.Type
	case "name":
		return f.Name
	case "category":
		return f.Category
	case "var":
		return f.Var
	case "jid":
		return f.JID
	case "node":
		return f.Node
	}
	return ""
}

// InfoResponse answers an inbound info query
type InfoResponse struct {
	To       string    `json:"to"`
	ID       string    `json:"id"`
	Node     string    `json:"node,omitempty"`
	Features []Feature `json:"features,omitempty"`
}

// InboundQuery is the notification sent to the owner for an inbound
// disco#info query
type InboundQuery struct {
	From string `json:"from"`
	ID   string `json:"id"`
	Node string `json:"node,omitempty"`
}

// Attributes holds non-empty attribute values by name
type Attributes map[string]string

// Get returns the named attribute or ""
func (a Attributes) Get(name string) string {
	return a[name]
}

// Entry is one classified child of an info response. Attributes is set
// for identity, feature and item entries; Form for form entries.
type Entry struct {
	Kind       Kind           `json:"kind"`
	Attributes Attributes     `json:"attributes,omitempty"`
	Form       *dataform.Form `json:"form,omitempty"`
}

// Type returns the type attribute
func (e Entry) Type() string { return e.Attributes.Get("type") }

// Name returns the name attribute
func (e Entry) Name() string { return e.Attributes.Get("name") }

// Category returns the category attribute
func (e Entry) Category() string { return e.Attributes.Get("category") }

// Var returns the var attribute
func (e Entry) Var() string { return e.Attributes.Get("var") }

// JID returns the jid attribute
func (e Entry) JID() string { return e.Attributes.Get("jid") }

// Node returns the node attribute
func (e Entry) Node() string { return e.Attributes.Get("node") }

// Fields returns the fields of a form entry
func (e Entry) Fields() []dataform.Field {
	if e.Form == nil {
		return nil
	}
	return e.Form.Fields
}

// ItemsCallback receives the outcome of an items query
type ItemsCallback func(items []Attributes, set *rsm.Result, err error)

// InfoCallback receives the outcome of an info query
type InfoCallback func(entries []Entry, set *rsm.Result, err error)
