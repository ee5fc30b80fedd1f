package stanza

import (
	"strings"

	"github.com/beevik/etree"
)

// NSStanzas is the namespace of defined stanza error conditions
const NSStanzas = "urn:ietf:params:xml:ns:xmpp-stanzas"

// Error types
const (
	ErrorCancel   = "cancel"
	ErrorContinue = "continue"
	ErrorModify   = "modify"
	ErrorAuth     = "auth"
	ErrorWait     = "wait"
)

// Error is the translated form of an error stanza.
type Error struct {
	Type        string `json:"type"`
	Condition   string `json:"condition"`
	Description string `json:"description,omitempty"`
	// Application holds the name of an application-specific condition
	// element, if one was present.
	Application string `json:"application,omitempty"`
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("stanza error: ")
	b.WriteString(e.Type)
	b.WriteString("/")
	b.WriteString(e.Condition)
	if e.Description != "" {
		b.WriteString(": ")
		b.WriteString(e.Description)
	}
	return b.String()
}

// IsError reports whether el is marked as an error response.
func IsError(el *etree.Element) bool {
	return el != nil && Type(el) == TypeError
}

// ParseError translates an error stanza into an *Error. The condition is
// the first child of the error element in the stanza error namespace;
// when no such child exists the first non-text child is used.
func ParseError(el *etree.Element) *Error {
	out := &Error{Type: ErrorCancel}
	errEl := el.SelectElement("error")
	if errEl == nil {
		out.Condition = "undefined-condition"
		return out
	}
	if t := errEl.SelectAttrValue("type", ""); t != "" {
		out.Type = t
	}

	var fallback string
	for _, c := range errEl.ChildElements() {
		if c.Tag == "text" {
			out.Description = c.Text()
			continue
		}
		if c.NamespaceURI() == NSStanzas {
			if out.Condition == "" {
				out.Condition = c.Tag
			}
			continue
		}
		if fallback == "" {
			fallback = c.Tag
		}
		if out.Application == "" && c.NamespaceURI() != "" {
			out.Application = c.Tag
		}
	}
	if out.Condition == "" {
		out.Condition = fallback
		if out.Application == fallback {
			out.Application = ""
		}
	}
	return out
}

// NewError builds an error reply to the request stanza req.
func NewError(req *etree.Element, typ, condition, text string) *etree.Element {
	iq := NewErrorTo(From(req), ID(req), typ, condition, text)
	if to := To(req); to != "" {
		iq.CreateAttr("from", to)
	}
	return iq
}

// NewErrorTo builds an error iq addressed to to with the given id.
func NewErrorTo(to, id, typ, condition, text string) *etree.Element {
	iq := NewIQ(TypeError, to, id)
	errEl := iq.CreateElement("error")
	errEl.CreateAttr("type", typ)
	cond := errEl.CreateElement(condition)
	cond.CreateAttr("xmlns", NSStanzas)
	if text != "" {
		t := errEl.CreateElement("text")
		t.CreateAttr("xmlns", NSStanzas)
		t.SetText(text)
	}
	return iq
}
