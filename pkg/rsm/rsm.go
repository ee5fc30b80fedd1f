// Package rsm implements the XEP-0059 Result Set Management sub-codec used
// to page through large discovery results.
//
// Request values are attached to an outbound query with [Build]; the
// marker returned by a peer is read with [Parse] or [Find]. Values are
// treated as opaque strings on the request side, so callers can pass
// through whatever cursor a previous [Result] carried.
package rsm

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// NS is the result set management namespace
const NS = "http://jabber.org/protocol/rsm"

// Request describes the page a query asks for.
type Request struct {
	After  string `json:"after,omitempty" yaml:"after,omitempty"`
	Before string `json:"before,omitempty" yaml:"before,omitempty"`
	Max    string `json:"max,omitempty" yaml:"max,omitempty"`
	Index  string `json:"index,omitempty" yaml:"index,omitempty"`

	// LastPage emits an empty <before/>, asking for the last page.
	// Ignored when Before is set.
	LastPage bool `json:"lastPage,omitempty" yaml:"lastPage,omitempty"`
}

// IsZero reports whether the request carries no paging data.
func (r *Request) IsZero() bool {
	return r == nil || (r.After == "" && r.Before == "" && r.Max == "" && r.Index == "" && !r.LastPage)
}

// Result is the pagination marker returned with a page.
type Result struct {
	First      string `json:"first,omitempty"`
	FirstIndex *int   `json:"firstIndex,omitempty"`
	Last       string `json:"last,omitempty"`
	Count      *int   `json:"count,omitempty"`
}

// Build appends a <set/> element describing req to parent and returns it.
// Nothing is appended for an empty request.
func Build(parent *etree.Element, req *Request) *etree.Element {
	if req.IsZero() {
		return nil
	}
	set := parent.CreateElement("set")
	set.CreateAttr("xmlns", NS)

	if req.Max != "" {
		set.CreateElement("max").SetText(req.Max)
	}
	switch {
	case req.Before != "":
		set.CreateElement("before").SetText(req.Before)
	case req.LastPage:
		set.CreateElement("before")
	}
	if req.After != "" {
		set.CreateElement("after").SetText(req.After)
	}
	if req.Index != "" {
		set.CreateElement("index").SetText(req.Index)
	}
	return set
}

// Find parses the <set/> child of parent in the result set namespace.
// It returns nil when no such child exists.
func Find(parent *etree.Element) *Result {
	if parent == nil {
		return nil
	}
	for _, c := range parent.ChildElements() {
		if c.Tag == "set" && c.NamespaceURI() == NS {
			return Parse(c)
		}
	}
	return nil
}

// Parse reads a <set/> element. Unparseable counts and indexes are left
// unset rather than reported as errors.
func Parse(set *etree.Element) *Result {
	res := &Result{}
	if first := set.SelectElement("first"); first != nil {
		res.First = strings.TrimSpace(first.Text())
		if v, ok := atoi(first.SelectAttrValue("index", "")); ok {
			res.FirstIndex = &v
		}
	}
	if last := set.SelectElement("last"); last != nil {
		res.Last = strings.TrimSpace(last.Text())
	}
	if count := set.SelectElement("count"); count != nil {
		if v, ok := atoi(count.Text()); ok {
			res.Count = &v
		}
	}
	return res
}

// Build creates the <set/> a responder returns with a page.
func (r *Result) Build(parent *etree.Element) *etree.Element {
	set := parent.CreateElement("set")
	set.CreateAttr("xmlns", NS)
	if r.First != "" {
		first := set.CreateElement("first")
		first.SetText(r.First)
		if r.FirstIndex != nil {
			first.CreateAttr("index", strconv.Itoa(*r.FirstIndex))
		}
	}
	if r.Last != "" {
		set.CreateElement("last").SetText(r.Last)
	}
	if r.Count != nil {
		set.CreateElement("count").SetText(strconv.Itoa(*r.Count))
	}
	return set
}

func atoi(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
