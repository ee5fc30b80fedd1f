package disco

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-disco/pkg/dataform"
	"github.com/sirosfoundation/go-disco/pkg/rsm"
	"github.com/sirosfoundation/go-disco/pkg/stanza"
)

// ParseItems interprets a disco#items response. Each direct item child
// becomes one record holding all of its non-empty attributes. An error
// response yields its translated *stanza.Error and no items.
func ParseItems(resp *etree.Element) ([]Attributes, *rsm.Result, error) {
	if stanza.IsError(resp) {
		return nil, nil, stanza.ParseError(resp)
	}
	items := make([]Attributes, 0)
	query := stanza.Query(resp)
	if query == nil {
		return items, nil, nil
	}
	for _, item := range query.SelectElements("item") {
		items = append(items, allAttributes(item))
	}
	return items, rsm.Find(query), nil
}

// ParseInfo interprets a disco#info response. Children of the query are
// classified in document order; identity, feature and item children keep
// their recognized attributes, an x child becomes a form entry and a set
// child fills the pagination result. Other children are skipped.
func ParseInfo(resp *etree.Element) ([]Entry, *rsm.Result, error) {
	if stanza.IsError(resp) {
		return nil, nil, stanza.ParseError(resp)
	}
	entries := make([]Entry, 0)
	query := stanza.Query(resp)
	if query == nil {
		return entries, nil, nil
	}

	var set *rsm.Result
	for _, child := range query.ChildElements() {
		switch name := strings.ToLower(child.Tag); name {
		case "identity", "feature", "item":
			entries = append(entries, Entry{
				Kind:       Kind(name),
				Attributes: Recognized.FromElement(child),
			})
		case "x":
			entries = append(entries, Entry{
				Kind: KindForm,
				Form: dataform.Parse(child),
			})
		case "set":
			set = rsm.Parse(child)
		}
	}
	return entries, set, nil
}
