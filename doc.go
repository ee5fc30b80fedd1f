// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package godisco implements XMPP Service Discovery (XEP-0030) for client
sessions, with result set management (XEP-0059) and data forms (XEP-0004)
carried inside discovery responses.

# Overview

go-disco lets a client ask a peer which items and features an address
exposes, and answer the same question when a peer asks. Requests are
correlated with their responses by iq id; responses are interpreted into
generic attribute maps so callers see every identity, feature, item and
extended form the peer advertised.

# Package Structure

	github.com/sirosfoundation/go-disco/pkg/disco       - Queries, response interpretation, inbound answers
	github.com/sirosfoundation/go-disco/pkg/stanza      - iq construction, parsing and stanza errors
	github.com/sirosfoundation/go-disco/pkg/rsm         - XEP-0059 result set management
	github.com/sirosfoundation/go-disco/pkg/dataform    - XEP-0004 data forms
	github.com/sirosfoundation/go-disco/pkg/correlation - Pending request tracking and id generation
	github.com/sirosfoundation/go-disco/pkg/dispatch    - Inbound stanza routing
	github.com/sirosfoundation/go-disco/pkg/events      - Named client events with JSON payloads
	github.com/sirosfoundation/go-disco/pkg/transport   - Outbound stanza senders

# Quick Start

	tracker := correlation.NewTracker(correlation.Config{Timeout: 30 * time.Second})
	defer tracker.Close()

	d, _ := disco.New(disco.Config{
	    Sender:   transport.NewStreamSender(conn),
	    Tracker:  tracker,
	    Notifier: bus,
	})

	router := dispatch.NewRouter(tracker, logger,
	    dispatch.Route{Kind: stanza.KindIQ, Handler: d})

	err := d.GetFeatures(disco.Request{Of: "wonderland.lit"},
	    func(entries []disco.Entry, set *rsm.Result, err error) {
	        // ...
	    })

Inbound stanzas read from the stream are passed to router.Route.

# References

  - XEP-0030 Service Discovery: https://xmpp.org/extensions/xep-0030.html
  - XEP-0059 Result Set Management: https://xmpp.org/extensions/xep-0059.html
  - XEP-0004 Data Forms: https://xmpp.org/extensions/xep-0004.html
  - RFC 6120 stanza errors: https://www.rfc-editor.org/rfc/rfc6120#section-8.3

# License

BSD-2-Clause License
*/
package godisco
