// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package disco implements XEP-0030 Service Discovery for a client session:
asking a peer which items and features an address exposes, and answering
the same question when a peer asks us.

# Querying

	d, err := disco.New(disco.Config{
	    Sender:   conn,           // transport.Sender
	    Tracker:  tracker,        // *correlation.Tracker
	    Notifier: bus,            // events.Notifier
	})

	err = d.GetFeatures(disco.Request{Of: "wonderland.lit"},
	    func(entries []disco.Entry, set *rsm.Result, err error) {
	        for _, e := range entries {
	            switch e.Kind {
	            case disco.KindIdentity:
	            case disco.KindFeature:
	            case disco.KindItem:
	            case disco.KindForm:
	            }
	        }
	    })

A non-nil error from GetItems or GetFeatures means the request was
rejected locally and nothing was sent. Otherwise the callback runs exactly
once: with the parsed result, with the peer's *stanza.Error, or with the
reason the response will never arrive.

# Answering

Inbound disco#info queries are classified by [Disco.Handles] and
forwarded to the owner as an [InboundQuery] notification named
[EventClient]. The owner answers with [Disco.SendResult]:

	bus.On(disco.EventClient, func(p any) {
	    q := p.(disco.InboundQuery)
	    d.SendResult(disco.InfoResponse{To: q.From, ID: q.ID, Features: features})
	})

[StaticResponder] does this for a fixed feature list.

# Event table

[Disco.Events] returns the handlers for the owner-facing event bus:

	xmpp.discover.items   {of, node?, rsm?} -> (err, []Attributes, *rsm.Result)
	xmpp.discover.info    {of, node?, rsm?} -> (err, []Entry, *rsm.Result)
	xmpp.discover.client  {to, id, node?, features?} -> (err, true)

Requests rejected locally produce an events.ClientError, passed to the
callback when one was supplied and emitted as xmpp.error.client
otherwise.

# References

  - XEP-0030 Service Discovery: https://xmpp.org/extensions/xep-0030.html
  - XEP-0059 Result Set Management: https://xmpp.org/extensions/xep-0059.html
  - XEP-0128 Service Discovery Extensions: https://xmpp.org/extensions/xep-0128.html
*/
package disco
