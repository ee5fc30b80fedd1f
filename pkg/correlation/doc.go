// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package correlation binds outbound requests to their eventual responses.

Every outbound query gets a fresh identifier from an [IDSource] and is
registered with a [Tracker] together with the handler that should see
the response. When a response stanza with that identifier arrives the
tracker removes the correlation and invokes the handler exactly once.

# Identifiers

	ids := correlation.NewUUIDSource()          // "3f0c...": default
	ids := correlation.NewSequenceSource("c1-") // "c1-1", "c1-2", ...

# Tracker

	tracker := correlation.NewTracker(correlation.Config{
	    DuplicateWindow: time.Minute,
	})
	defer tracker.Close()

	tracker.Track(id, func(resp *etree.Element, err error) {
	    // resp is the correlated stanza, err is ErrTimeout or ErrClosed
	})

	// From the inbound stanza loop:
	if tracker.Resolve(stanza) {
	    return
	}

# Timeouts

By default a correlation waits forever. Setting Config.Timeout arms a
timer per correlation; when it expires the handler is invoked with
[ErrTimeout] and a late response is dropped as a duplicate.

# Duplicates

Resolved identifiers are remembered for Config.DuplicateWindow so that a
second response carrying the same identifier is recognised and dropped
instead of being routed to other handlers.
*/
package correlation
