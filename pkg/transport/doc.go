// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package transport hands serialized stanzas to the underlying XMPP stream.

Connection setup, TLS and stream negotiation belong to the stream owner;
this package only defines the Sender seam and simple implementations.

# Writing to a Stream

	sender := transport.NewStreamSender(conn)
	defer sender.Close()

	err := sender.Send(iq)

# XMPP over WebSocket

WebSocketConn carries one stanza per text message (RFC 7395). Inbound
stanzas are handed to a callback, typically a dispatch router:

	conn, err := transport.DialWebSocket(ctx, "wss://example.net/xmpp-websocket", nil)
	if err != nil {
	    return err
	}
	defer conn.Close()

	go conn.ReadLoop(func(el *etree.Element) { _ = router.Route(el) })

# Recording

Recorder keeps a copy of every stanza it forwards, which makes it useful
for tests and for tracing what a session has sent:

	rec := transport.NewRecorder(sender)
	_ = rec.Send(iq)
	last := rec.Last()

# References

  - RFC 6120 XML Streams: https://www.rfc-editor.org/rfc/rfc6120#section-4
  - RFC 7395 XMPP over WebSocket: https://www.rfc-editor.org/rfc/rfc7395
*/
package transport
