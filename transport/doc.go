// Package transport serves a Kernel over a websocket. Each frame is one JSON
// message in the notebook messaging envelope (header, parent_header,
// metadata, content). Requests on one connection are handled in order;
// replies and side outputs carry the request header as their parent_header.
package transport
