// Package http implements the HTTP and websocket transport of the space
// server. It provides middleware, the REST route handlers backing the client
// adapter, and the watch endpoints that stream full-collection snapshot
// frames. Authentication, tracing, and request logging are handled at this
// layer before requests reach the repositories.
package http
