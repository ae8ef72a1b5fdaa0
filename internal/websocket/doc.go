// Package websocket implements the dashboard callback channel.
//
// A page sends {"id","chart","params"} whenever one of its controls
// changes. The client's read pump answers each request through a
// FigureProvider and queues either {"id","type":"figure","data"} or an
// error message carrying a code and the allowed values. The hub only
// tracks membership; it never blocks on a slow client.
package websocket
