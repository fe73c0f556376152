// Package httpmetrics provides middleware for collecting metrics about http servers.
//
// Metrics are prefixed with:
//
//	http.server.<method>.<normalized route>
//	http.server.all
//
// For example, a request to GET /redirect/items/{item_id} emits metrics prefixed with:
//
//	http.server.get.redirect.items.item-id
//	http.server.all
//
// The route matched by "/" is named root. For each route, and under the
// global all prefix, servers report:
//
//	requests - counter of requests
//	request-duration.ms - histogram of request durations in milliseconds
//	response-statuses.<status code> - counter of response status codes, eg 301
package httpmetrics
