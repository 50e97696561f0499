// Package middleware groups the HTTP middleware used by the server:
// rayid (request correlation) and auth (API key protection).
package middleware
