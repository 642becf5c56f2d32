// Package api handles incoming HTTP requests, request validation, and
// response formatting. It adapts HTTP concerns to the session and revision
// services without leaking transport details into them.
package api
