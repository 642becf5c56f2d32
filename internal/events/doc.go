// Package events provides the typed publish/subscribe channel between the
// sync coordinator and independent consumers such as a revision-browsing
// view. Consumers register explicit handlers instead of listening on an
// ambient broadcast bus.
package events
