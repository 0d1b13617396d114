// Package session holds the state of the charging order being monitored:
// its identifier, the alert threshold and the bounded window of recent
// power readings. A Context is owned by the run loop and is not safe for
// concurrent use.
package session
