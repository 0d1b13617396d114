// Package notify renders monitoring events: the terminal status panel,
// audible or textual alerts and an optional MQTT fan-out.
package notify
