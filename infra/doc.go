// Package infra holds the adapters behind the core interfaces: the charging
// API client, terminal and MQTT notifiers, metrics exporters, logging and
// error reporting.
package infra
