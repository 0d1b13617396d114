// Package monitor polls the charging data of one order, classifies every
// reading and drives the retry state machine around failed fetches.
package monitor
