// Package poseidon implements the typed gateway to the remote
// voice-task service. Every operation is built on the resilient request
// executor with a small fixed retry budget and maps transport failures
// to domain-shaped results; raw transport errors never cross this
// package boundary.
package poseidon
