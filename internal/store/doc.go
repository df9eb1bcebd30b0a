// Package store handles the process's only persistent inputs: the
// newline-delimited bearer token and proxy URI files. Files are read
// once per run cycle; nothing is ever written back.
package store
