// Package format renders arbitrary runtime values into bounded diagnostic
// strings.
//
// Containers are rendered by size only, long display strings are truncated
// with the original length appended, and rendering never panics.
package format
