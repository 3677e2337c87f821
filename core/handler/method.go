package handler

import "strings"

// Method is an HTTP request method as it appears in the event envelope.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodOptions Method = "OPTIONS"
	MethodHead    Method = "HEAD"
)

// JoinMethods formats a method list for the Allow response header.
func JoinMethods(methods []Method) string {
	parts := make([]string, len(methods))
	for i, m := range methods {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}

// MethodStrings converts a method list into plain strings for JSON bodies.
func MethodStrings(methods []Method) []string {
	parts := make([]string, len(methods))
	for i, m := range methods {
		parts[i] = string(m)
	}
	return parts
}
