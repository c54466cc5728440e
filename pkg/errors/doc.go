// Package errors provides structured error types with error codes and a
// uniform JSON error body shared by every HTTP endpoint.
package errors
