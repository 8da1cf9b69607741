// Package errors provides rich error types for grammar parsing and
// validation, with source locations and suggested fixes. Multiple errors
// accumulate in an ErrorList so grammar authors see every problem in one
// pass instead of fixing them one at a time.
package errors
