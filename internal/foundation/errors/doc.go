// Package errors provides the classified error primitives used across docpipe.
//
// Every failure the engine reports carries a category from the content
// taxonomy (validation, parse, link, config, filesystem, backup, internal)
// and a severity. Only backup failures are fatal; the rest are collected into
// result objects and processing continues.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "read failed").
//		WithContext("path", path).
//		Build()
package errors
