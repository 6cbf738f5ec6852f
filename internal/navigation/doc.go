// Package navigation builds the ordered navigation tree of one locale/version
// scope from the content tree and an optional sidebar configuration.
//
// Every pass (filtering, grouping, labeling, ordering, sorting) returns new
// items; input slices are never modified.
package navigation
