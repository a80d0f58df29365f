// Package comparator decides whether a local file differs from the
// object stored under the same key.
package comparator
