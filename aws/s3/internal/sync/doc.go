// Package sync implements one-way synchronization of a local output
// directory into a bucket: scanning both sides, planning uploads and
// deletions, and executing the plan.
package sync
