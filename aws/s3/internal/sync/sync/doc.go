// Package sync coordinates the sync phases: inventory, planning and execution.
package sync
