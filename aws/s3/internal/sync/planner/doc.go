// Package planner turns local and remote inventories into an upload set,
// a delete set and a skip count.
package planner
