// Package build runs the site generator over an extracted snapshot.
//
// A snapshot carrying settings.ini at its root is built with blogc in make
// mode; anything else falls back to GNU make. Both tools write into the
// output directory named by the OUTPUT_DIR environment variable.
package build
