// Package sidebars models named display regions (sidebars) that hold widgets,
// and exposes them to field types as a read-only Source.
//
// Rendering a sidebar is print style at its core: widgets are written to a
// writer one after another. Field types want the markup as a value, so the
// Capture adapter buffers a Printer once at this boundary and hands the
// output back as a string.
package sidebars
