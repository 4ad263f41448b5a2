// Package template defines the template rendering seam used by the sidebar
// registry and the HTML renderer. The pongo2 backed implementation lives in
// the gotemplate subpackage.
package template
