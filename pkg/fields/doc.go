// Package fields holds the built-in field types and the explicit table that
// registers them with a field.Registry.
package fields
