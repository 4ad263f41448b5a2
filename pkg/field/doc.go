// Package field defines the meta box field model, the ordered option list that
// choice fields expose, and the registry that maps a field type identifier to
// its implementation.
//
// Normalization is composition based: a concrete field type fills its own
// defaults and options, then hands the field to NormalizeChoice (choice
// fields) or NormalizeBase (everything else) to finish shaping it. Every
// built-in normalization is a fixed point, so normalizing an already
// normalized field returns it unchanged.
package field
