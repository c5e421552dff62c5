// Package catalog holds the immutable pose catalog and solution table of
// one target shape, and the symmetry rules that turn a canonical catalog
// pose into the physically equivalent poses a piece may occupy.
package catalog
