// Package types defines the value types, slot identities, configuration,
// catalog source interface and standard errors shared by the tangram board,
// its catalog store and its collaborators.
package types
