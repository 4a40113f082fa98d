// Package types defines the contract descriptor model, the generation
// policy, the synthesis backend and registry interfaces, and the standard
// errors for the stubforge synthesis system.
package types
