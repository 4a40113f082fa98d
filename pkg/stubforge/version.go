// Package stubforge exposes module-level metadata.
package stubforge

// Version is the stubforge release version.
const Version = "0.3.0"
