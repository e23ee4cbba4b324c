// Package version records the maskpass release version.
package version

// Version is the current maskpass version.
const Version = "1.0.0"
