// Package strictframe carries project-level metadata.
package strictframe

// Version is the strictframe release version.
const Version = "v0.1.0"
