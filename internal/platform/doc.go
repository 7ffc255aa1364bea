// Package platform provides the cross-platform filesystem primitives behind
// shim installation: placing an alias stub (symlink on Unix, full copy on
// Windows), executable naming, and permission handling.
package platform
