// Package config carries small process-wide constants the driver and
// internal/utils share — source file discovery and the build version.
package config

// Version is the current funxy analyzer version, set at build time via
// -ldflags by the release script, or left at this default otherwise.
var Version = "0.1.0"

const SourceFileExt = ".fx"

// SourceFileExtensions are all recognized source file extensions the
// driver will pick up when walking a project directory.
var SourceFileExtensions = []string{".fx", ".funxy"}

// TrimSourceExt removes a recognized source extension from a filename,
// used to derive a module's default namespace segment from its path.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if path ends with any recognized source
// extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode defaults to false; the driver has no test command and never
// sets it.
var IsTestMode = false

// Built-in root-scope native type names (spec §3.2).
const (
	StringTypeName  = "string"
	NumberTypeName  = "number"
	BooleanTypeName = "boolean"
)
