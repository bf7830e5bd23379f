// Package preflight runs startup checks: directory access, free space
// in the work directory, and availability of the external tools.
package preflight
