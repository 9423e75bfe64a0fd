package shared

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Error taxonomy for the package management core. Every error carries
// an errbuilder code so CLI exit-code mapping and recoverability
// checks stay uniform:
//
//	manifest read failure    -> CodeDataLoss (recoverable, treat as no data)
//	registry unavailable     -> CodeUnavailable (recoverable, per-item)
//	cyclic dependency        -> CodeFailedPrecondition (fatal for that call)
//	unknown ecosystem        -> CodeInvalidArgument (caller contract violation)
//	unexpected adapter error -> CodeInternal

// ManifestReadError marks a malformed local manifest. A missing
// manifest is not an error; adapters return empty instead.
func ManifestReadError(path string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeDataLoss).
		WithMsg(fmt.Sprintf("malformed manifest %s", path)).
		WithCause(cause)
}

// RegistryUnavailableError marks a network or process failure while
// talking to an ecosystem registry.
func RegistryUnavailableError(ecosystem string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg(fmt.Sprintf("%s registry unavailable", ecosystem)).
		WithCause(cause)
}

// CyclicDependencyError names the offending root-to-node path.
func CyclicDependencyError(cycle []string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("dependency cycle: %s", strings.Join(cycle, " -> ")))
}

// UnknownEcosystemError is a caller configuration error, never
// swallowed into a structured result.
func UnknownEcosystemError(ecosystem string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("unknown ecosystem %q", ecosystem))
}

// PackageNotFoundError marks a name the registry does not know.
func PackageNotFoundError(ecosystem string, name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("%s: package %s not found", ecosystem, name))
}

// OperationError wraps an unexpected adapter failure.
func OperationError(operation string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("%s failed", operation)).
		WithCause(cause)
}

// IsManifestRead reports whether err is a manifest read failure.
func IsManifestRead(err error) bool {
	return err != nil && errbuilder.CodeOf(err) == errbuilder.CodeDataLoss
}

// IsRegistryUnavailable reports whether err is a recoverable registry
// failure.
func IsRegistryUnavailable(err error) bool {
	return err != nil && errbuilder.CodeOf(err) == errbuilder.CodeUnavailable
}

// IsPackageNotFound reports whether err marks an unknown package name.
func IsPackageNotFound(err error) bool {
	return err != nil && errbuilder.CodeOf(err) == errbuilder.CodeNotFound
}

// IsCyclicDependency reports whether err came from cycle detection.
func IsCyclicDependency(err error) bool {
	return err != nil && errbuilder.CodeOf(err) == errbuilder.CodeFailedPrecondition
}

// IsUnknownEcosystem reports whether err is an unknown-ecosystem
// contract violation.
func IsUnknownEcosystem(err error) bool {
	return err != nil && errbuilder.CodeOf(err) == errbuilder.CodeInvalidArgument
}
