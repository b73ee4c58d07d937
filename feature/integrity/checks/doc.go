// Package checks implements the individual integrity checks: storage
// reachability, polygon layer resolution and persisted table shape.
// Each check is a pure function over its dependencies so it can run
// from the service, the CLI or a test without wiring.
package checks
