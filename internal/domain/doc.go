// Package domain contains the core value objects for petship.
//
// This package is the innermost layer. It has no dependencies on the bus,
// the file system or logging and only holds validation rules.
//
// # Values
//
//   - [DeviceAddress]: IEEE-488 primary address of the target (0-30)
//   - [AddressSource]: where a load takes its target address from
//   - [Operation]: one of [Execute], [Run] or [Load]
//   - [Request]: raw user input, turned into an Operation by [Request.Resolve]
//
// All values are created per invocation and never shared.
package domain
