// SPDX-License-Identifier: MIT

// Package site defines the descriptor of the OWASP Top 10 Labs documentation
// site: identity, deployment target, localisation, content presets and theme.
//
// A descriptor is built from authored literals, optionally overridden by a
// strict YAML or JSON file, stamped with a copyright derived from the current
// year, validated, and checked for broken navigation targets. Once returned it
// is read-only and may be shared by any number of goroutines.
package site
