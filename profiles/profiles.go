// Package profiles provides embedded McEliece parameter profiles.
//
// Profiles are organized in subdirectories:
//   - raw/   - the CPA-only raw cipher
//   - cca2/  - Fujisaki, Pointcheval and Kobara-Imai conversions
//   - test/  - small parameter sets for tests and demos (not secure)
package profiles

import "embed"

// FS contains all embedded profile YAML files.
//
//go:embed all:raw all:cca2 all:test
var FS embed.FS
