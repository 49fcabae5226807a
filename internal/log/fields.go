// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldLoadID = "load_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Descriptor fields
	FieldField  = "field"
	FieldPolicy = "policy"
	FieldPreset = "preset"
	FieldSource = "source"
	FieldTarget = "target"
	FieldLocale = "locale"
	FieldRoutes = "routes"
	FieldFormat = "format"

	// Path / URL fields
	FieldPath    = "path"
	FieldBaseURL = "base_url"
	FieldSiteDir = "site_dir"
)
