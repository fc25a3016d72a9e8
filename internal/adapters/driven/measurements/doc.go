// Package measurements reads body measurement files and watches them for
// changes.
//
// A measurement file declares its unit once and maps names to values:
//
//	unit = "cm"
//
//	[measurements]
//	waist = 70
//	hip = 96.5
//
// The same layout is accepted as YAML when the file ends in .yaml or .yml.
package measurements
