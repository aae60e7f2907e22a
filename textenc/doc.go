// Package textenc converts Go strings to bytes under a named encoding.
//
// It is shared by the value resolver (string leaves) and stream draining
// (text chunks), so both accept the same encoding names.
package textenc
