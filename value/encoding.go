package value

import "github.com/wippyai/resolvefs/textenc"

// DefaultEncoding is used for strings when no encoding is configured.
const DefaultEncoding = textenc.Default

// Encode converts s to bytes using the named encoding.
// See textenc.Encode for the accepted names.
func Encode(s, name string) ([]byte, error) {
	return textenc.Encode(s, name)
}

// KnownEncoding reports whether Encode accepts name.
func KnownEncoding(name string) bool {
	return textenc.Known(name)
}
