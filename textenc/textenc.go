package textenc

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	rferrors "github.com/wippyai/resolvefs/errors"
)

// Default is used for strings when no encoding is configured.
const Default = "utf8"

// Encode converts s to bytes using the named encoding. Names are matched
// case-insensitively with dashes ignored:
//
//	utf8                 UTF-8 (default)
//	latin1, binary       ISO-8859-1; unmappable runes become 0x1A
//	ascii                same as latin1
//	utf16le, ucs2        UTF-16 little endian, no BOM
//	base64, base64url    decodes s; either alphabet, padding optional
//	hex                  decodes s; must be well-formed
func Encode(s, name string) ([]byte, error) {
	switch normalize(name) {
	case "", "utf8":
		return []byte(s), nil
	case "latin1", "binary", "ascii":
		return transform(encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()), s)
	case "utf16le", "ucs2":
		return transform(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder(), s)
	case "base64", "base64url":
		return decodeBase64(s)
	case "hex":
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, rferrors.New(rferrors.PhaseEncode, rferrors.KindInvalidInput).
				Detail("malformed hex").
				Cause(err).
				Build()
		}
		return b, nil
	default:
		return nil, rferrors.UnknownEncoding(name)
	}
}

// Known reports whether Encode accepts name.
func Known(name string) bool {
	switch normalize(name) {
	case "", "utf8", "latin1", "binary", "ascii", "utf16le", "ucs2", "base64", "base64url", "hex":
		return true
	}
	return false
}

func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "")
}

func transform(e *encoding.Encoder, s string) ([]byte, error) {
	b, err := e.Bytes([]byte(s))
	if err != nil {
		return nil, rferrors.Wrap(rferrors.PhaseEncode, rferrors.KindInvalidInput, err, "transcode text")
	}
	return b, nil
}

var base64Normalizer = strings.NewReplacer(
	"-", "+",
	"_", "/",
	"=", "",
	" ", "",
	"\n", "",
	"\r", "",
	"\t", "",
)

func decodeBase64(s string) ([]byte, error) {
	b, err := base64.RawStdEncoding.DecodeString(base64Normalizer.Replace(s))
	if err != nil {
		return nil, rferrors.New(rferrors.PhaseEncode, rferrors.KindInvalidInput).
			Detail("malformed base64").
			Cause(err).
			Build()
	}
	return b, nil
}
