package filters

import (
	"encoding/hex"
	"strings"
)

// ASCIIHexEncode returns data as uppercase hexadecimal digits.
func ASCIIHexEncode(data []byte) []byte {
	return []byte(strings.ToUpper(hex.EncodeToString(data)))
}
