package font

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/tsawler/udf/core"
)

// CMap maps 2-byte character codes to Unicode text. It is written as the
// ToUnicode CMap of embedded fonts.
type CMap struct {
	mappings map[uint32]string
}

// NewCMap creates a new empty CMap
func NewCMap() *CMap {
	return &CMap{mappings: make(map[uint32]string)}
}

// Add maps code to s. The first mapping for a code wins.
func (cm *CMap) Add(code uint32, s string) {
	if _, ok := cm.mappings[code]; !ok {
		cm.mappings[code] = s
	}
}

// Len returns the number of mapped codes.
func (cm *CMap) Len() int { return len(cm.mappings) }

// Lookup returns the text for code, or "" when it is unmapped.
func (cm *CMap) Lookup(code uint32) string {
	return cm.mappings[code]
}

// LookupString decodes a string of 2-byte codes.
func (cm *CMap) LookupString(data []byte) string {
	var sb strings.Builder
	for i := 0; i+1 < len(data); i += 2 {
		sb.WriteString(cm.Lookup(uint32(data[i])<<8 | uint32(data[i+1])))
	}
	return sb.String()
}

// maxBfChar is the largest bfchar block the CMap syntax allows.
const maxBfChar = 100

// Bytes returns the CMap program.
func (cm *CMap) Bytes() []byte {
	codes := make([]uint32, 0, len(cm.mappings))
	for c := range cm.mappings {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	var buf bytes.Buffer
	buf.WriteString("/CIDInit /ProcSet findresource begin\n12 dict begin\nbegincmap\n")
	buf.WriteString("/CIDSystemInfo << /Registry (Adobe) /Ordering (UCS) /Supplement 0 >> def\n")
	buf.WriteString("/CMapName /Adobe-Identity-UCS def\n/CMapType 2 def\n")
	buf.WriteString("1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n")

	for start := 0; start < len(codes); start += maxBfChar {
		end := min(start+maxBfChar, len(codes))
		fmt.Fprintf(&buf, "%d beginbfchar\n", end-start)
		for _, c := range codes[start:end] {
			fmt.Fprintf(&buf, "<%04X> <%s>\n", c, utf16Hex(cm.mappings[c]))
		}
		buf.WriteString("endbfchar\n")
	}

	buf.WriteString("endcmap\nCMapName currentdict /CMap defineresource pop\nend\nend\n")
	return buf.Bytes()
}

// Stream returns the CMap as a compressed stream object.
func (cm *CMap) Stream() (*core.Stream, error) {
	return core.NewFlateStream(nil, cm.Bytes(), nil)
}

func utf16Hex(s string) string {
	var sb strings.Builder
	for _, u := range utf16.Encode([]rune(s)) {
		fmt.Fprintf(&sb, "%04X", u)
	}
	return sb.String()
}

// ParseCMap reads the bfchar and bfrange sections of a ToUnicode CMap.
// Unparseable entries are skipped.
func ParseCMap(data []byte) *CMap {
	cm := NewCMap()
	content := string(data)

	for _, section := range sections(content, "beginbfchar", "endbfchar") {
		fields := hexFields(section)
		for i := 0; i+1 < len(fields); i += 2 {
			code, err := strconv.ParseUint(fields[i], 16, 32)
			if err != nil {
				continue
			}
			if s, err := hexToUnicode(fields[i+1]); err == nil {
				cm.Add(uint32(code), s)
			}
		}
	}

	for _, section := range sections(content, "beginbfrange", "endbfrange") {
		fields := hexFields(section)
		for i := 0; i+2 < len(fields); i += 3 {
			lo, err1 := strconv.ParseUint(fields[i], 16, 32)
			hi, err2 := strconv.ParseUint(fields[i+1], 16, 32)
			dst, err3 := strconv.ParseUint(fields[i+2], 16, 32)
			if err1 != nil || err2 != nil || err3 != nil || hi < lo {
				continue
			}
			for c := lo; c <= hi; c++ {
				cm.Add(uint32(c), string(rune(dst+c-lo)))
			}
		}
	}
	return cm
}

// sections returns the text between every begin/end keyword pair.
func sections(content, begin, end string) []string {
	var out []string
	for {
		i := strings.Index(content, begin)
		if i < 0 {
			return out
		}
		content = content[i+len(begin):]
		j := strings.Index(content, end)
		if j < 0 {
			return out
		}
		out = append(out, content[:j])
		content = content[j+len(end):]
	}
}

// hexFields returns the contents of every <...> token in s.
func hexFields(s string) []string {
	var out []string
	for {
		i := strings.IndexByte(s, '<')
		if i < 0 {
			return out
		}
		j := strings.IndexByte(s[i:], '>')
		if j < 0 {
			return out
		}
		out = append(out, s[i+1:i+j])
		s = s[i+j+1:]
	}
}

// hexToUnicode decodes a UTF-16BE hex string.
func hexToUnicode(hexStr string) (string, error) {
	data, err := hex.DecodeString(hexStr)
	if err != nil {
		return "", err
	}
	if len(data)%2 != 0 {
		return "", fmt.Errorf("invalid UTF-16BE data length")
	}
	units := make([]uint16, len(data)/2)
	for i := range units {
		units[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return string(utf16.Decode(units)), nil
}
