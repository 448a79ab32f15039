package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Token layout: "<" + escaped notebook path + ">[Cell" + index + "]".
const (
	addressOpen      = "<"
	addressSeparator = ">[Cell"
	addressClose     = "]"
)

// pathEscapes lists the characters percent-encoded inside a token. '%' must
// come first so already-escaped sequences are not double-decoded.
var pathEscapes = []struct {
	raw     string
	escaped string
}{
	{"%", "%25"},
	{"<", "%3C"},
	{">", "%3E"},
	{":", "%3A"},
}

// CellAddress identifies one cell of one notebook.
type CellAddress struct {
	Notebook Path
	Cell     int
}

// NewCellAddress validates and builds a CellAddress.
func NewCellAddress(notebook Path, cell int) (CellAddress, error) {
	if notebook == "" {
		return CellAddress{}, fmt.Errorf("%w: empty notebook path", ErrAddress)
	}

	if cell < 0 {
		return CellAddress{}, fmt.Errorf("%w: negative cell index %d", ErrAddress, cell)
	}

	return CellAddress{Notebook: notebook, Cell: cell}, nil
}

// EncodeAddress returns the token for (notebook, cell).
func EncodeAddress(notebook Path, cell int) (string, error) {
	addr, err := NewCellAddress(notebook, cell)
	if err != nil {
		return "", err
	}

	return addr.String(), nil
}

// DecodeAddress is the inverse of EncodeAddress. Anything following the
// token, such as "::test_name", is ignored.
func DecodeAddress(token string) (Path, int, error) {
	addr, _, err := SplitAddress(token)
	if err != nil {
		return "", 0, err
	}

	return addr.Notebook, addr.Cell, nil
}

// ParseAddress decodes the token prefix of s and discards any suffix.
func ParseAddress(s string) (CellAddress, error) {
	addr, _, err := SplitAddress(s)
	return addr, err
}

// IsAddress reports whether s starts like a cell address token. It does not
// validate the token.
func IsAddress(s string) bool {
	return strings.HasPrefix(s, addressOpen) && strings.Contains(s, addressSeparator)
}

// SplitAddress decodes the token at the start of s and returns the rest of s
// untouched.
func SplitAddress(s string) (CellAddress, string, error) {
	if !strings.HasPrefix(s, addressOpen) {
		return CellAddress{}, "", fmt.Errorf("%w: %q does not start with %q", ErrAddress, s, addressOpen)
	}

	end := strings.Index(s, addressSeparator)
	if end < 0 {
		return CellAddress{}, "", fmt.Errorf("%w: %q has no cell part", ErrAddress, s)
	}

	notebook, err := unescapePath(s[len(addressOpen):end])
	if err != nil {
		return CellAddress{}, "", err
	}

	rest := s[end+len(addressSeparator):]

	closing := strings.Index(rest, addressClose)
	if closing < 0 {
		return CellAddress{}, "", fmt.Errorf("%w: %q is not closed", ErrAddress, s)
	}

	cell, err := parseCellIndex(rest[:closing])
	if err != nil {
		return CellAddress{}, "", err
	}

	addr, err := NewCellAddress(Path(notebook), cell)
	if err != nil {
		return CellAddress{}, "", err
	}

	return addr, rest[closing+len(addressClose):], nil
}

// String returns the machine token of the address.
func (a CellAddress) String() string {
	return addressOpen + escapePath(string(a.Notebook)) + addressSeparator + strconv.Itoa(a.Cell) + addressClose
}

// Display renders the address for humans, e.g. "nb/demo.ipynb::Cell3". It is
// not a token: String and SplitAddress are the machine round trip. The
// command line additionally accepts this form as a convenience, splitting at
// the last "::Cell".
func (a CellAddress) Display() string {
	return fmt.Sprintf("%s::Cell%d", a.Notebook, a.Cell)
}

// Child returns the token of an item inside the cell, such as a test name.
func (a CellAddress) Child(name string) string {
	return a.String() + "::" + name
}

// Equal reports whether both addresses name the same cell of the same file.
func (a CellAddress) Equal(b CellAddress) bool {
	return a.Cell == b.Cell && SamePath(a.Notebook, b.Notebook)
}

// Key returns a normalised form suitable as a map key: equal addresses
// produce equal keys whenever the paths can be made absolute.
func (a CellAddress) Key() string {
	return CellAddress{Notebook: normalizePath(a.Notebook), Cell: a.Cell}.String()
}

// SamePath compares two paths under filesystem-path equality.
func SamePath(a, b Path) bool {
	if normalizePath(a) == normalizePath(b) {
		return true
	}

	infoA, errA := os.Stat(string(a))
	infoB, errB := os.Stat(string(b))

	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}

func normalizePath(p Path) Path {
	cleaned := filepath.Clean(string(p))

	abs, err := filepath.Abs(cleaned)
	if err != nil {
		return Path(cleaned)
	}

	return Path(abs)
}

func escapePath(p string) string {
	for _, esc := range pathEscapes {
		p = strings.ReplaceAll(p, esc.raw, esc.escaped)
	}

	return p
}

func unescapePath(s string) (string, error) {
	if !strings.Contains(s, "%") {
		return s, nil
	}

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}

		if i+3 > len(s) {
			return "", fmt.Errorf("%w: truncated escape in %q", ErrAddress, s)
		}

		raw, ok := unescapeSequence(s[i : i+3])
		if !ok {
			return "", fmt.Errorf("%w: unknown escape %q", ErrAddress, s[i:i+3])
		}

		b.WriteString(raw)
		i += 2
	}

	return b.String(), nil
}

func unescapeSequence(seq string) (string, bool) {
	for _, esc := range pathEscapes {
		if strings.EqualFold(seq, esc.escaped) {
			return esc.raw, true
		}
	}

	return "", false
}

func parseCellIndex(digits string) (int, error) {
	if digits == "" {
		return 0, fmt.Errorf("%w: missing cell index", ErrAddress)
	}

	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: cell index %q is not a number", ErrAddress, digits)
		}
	}

	if len(digits) > 1 && digits[0] == '0' {
		return 0, fmt.Errorf("%w: cell index %q has leading zeros", ErrAddress, digits)
	}

	cell, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAddress, err)
	}

	return cell, nil
}
