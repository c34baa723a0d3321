// Package dieid converts die coordinates to and from their "X{x}Y{y}" names,
// the form used by wafer probers and test logs ("X-3Y12").
package dieid

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrSyntax indicates a string that is not a die name.
var ErrSyntax = errors.New("dieid: invalid die name")

var pattern = regexp.MustCompile(`^X([-+]?\d+)Y([-+]?\d+)$`)

// Format returns the die name for (x, y), e.g. "X-4Y2".
func Format(x, y int) string {
	return "X" + strconv.Itoa(x) + "Y" + strconv.Itoa(y)
}

// Parse decodes a die name. Surrounding whitespace is ignored.
func Parse(s string) (x, y int, err error) {
	m := pattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	if x, err = strconv.Atoi(m[1]); err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrSyntax, s, err)
	}
	if y, err = strconv.Atoi(m[2]); err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrSyntax, s, err)
	}
	return x, y, nil
}

// FormatList names every pair in order.
func FormatList(dies [][2]int) []string {
	out := make([]string, len(dies))
	for i, d := range dies {
		out[i] = Format(d[0], d[1])
	}
	return out
}

// ParseList decodes every name. Good entries are returned in order; bad
// entries are skipped and reported together in the joined error.
func ParseList(names []string) ([][2]int, error) {
	out := make([][2]int, 0, len(names))
	var errs []error
	for _, n := range names {
		x, y, err := Parse(n)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, [2]int{x, y})
	}
	return out, errors.Join(errs...)
}
