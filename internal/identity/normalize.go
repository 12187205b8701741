// Package identity canonicalizes employee names and resolves the numeric
// identifier used to match employees across the timesheet and payroll exports.
package identity

import (
	"strconv"
	"strings"
)

// CleanName normalizes a raw employee name to "Firstname Surname" title case.
// "SURNAME, FIRSTNAME" input is reordered; internal whitespace is collapsed.
// An empty or whitespace-only input yields "".
func CleanName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return ""
	}

	// "Surname, Firstname" exports come from payroll-adjacent systems; split
	// on the first comma only so double-barrelled surnames survive.
	if idx := strings.Index(name, ","); idx >= 0 {
		surname := strings.TrimSpace(name[:idx])
		forename := strings.TrimSpace(name[idx+1:])
		if surname != "" && forename != "" {
			name = forename + " " + surname
		} else {
			name = surname + forename
		}
	}

	return titleCase(name)
}

// ComposeName joins separate forename/surname fields into a cleaned display
// name, returning "" when both halves are blank or placeholder values.
func ComposeName(forename, surname string) string {
	f := strings.TrimSpace(forename)
	s := strings.TrimSpace(surname)
	if isPlaceholder(f) {
		f = ""
	}
	if isPlaceholder(s) {
		s = ""
	}
	return CleanName(strings.TrimSpace(f + " " + s))
}

func isPlaceholder(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "n/a", "-":
		return true
	}
	return false
}

// titleCase capitalizes each word, with fixups for the name particles that
// plain word-capitalization gets wrong. Heuristic, not exhaustive.
func titleCase(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, w := range words {
		words[i] = capitalizeWord(w)
	}
	return strings.Join(words, " ")
}

func capitalizeWord(w string) string {
	if w == "" {
		return w
	}

	// Apostrophe particles: o'brien -> O'Brien.
	if idx := strings.Index(w, "'"); idx == 1 {
		return strings.ToUpper(w[:1]) + "'" + capitalizeWord(w[2:])
	}

	// Hyphenated surnames capitalize each segment.
	if idx := strings.Index(w, "-"); idx > 0 {
		return capitalizeWord(w[:idx]) + "-" + capitalizeWord(w[idx+1:])
	}

	upper := strings.ToUpper(w[:1]) + w[1:]

	// mcdonald -> McDonald. "Mc" followed by at least two letters avoids
	// mangling short names like "Mc" itself.
	if strings.HasPrefix(w, "mc") && len(w) > 3 {
		upper = "Mc" + strings.ToUpper(w[2:3]) + w[3:]
	}

	return upper
}

// ResolveID parses a raw identifier cell into a positive employee ID.
// Numeric strings with a trailing ".0" (a spreadsheet float artifact) are
// accepted. Anything non-positive or unparseable resolves to ok=false, and
// the caller drops the row rather than falling back to name matching.
func ResolveID(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n > 0 {
			return n, true
		}
		return 0, false
	}

	// Spreadsheets round-trip integer IDs through floats.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n := int(f)
		if float64(n) == f && n > 0 {
			return n, true
		}
	}

	return 0, false
}
