package roster

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"conduct-server-go/models"
)

// headerMarkers are substrings that only show up in table headers
// ("name" and "student" in Arabic and English). Matching is case-sensitive.
var headerMarkers = []string{"اسم", "طالب", "Name", "Student"}

// IsLikelyHeaderOrNoise reports whether a spreadsheet cell should not be
// treated as a student name: two characters or fewer after trimming, all
// digits (index columns), or containing a header marker.
//
// This is a heuristic. A real name containing "Name" is rejected and a
// free-text note longer than two characters is accepted.
func IsLikelyHeaderOrNoise(text string) bool {
	val := strings.TrimSpace(text)
	if utf8.RuneCountInString(val) <= 2 {
		return true
	}
	if isDigits(val) {
		return true
	}
	for _, marker := range headerMarkers {
		if strings.Contains(val, marker) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Reconcile merges candidate cells into a roster. Existing records are kept
// as they are and in order; surviving candidates that are not already
// present are appended as fresh students. Duplicates inside the batch are
// added once. It returns the new roster and how many students were added.
func Reconcile(cells []string, existing []models.Student) ([]models.Student, int) {
	roster := make([]models.Student, len(existing))
	copy(roster, existing)

	names := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		names[s.Name] = struct{}{}
	}

	added := 0
	for _, cell := range cells {
		if IsLikelyHeaderOrNoise(cell) {
			continue
		}
		val := strings.TrimSpace(cell)
		if _, ok := names[val]; ok {
			continue
		}
		roster = append(roster, models.NewStudent(val))
		names[val] = struct{}{}
		added++
	}
	return roster, added
}

// GroupPairs splits structured (class, name) rows into per-class candidate
// lists, keeping classes in first-seen order. Rows with a blank class or a
// name that looks like a header are dropped so that header rows never
// create classes.
func GroupPairs(pairs []models.ClassStudent) ([]string, map[string][]string) {
	var order []string
	cells := make(map[string][]string)
	for _, p := range pairs {
		class := strings.TrimSpace(p.Class)
		name := strings.TrimSpace(p.Name)
		if class == "" || name == "" || IsLikelyHeaderOrNoise(name) {
			continue
		}
		if _, ok := cells[class]; !ok {
			order = append(order, class)
		}
		cells[class] = append(cells[class], name)
	}
	return order, cells
}
