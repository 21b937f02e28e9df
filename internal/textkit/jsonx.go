package textkit

// FirstJSONObject returns the first top-level balanced {...} block in s, or
// "" when none exists. Single left-to-right scan with a brace depth counter;
// linear time and no allocation beyond the returned slice.
//
// Braces inside quoted string values are not special-cased, so a literal "}"
// in a string truncates the match early. Downstream callers depend on this
// truncation behavior, so it stays.
func FirstJSONObject(s string) string {
	depth, start := 0, -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
