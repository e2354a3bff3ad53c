package base

import "strings"

// Rule is the line drawn above and below section titles.
var Rule = strings.Repeat("=", 70)

// Section prints a section header.
func (c *Command) Section(title string) {
	c.UI.Output("\n" + Rule)
	c.UI.Output(" " + title)
	c.UI.Output(Rule)
}

// SubSection prints a lighter section header.
func (c *Command) SubSection(title string) {
	c.UI.Output("\n" + strings.Repeat("-", 70))
	c.UI.Output(" " + title)
	c.UI.Output(strings.Repeat("-", 70))
}

// Display returns s, or def when s is empty.
func Display(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Truncate cuts s to n characters followed by "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// First returns at most the first n elements of s.
func First[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
