package base

import (
	"bytes"
	"flag"
	"fmt"
	"strings"
)

// FlagSet wraps a flag.FlagSet to render help in the style of the CLI.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f. Output of f is discarded; use Help to render usage.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.Usage = func() {}
	f.SetOutput(new(bytes.Buffer))
	return &FlagSet{FlagSet: f}
}

// Help returns the usage text of every flag, or an empty string when the set
// has none.
func (f *FlagSet) Help() string {
	var b strings.Builder
	f.VisitAll(func(fl *flag.Flag) {
		if b.Len() == 0 {
			b.WriteString("\n\nOptions:\n")
		}
		name, usage := flag.UnquoteUsage(fl)
		if name == "" {
			fmt.Fprintf(&b, "\n  -%s", fl.Name)
		} else {
			fmt.Fprintf(&b, "\n  -%s=<%s>", fl.Name, name)
		}
		if fl.DefValue != "" && fl.DefValue != "false" {
			fmt.Fprintf(&b, " (default: %s)", fl.DefValue)
		}
		fmt.Fprintf(&b, "\n      %s\n", usage)
	})
	return b.String()
}
