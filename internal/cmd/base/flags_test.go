package base

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagSetHelp(t *testing.T) {
	var format string
	var save bool

	f := NewFlagSet(flag.NewFlagSet("test", flag.ContinueOnError))
	f.StringVar(&format, "format", "text", "Output `format` (text, json or yaml)")
	f.BoolVar(&save, "save", false, "Save a snapshot and exit")

	help := f.Help()
	assert.Contains(t, help, "Options:")
	assert.Contains(t, help, "-format=<format> (default: text)")
	assert.Contains(t, help, "Output format (text, json or yaml)")
	assert.Contains(t, help, "  -save\n      Save a snapshot and exit")

	require.NoError(t, f.Parse([]string{"-format=json", "-save"}))
	assert.Equal(t, "json", format)
	assert.True(t, save)
}

func TestFlagSetHelpEmpty(t *testing.T) {
	f := NewFlagSet(flag.NewFlagSet("empty", flag.ContinueOnError))
	assert.Empty(t, f.Help())
}

func TestFlagSetParseError(t *testing.T) {
	f := NewFlagSet(flag.NewFlagSet("test", flag.ContinueOnError))
	assert.Error(t, f.Parse([]string{"-unknown"}))
}
