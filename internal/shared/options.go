package shared

import (
	"fmt"
	"strings"
)

// Options is the fully resolved configuration record handed to the export
// engine. Precedence is built-in default < config file < command-line flag;
// the flag layer is applied by the CLI before any core component runs.
type Options struct {
	OutputDir          string
	Formats            []string
	IncludeURIs        bool
	IncludeExternalIDs bool
	SortKey            string
	Reverse            bool
	ShowBar            bool
	Workers            int
	RateLimit          float64
}

// Options projects the config file values (already overlaid on built-in
// defaults) into an [Options] record.
func (c *Config) Options() Options {
	return Options{
		OutputDir:          c.Export.Output,
		Formats:            append([]string(nil), c.Export.Format...),
		IncludeURIs:        c.Export.URIs,
		IncludeExternalIDs: c.Export.ExternalIDs,
		SortKey:            c.Export.SortKey,
		Reverse:            c.Export.Reverse,
		ShowBar:            !c.Export.NoBar,
		Workers:            c.Export.Workers,
		RateLimit:          c.Export.RateLimit,
	}
}

// NormalizeFormats validates and deduplicates output format names, keeping
// first-seen order.
func NormalizeFormats(formats []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if f != "csv" && f != "json" {
			return nil, fmt.Errorf("unsupported format %q (expected csv or json)", f)
		}
		seen[f] = true
		out = append(out, f)
	}
	if len(out) == 0 {
		out = []string{"csv"}
	}
	return out, nil
}
