package shared

import "testing"

func TestConfigOptions(t *testing.T) {
	config := DefaultConfig()
	config.Export.URIs = true
	config.Export.NoBar = true
	config.Export.SortKey = "track name"

	opts := config.Options()
	if opts.OutputDir != "./playlists" {
		t.Errorf("unexpected output dir %q", opts.OutputDir)
	}
	if !opts.IncludeURIs {
		t.Error("uris flag should carry over")
	}
	if opts.ShowBar {
		t.Error("no_bar should disable the progress bar")
	}
	if opts.SortKey != "track name" {
		t.Errorf("unexpected sort key %q", opts.SortKey)
	}

	// Mutating the options' format slice must not alias the config.
	opts.Formats[0] = "json"
	if config.Export.Format[0] != "csv" {
		t.Error("options must copy the format slice")
	}
}

func TestNormalizeFormats(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr bool
	}{
		{name: "empty defaults to csv", in: nil, want: []string{"csv"}},
		{name: "dedupes preserving order", in: []string{"json", "csv", "json"}, want: []string{"json", "csv"}},
		{name: "trims and lowercases", in: []string{" CSV "}, want: []string{"csv"}},
		{name: "rejects unknown format", in: []string{"xml"}, wantErr: true},
		{name: "blank entries ignored", in: []string{"", "csv"}, want: []string{"csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeFormats(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("index %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}
