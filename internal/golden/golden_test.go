package golden

import (
	"flag"
	"os"
	"testing"
)

var update = flag.Bool("update", false, "record golden output instead of comparing against it")

func TestFixtures(t *testing.T) {
	cases, err := Discover("../../testdata/golden")
	if err != nil {
		t.Fatalf("discovering fixtures: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("no fixtures found under testdata/golden")
	}

	for _, c := range cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			source, err := os.ReadFile(c.SourcePath)
			if err != nil {
				t.Fatalf("reading %s: %v", c.SourcePath, err)
			}
			got := Run(source)

			if *update {
				if err := Save(c.GoldenPath, got); err != nil {
					t.Fatalf("recording %s: %v", c.GoldenPath, err)
				}
				return
			}

			want, err := Load(c.GoldenPath)
			if err != nil {
				t.Fatalf("loading %s (run with -update to record it): %v", c.GoldenPath, err)
			}
			if diff := Diff(want, got); diff != "" {
				t.Errorf("%s: %s", c.Name, diff)
			}
		})
	}
}
