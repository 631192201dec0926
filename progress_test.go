package meshpatch

import (
	"bytes"
	"strings"
	"testing"
)

func TestTerminalProgress(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	p := &TerminalProgress{W: buf}

	p.Report("Creating patches", 0.5)
	got := buf.String()
	if !strings.HasPrefix(got, "\rCreating patches: [") {
		t.Errorf("unexpected bar prefix: %q", got)
	}
	if !strings.Contains(got, strings.Repeat("#", 20)+strings.Repeat("-", 20)) {
		t.Errorf("bar for 0.5 should be half filled: %q", got)
	}
	if !strings.Contains(got, "50.00%") {
		t.Errorf("bar should show the percentage: %q", got)
	}
	if strings.Contains(got, "DONE") {
		t.Errorf("bar should not be done at 0.5: %q", got)
	}

	buf.Reset()
	p.Report("Creating patches", 1)
	got = buf.String()
	if !strings.Contains(got, strings.Repeat("#", 40)) {
		t.Errorf("bar for 1 should be full: %q", got)
	}
	if !strings.HasSuffix(got, " DONE\r\n") {
		t.Errorf("bar for 1 should finish with DONE: %q", got)
	}
}

func TestTerminalProgressNilWriter(t *testing.T) {
	p := new(TerminalProgress)
	p.Report("Creating patches", 0.5) // must not panic
}

func TestProgressFunc(t *testing.T) {
	var gotLabel string
	var gotFraction float64
	p := ProgressFunc(func(label string, fraction float64) {
		gotLabel, gotFraction = label, fraction
	})
	p.Report("gathering", 0.25)
	if gotLabel != "gathering" || gotFraction != 0.25 {
		t.Errorf("got (%q, %g), want (\"gathering\", 0.25)", gotLabel, gotFraction)
	}
}
