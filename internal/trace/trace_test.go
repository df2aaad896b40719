package trace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/gazegrid/internal/model"
)

func TestParseMixedSeparators(t *testing.T) {
	base := time.Unix(1000, 0)
	input := `# x y offset_ms
10 10 0

60,10,2000
	60	60	5000.5
`
	samples, err := Parse(strings.NewReader(input), base)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	if samples[1].Position != (model.Position{X: 60, Y: 10}) {
		t.Fatalf("unexpected position %+v", samples[1].Position)
	}
	if got := samples[2].At.Sub(base); got != 5000500*time.Microsecond {
		t.Fatalf("unexpected offset %s", got)
	}
}

func TestParseReportsLine(t *testing.T) {
	_, err := Parse(strings.NewReader("1 2 3\n4 five 6\n"), time.Time{})
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line 2 error, got %v", err)
	}
	if _, err := Parse(strings.NewReader("1 2\n"), time.Time{}); err == nil {
		t.Fatalf("expected field count error")
	}
}

func TestLoadEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("# nothing\n\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path, time.Time{}); err == nil {
		t.Fatalf("expected empty trace error")
	}
}
