package dp

import "testing"

func TestSink_ReportOrderAndCounts(t *testing.T) {
	sink := NewSink()
	sink.Errorf(1, 1, "first")
	sink.Warnf(2, 1, "second")
	sink.Errorf(3, 1, "third")

	got := sink.Diagnostics()
	if len(got) != 3 {
		t.Fatalf("got %d diagnostics, want 3", len(got))
	}
	if got[0].Message != "first" || got[1].Message != "second" || got[2].Message != "third" {
		t.Fatalf("diagnostics out of report order: %v", got)
	}
	if sink.Count(SeverityError) != 2 {
		t.Fatalf("error count = %d, want 2", sink.Count(SeverityError))
	}
	if sink.Count(SeverityWarning) != 1 {
		t.Fatalf("warning count = %d, want 1", sink.Count(SeverityWarning))
	}
	if sink.ErrorCount() != 2 {
		t.Fatalf("ErrorCount() = %d, want 2", sink.ErrorCount())
	}
}

func TestSink_DiagnosticsReturnsACopy(t *testing.T) {
	sink := NewSink()
	sink.Errorf(1, 1, "only")
	got := sink.Diagnostics()
	got[0].Message = "mutated"
	if sink.Diagnostics()[0].Message != "only" {
		t.Fatalf("Diagnostics() leaked its backing array to a caller mutation")
	}
}

func TestSeverity_String(t *testing.T) {
	cases := map[Severity]string{
		SeverityError:   "Error",
		SeverityWarning: "Warning",
		SeverityInfo:    "Info",
		SeverityLog:     "Log",
	}
	for sev, want := range cases {
		if got := sev.String(); got != want {
			t.Fatalf("Severity(%d).String() = %q, want %q", sev, got, want)
		}
	}
}
