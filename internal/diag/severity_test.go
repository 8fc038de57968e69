package diag

import "testing"

func TestSeverityOrderAndNames(t *testing.T) {
	if !(SevInfo < SevWarning && SevWarning < SevError) {
		t.Fatalf("severities out of order: %d %d %d", SevInfo, SevWarning, SevError)
	}
	for sev, want := range map[Severity]string{
		SevInfo:      "INFO",
		SevWarning:   "WARNING",
		SevError:     "ERROR",
		Severity(42): "UNKNOWN",
	} {
		if got := sev.String(); got != want {
			t.Fatalf("Severity(%d).String() = %q, want %q", sev, got, want)
		}
	}
}
