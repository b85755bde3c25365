package version

import "testing"

func TestString(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date
	defer func() {
		Version, Commit, Date = oldVersion, oldCommit, oldDate
	}()

	Version, Commit, Date = "dev", "none", "unknown"
	if got := String(); got != "dev (development build)" {
		t.Errorf("unexpected dev string: %q", got)
	}

	Version, Commit, Date = "v1.2.0", "abc1234", "2026-08-23"
	if got := String(); got != "v1.2.0 (commit: abc1234, built: 2026-08-23)" {
		t.Errorf("unexpected release string: %q", got)
	}
}
