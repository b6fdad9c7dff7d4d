package version

import "testing"

func TestStringAttachesShortCommit(t *testing.T) {
	origNumber, origCommit := Number, Commit
	defer func() { Number, Commit = origNumber, origCommit }()

	Number = "1.2.3"
	Commit = "4f9c1a2b0d3e7788aa11bb22cc33dd44ee55ff66"
	if got := String(); got != "1.2.3+4f9c1a2b0d3e" {
		t.Fatalf("String() = %q", got)
	}
}

func TestStringBareWithoutCommit(t *testing.T) {
	origNumber, origCommit := Number, Commit
	defer func() { Number, Commit = origNumber, origCommit }()

	Number = "1.2.3"
	Commit = ""
	// Test binaries carry no vcs.revision, so the number stands alone.
	if got := String(); got != "1.2.3" {
		t.Fatalf("String() = %q", got)
	}
}

func TestShortCommitKeptAsIs(t *testing.T) {
	origCommit := Commit
	defer func() { Commit = origCommit }()

	Commit = "4f9c1a2"
	if got := CommitHash(); got != "4f9c1a2" {
		t.Fatalf("CommitHash() = %q", got)
	}
}
