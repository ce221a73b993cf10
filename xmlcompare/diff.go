package xmlcompare

import (
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns a human-readable delta between the canonical forms of a and
// b, for test failure output. The empty string means the documents are
// semantically equal.
func Diff(a, b []byte, opts ...Option) (string, error) {
	ca, err := New(a, opts...)
	if err != nil {
		return "", err
	}
	cb, err := New(b, opts...)
	if err != nil {
		return "", err
	}

	sa, sb := ca.Canonical(), cb.Canonical()
	if sa == sb {
		return "", nil
	}

	dmp := diffpatch.New()
	diffs := dmp.DiffMain(sa, sb, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffPrettyText(diffs), nil
}
