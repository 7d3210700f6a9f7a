package jsonassert

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tHelper interface {
	Helper()
}

// AssertEqual fails t with every difference between expected and actual.
// It returns whether the documents matched.
func AssertEqual[T ~string | ~[]byte](t assert.TestingT, expected, actual T, mode Mode, msgAndArgs ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	res, err := Compare([]byte(expected), []byte(actual), mode)
	if err != nil {
		return assert.Fail(t, err.Error(), msgAndArgs...)
	}
	if res.Passed() {
		return true
	}
	return assert.Fail(t, "JSON documents differ ("+mode.String()+"):\n"+res.String(), msgAndArgs...)
}

// RequireEqual is like AssertEqual but stops the test on failure.
func RequireEqual[T ~string | ~[]byte](t require.TestingT, expected, actual T, mode Mode, msgAndArgs ...any) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if !AssertEqual(t, expected, actual, mode, msgAndArgs...) {
		t.FailNow()
	}
}
