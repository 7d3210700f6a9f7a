package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCompareCmd(t *testing.T) {
	expected := writeJSON(t, "expected.json", `{"a":1,"list":[1,2]}`)

	tests := []struct {
		name    string
		actual  string
		lenient bool
		wantErr bool
		wantOut string
	}{
		{name: "equal", actual: `{"list":[1,2],"a":1}`, wantOut: "OK (strict)"},
		{name: "value differs", actual: `{"a":2,"list":[1,2]}`, wantErr: true, wantOut: "$.a"},
		{name: "extra field strict", actual: `{"a":1,"b":true,"list":[1,2]}`, wantErr: true, wantOut: "$.b"},
		{name: "extra field lenient", actual: `{"a":1,"b":true,"list":[1,2]}`, lenient: true, wantOut: "OK (lenient)"},
		{name: "order matters", actual: `{"a":1,"list":[2,1]}`, lenient: true, wantErr: true, wantOut: "$.list[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := []string{"compare", expected, writeJSON(t, "actual.json", tt.actual)}
			if tt.lenient {
				args = append(args, "--lenient")
			}
			out, err := runCmd(t, args...)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errDocumentsDiffer))
			} else {
				require.NoError(t, err)
			}
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestCompareCmd_Errors(t *testing.T) {
	good := writeJSON(t, "good.json", `{}`)

	_, err := runCmd(t, "compare", good, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = runCmd(t, "compare", good, writeJSON(t, "bad.json", `{`))
	assert.Error(t, err)

	_, err = runCmd(t, "compare", good)
	assert.Error(t, err)
}
