package main

import (
	"strings"
	"testing"

	"github.com/Tap30/caliper-go/fixtures"
	"github.com/Tap30/caliper-go/jsonassert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExampleCmd_MatchesFixture(t *testing.T) {
	want := fixtures.MustLoad("caliperEventBasicModifiedExtended.json")

	out, err := runCmd(t, "example")
	require.NoError(t, err)
	jsonassert.RequireEqual(t, want, []byte(out), jsonassert.ModeStrict)
	assert.Contains(t, out, "\n  \"@context\"")
}

func TestExampleCmd_Compact(t *testing.T) {
	out, err := runCmd(t, "example", "--compact")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.True(t, strings.HasPrefix(out, `{"@context":`))
}

func TestExampleCmd_RejectsArgs(t *testing.T) {
	_, err := runCmd(t, "example", "extra")
	assert.Error(t, err)
}
