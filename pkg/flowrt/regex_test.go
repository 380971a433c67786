package flowrt_test

import (
	"testing"

	"github.com/artuross/nifi2go/pkg/flowrt"
	"github.com/stretchr/testify/assert"
)

func TestRegexHelpers(t *testing.T) {
	assert.True(t, flowrt.Matches("abc123", `[a-z]+\d+`))
	assert.False(t, flowrt.Matches("abc123x", `[a-z]+\d+`))
	assert.True(t, flowrt.Find("abc123x", `\d+`))
	assert.False(t, flowrt.Find("abc", `(`))
	assert.False(t, flowrt.Matches("abc", `(`))
}

func TestValidPattern(t *testing.T) {
	assert.True(t, flowrt.ValidPattern(`^[a-z]+\.(csv|txt)$`))
	assert.True(t, flowrt.ValidPattern(`(?<year>\d{4})`))
	assert.False(t, flowrt.ValidPattern(`(?=x).*`))
	assert.False(t, flowrt.ValidPattern(`(?<=x)y`))
	assert.False(t, flowrt.ValidPattern(`a++`))
	assert.False(t, flowrt.ValidPattern(`(a)\1`))
	assert.False(t, flowrt.ValidPattern(`(`))
}

func TestReplaceHelpers(t *testing.T) {
	type testCase struct {
		name     string
		actual   string
		expected string
	}

	testCases := []testCase{
		{"all", flowrt.ReplaceAll("a.b.c", `\.`, "-"), "a-b-c"},
		{"all / anchored", flowrt.ReplaceAll("file.txt.gz", `\.gz$`, ""), "file.txt"},
		{"all / group", flowrt.ReplaceAll("2021-03-04", `(\d+)-(\d+)-(\d+)`, "$3/$2/$1"), "04/03/2021"},
		{"all / group followed by letter", flowrt.ReplaceAll("ab", `(a)`, "$1x"), "axb"},
		{"all / escaped dollar", flowrt.ReplaceAll("price", `price`, `\$5`), "$5"},
		{"all / bare dollar", flowrt.ReplaceAll("a", `a`, `$`), "$"},
		{"all / named group", flowrt.ReplaceAll("key=value", `(?P<k>\w+)=(?P<v>\w+)`, "${v}=${k}"), "value=key"},
		{"all / invalid pattern", flowrt.ReplaceAll("abc", `(`, "x"), "abc"},
		{"first", flowrt.ReplaceFirst("a.b.c", `\.`, "-"), "a-b.c"},
		{"first / group", flowrt.ReplaceFirst("aa-bb", `(\w+)`, "<$1>"), "<aa>-bb"},
		{"first / no match", flowrt.ReplaceFirst("abc", `\d`, "x"), "abc"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.actual)
		})
	}
}
