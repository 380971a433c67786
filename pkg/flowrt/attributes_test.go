package flowrt_test

import (
	"testing"

	"github.com/artuross/nifi2go/pkg/flowrt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributes(t *testing.T) {
	attrs := flowrt.Attributes{
		"filename":   "data.csv",
		"empty":      "",
		"http.host":  "example.org",
		"http.path":  "/index",
		"record.cnt": "10",
	}

	assert.Equal(t, "data.csv", attrs.Get("filename"))
	assert.Equal(t, "", attrs.Get("missing"))
	assert.True(t, attrs.Has("empty"))
	assert.False(t, attrs.Has("missing"))
	assert.Equal(t, "", attrs.GetOr("empty", "x"))
	assert.Equal(t, "x", attrs.GetOr("missing", "x"))
	assert.Equal(t, []string{"data.csv", ""}, attrs.Values("filename", "missing"))
	assert.Equal(t, []string{"example.org", "/index"}, attrs.Matching(`http\..*`))
	assert.Equal(t, []string{"http.host", "http.path"}, attrs.MatchingNames(`http\..*`))
	assert.Equal(t, []string{"record.cnt"}, attrs.MatchingNames(`host`, `record\..*`))
	assert.Empty(t, attrs.Matching(`(`))

	var nilAttrs flowrt.Attributes
	assert.Equal(t, "", nilAttrs.Get("x"))
	assert.False(t, nilAttrs.Has("x"))
}

func TestAttributesMutation(t *testing.T) {
	var attrs flowrt.Attributes
	attrs.Merge(map[string]string{"a": "1", "b": "2", "tmp.x": "3", "tmp.y": "4"})
	require.Len(t, attrs, 4)

	clone := attrs.Clone()
	attrs.DeleteMatching(`tmp\..*`)
	attrs.Delete("b")

	assert.Equal(t, flowrt.Attributes{"a": "1"}, attrs)
	assert.Len(t, clone, 4)
}

func TestFlowFile(t *testing.T) {
	ff := flowrt.NewFlowFile([]byte("content"))
	require.NotEmpty(t, ff.Attributes.Get(flowrt.AttributeUUID))

	clone := ff.Clone()
	assert.Equal(t, ff.Content, clone.Content)
	assert.NotEqual(t, ff.Attributes.Get(flowrt.AttributeUUID), clone.Attributes.Get(flowrt.AttributeUUID))
	assert.Equal(t, ff.Attributes.Get(flowrt.AttributeFilename), clone.Attributes.Get(flowrt.AttributeFilename))

	routes := flowrt.Route("success", ff)
	routes.Add("failure", clone)
	routes.Add("success", clone)

	assert.Equal(t, []string{"failure", "success"}, routes.Relationships())
	assert.Len(t, routes["success"], 2)
}

func TestListHelpers(t *testing.T) {
	lengths := flowrt.Map([]string{"a", "bb", ""}, func(v string) int { return len(v) })
	assert.Equal(t, []int{1, 2, 0}, lengths)

	assert.True(t, flowrt.All([]bool{}))
	assert.False(t, flowrt.All([]bool{true, false}))
	assert.True(t, flowrt.Any([]bool{false, true}))
	assert.False(t, flowrt.Any(nil))
	assert.Equal(t, flowrt.Int(2), flowrt.CountTrue([]bool{true, false, true}))
	assert.Equal(t, []string{"a", "b", "c"}, flowrt.DelineatedValues("a,b,c", ","))
	assert.Empty(t, flowrt.DelineatedValues("", ","))
}
