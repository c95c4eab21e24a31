package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_NoHeader_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	doc, err := Parse(input)
	require.NoError(t, err)
	require.False(t, doc.HasHeader)
	require.Empty(t, doc.Header)
	require.Equal(t, input, doc.Body)
}

func TestParse_YAMLHeader_SplitsHeaderAndBody(t *testing.T) {
	doc, err := Parse([]byte("---\nbusinessName: Bakery\n---\nFresh bread.\n"))
	require.NoError(t, err)
	require.True(t, doc.HasHeader)
	require.Equal(t, []byte("businessName: Bakery\n"), doc.Header)
	require.Equal(t, []byte("Fresh bread.\n"), doc.Body)
}

func TestParse_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, err := Parse([]byte("---\nkey: value\n# Title\n"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestParse_CRLF(t *testing.T) {
	doc, err := Parse([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.Equal(t, "\r\n", doc.Newline)
	require.Equal(t, []byte("key: value\r\n"), doc.Header)
	require.Equal(t, []byte("# Title\r\n"), doc.Body)
}

func TestParse_EmptyHeader(t *testing.T) {
	doc, err := Parse([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, doc.HasHeader)
	require.Empty(t, doc.Header)
	require.Equal(t, []byte("# Title\n"), doc.Body)
}

func TestBytes_RoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte("# Title\n\nHello\n"),
		[]byte("---\nkey: value\n---\n# Title\n"),
		[]byte("---\n---\n# Title\n"),
		[]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"),
	}
	for _, input := range cases {
		doc, err := Parse(input)
		require.NoError(t, err)
		require.Equal(t, input, doc.Bytes())
	}
}

func TestDecode(t *testing.T) {
	doc, err := Parse([]byte("---\nname: Bakery\ntags:\n  - bread\n---\n"))
	require.NoError(t, err)

	var out struct {
		Name string   `yaml:"name"`
		Tags []string `yaml:"tags"`
	}
	require.NoError(t, doc.Decode(&out))
	require.Equal(t, "Bakery", out.Name)
	require.Equal(t, []string{"bread"}, out.Tags)
}

func TestDecode_InvalidYAML(t *testing.T) {
	doc := Document{Header: []byte(": not yaml\n"), HasHeader: true}
	var out map[string]any
	require.Error(t, doc.Decode(&out))
}

func TestBuild(t *testing.T) {
	out, err := Build(map[string]string{"businessName": "Bakery"}, []byte("Body\n"))
	require.NoError(t, err)
	require.Equal(t, "---\nbusinessName: Bakery\n---\nBody\n", string(out))
}
