package param

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoolRoundTrip(t *testing.T) {
	s := NewStore()
	var hookCalls int
	require.NoError(t, s.AddBool("display/verbose", "show trace output", false, func(_ *Store, p *BoolParam) error {
		hookCalls++
		return nil
	}))
	v, err := s.GetBool("display/verbose")
	require.NoError(t, err)
	assert.False(t, v)

	require.NoError(t, s.SetBool("display/verbose", true))
	v, err = s.GetBool("display/verbose")
	require.NoError(t, err)
	assert.True(t, v)
	assert.Equal(t, 1, hookCalls)
}

func TestIntDomainValidation(t *testing.T) {
	s := NewStore()
	min, max := 0, 10
	require.NoError(t, s.AddInt("presolving/maxrounds", "", 5, &min, &max, nil))

	err := s.SetInt("presolving/maxrounds", 11)
	require.Error(t, err)
	v, _ := s.GetInt("presolving/maxrounds")
	assert.Equal(t, 5, v, "a rejected set must leave the current value untouched")

	require.NoError(t, s.SetInt("presolving/maxrounds", 3))
	v, _ = s.GetInt("presolving/maxrounds")
	assert.Equal(t, 3, v)
}

func TestUnknownAndWrongType(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddBool("foo", "", false, nil))

	_, err := s.GetInt("does-not-exist")
	require.Error(t, err)

	_, err = s.GetInt("foo")
	require.Error(t, err)
}

func TestWriteOnlyOutsideSolve(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddInt("limits/nodes", "", 100, nil, nil, nil))
	s.SetInSolve(true)
	err := s.SetInt("limits/nodes", 200)
	require.Error(t, err)

	s.AllowDuringSolve("limits/nodes")
	require.NoError(t, s.SetInt("limits/nodes", 200))
}

func TestFileRoundTrip(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddBool("b", "a bool", false, nil))
	min, max := -5, 5
	require.NoError(t, s.AddInt("i", "an int", 0, &min, &max, nil))
	require.NoError(t, s.AddReal("r", "", 0, nil, nil, nil))
	require.NoError(t, s.AddString("s", "", "", nil, nil))

	require.NoError(t, s.SetBool("b", true))
	require.NoError(t, s.SetInt("i", -3))
	require.NoError(t, s.SetReal("r", 3.5))
	require.NoError(t, s.SetString("s", "hello world"))

	var buf strings.Builder
	require.NoError(t, s.WriteFile(&buf))

	s2 := NewStore()
	require.NoError(t, s2.AddBool("b", "a bool", false, nil))
	require.NoError(t, s2.AddInt("i", "an int", 0, &min, &max, nil))
	require.NoError(t, s2.AddReal("r", "", 0, nil, nil, nil))
	require.NoError(t, s2.AddString("s", "", "", nil, nil))
	require.NoError(t, s2.ReadFile(strings.NewReader(buf.String())))

	for _, name := range s.Names() {
		assert.Equal(t, must(s.lookup("t", name)).stringValue(), must(s2.lookup("t", name)).stringValue(), name)
	}
}

func TestUnknownParameterInFileIsWarningNotError(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddBool("known", "", false, nil))
	err := s.ReadFile(strings.NewReader("unknown/name = TRUE\nknown = TRUE\n"))
	require.NoError(t, err)
	v, _ := s.GetBool("known")
	assert.True(t, v)
}

func TestMalformedValueAborts(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddInt("n", "", 0, nil, nil, nil))
	err := s.ReadFile(strings.NewReader("n = not-a-number\n"))
	require.Error(t, err)
}

func TestCommentsAndQuotedStrings(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddString("label", "", "", nil, nil))
	err := s.ReadFile(strings.NewReader(`label = "hash # not a comment inside quotes" # trailing comment`))
	require.NoError(t, err)
	v, _ := s.GetString("label")
	assert.Equal(t, "hash # not a comment inside quotes", v)
}

func TestGetStringValueSetFromString(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddInt("limits/nodes", "node limit", 5, nil, nil, nil))

	p, err := s.Get("limits/nodes")
	require.NoError(t, err)
	assert.Equal(t, Int, p.Kind())

	v, err := s.StringValue("limits/nodes")
	require.NoError(t, err)
	assert.Equal(t, "5", v)

	require.NoError(t, s.SetFromString("limits/nodes", "42"))
	n, err := s.GetInt("limits/nodes")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = s.Get("does-not-exist")
	assert.Error(t, err)
}

func must(p Parameter, err error) Parameter {
	if err != nil {
		panic(err)
	}
	return p
}
