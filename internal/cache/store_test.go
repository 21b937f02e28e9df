package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelm/study-cli/internal/model"
)

type descriptor struct {
	Kind     string   `json:"t"`
	Question string   `json:"q"`
	Context  string   `json:"ctx"`
	Topic    string   `json:"topic"`
	History  []string `json:"hist"`
}

func TestStore_NilIsNoOp(t *testing.T) {
	var s *Store
	require.NoError(t, s.Put("k", "v"))
	hit, err := s.Get("k", new(string))
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestKey_Deterministic(t *testing.T) {
	d := descriptor{Kind: "ans", Question: "q", Context: "c", Topic: "t", History: []string{"user:hi"}}

	k1, err := Key(d)
	require.NoError(t, err)
	k2, err := Key(d)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64) // sha256 hex

	other := d
	other.Question = "different"
	k3, err := Key(other)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)
}

func TestKey_StringUsedVerbatim(t *testing.T) {
	k1, err := Key("same input")
	require.NoError(t, err)
	k2, err := Key("same input")
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func TestStore_MissThenHit(t *testing.T) {
	s := New(t.TempDir())
	d := descriptor{Kind: "ans", Question: "q"}

	var out model.AskPayload
	hit, err := s.Get(d, &out)
	require.NoError(t, err)
	assert.False(t, hit)

	in := model.AskPayload{Topic: "t", Answer: "a", Flashcards: []model.Flashcard{{Question: "q1", Answer: "a1"}}}
	require.NoError(t, s.Put(d, in))

	hit, err = s.Get(d, &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, in, out)
}

func TestStore_PodcastScriptRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	in := model.PodcastScript{
		Title:   "Entropy for breakfast",
		Summary: "Two hosts argue about disorder.",
		Segments: []model.Segment{
			{Speaker: "A", Voice: "nova", Markdown: "Welcome back!"},
			{Speaker: "B", Markdown: "Glad to be here."},
		},
	}
	require.NoError(t, s.Put("script-key", in))

	var out model.PodcastScript
	hit, err := s.Get("script-key", &out)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, in, out)
}

func TestStore_PutOverwrites(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Put("k", map[string]string{"v": "first"}))
	require.NoError(t, s.Put("k", map[string]string{"v": "second"}))

	var out map[string]string
	hit, err := s.Get("k", &out)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "second", out["v"])
}

func TestStore_LazyDirectoryCreation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	s := New(dir)

	// Get before any write must not create the directory.
	var out map[string]string
	hit, err := s.Get("k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, s.Put("k", map[string]string{"v": "x"}))
	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

type recordingPolicy struct {
	keys []string
}

func (p *recordingPolicy) OnWrite(_, key string) {
	p.keys = append(p.keys, key)
}

func TestStore_EvictionPolicyObservesWrites(t *testing.T) {
	policy := &recordingPolicy{}
	s := New(t.TempDir(), WithEvictionPolicy(policy))

	require.NoError(t, s.Put("a", 1))
	require.NoError(t, s.Put("b", 2))
	assert.Len(t, policy.keys, 2)
}
