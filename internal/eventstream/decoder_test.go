package eventstream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(content string) string {
	return `data: {"choices":[{"delta":{"content":"` + content + `"}}]}` + "\n\n"
}

func feedAll(d *Decoder, chunks ...string) []string {
	var out []string
	for _, c := range chunks {
		out = append(out, d.Feed([]byte(c))...)
	}
	return out
}

func TestDecoder_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   []string
		done   bool
	}{
		{
			name:   "single frame",
			chunks: []string{`data: {"choices":[{"delta":{"content":"Hi"}}]}` + "\n\n"},
			want:   []string{"Hi"},
		},
		{
			name: "frame split inside payload",
			chunks: []string{
				`data: {"choices":[{"delta":`,
				`{"content":"Hi"}}]}` + "\n\n",
			},
			want: []string{"Hi"},
		},
		{
			name:   "sentinel first",
			chunks: []string{"data: [DONE]\n\n" + frame("ignored")},
			want:   nil,
			done:   true,
		},
		{
			name:   "frame without data line",
			chunks: []string{"event: ping\n\n"},
			want:   nil,
		},
		{
			name:   "comment frame",
			chunks: []string{": keep-alive\n\n", frame("a")},
			want:   []string{"a"},
		},
		{
			name:   "invalid json skipped",
			chunks: []string{frame("one") + "data: {not json\n\n" + frame("two")},
			want:   []string{"one", "two"},
		},
		{
			name:   "missing content field",
			chunks: []string{`data: {"choices":[{"delta":{"role":"assistant"}}]}` + "\n\n", `data: {"choices":[]}` + "\n\n"},
			want:   nil,
		},
		{
			name:   "only first data line honored",
			chunks: []string{`data: {"choices":[{"delta":{"content":"first"}}]}` + "\n" + `data: {"choices":[{"delta":{"content":"second"}}]}` + "\n\n"},
			want:   []string{"first"},
		},
		{
			name:   "event line before data line",
			chunks: []string{"event: message\n" + frame("x")},
			want:   []string{"x"},
		},
		{
			name:   "trailing partial frame kept pending",
			chunks: []string{frame("a") + `data: {"choices":[{"delta":{"content":"b"}}]}`},
			want:   []string{"a"},
		},
		{
			name:   "increments before sentinel kept",
			chunks: []string{frame("a") + frame("b") + "data: [DONE]\n\n", frame("c")},
			want:   []string{"a", "b"},
			done:   true,
		},
		{
			name:   "sentinel with surrounding whitespace",
			chunks: []string{"data:  [DONE] \r\n\n"},
			want:   nil,
			done:   true,
		},
		{
			name: "field names are case sensitive",
			chunks: []string{
				`data: {"CHOICES":[{"DELTA":{"CONTENT":"x"}}]}` + "\n\n",
				`data: {"choices":[{"delta":{"Content":"y"}}]}` + "\n\n",
			},
			want: nil,
		},
		{
			name:   "malformed sibling choice does not hide first choice",
			chunks: []string{`data: {"choices":[{"delta":{"content":"Hi"}},5]}` + "\n\n"},
			want:   []string{"Hi"},
		},
		{
			name:   "unrelated field of another type ignored",
			chunks: []string{`data: {"id":7,"choices":[{"index":"zero","delta":{"role":1,"content":"ok"}}]}` + "\n\n"},
			want:   []string{"ok"},
		},
		{
			name: "non-string or null content yields nothing",
			chunks: []string{
				`data: {"choices":[{"delta":{"content":42}}]}` + "\n\n",
				`data: {"choices":[{"delta":{"content":null}}]}` + "\n\n",
				`data: {"choices":{"delta":{"content":"x"}}}` + "\n\n",
			},
			want: nil,
		},
		{
			name:   "empty content passes through as nothing",
			chunks: []string{frame("")},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder()
			got := feedAll(d, tt.chunks...)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.done, d.Done())
		})
	}
}

func TestDecoder_ChunkingInvariance(t *testing.T) {
	input := frame("Hé") + "event: ping\n\n" + frame("llo, ") + "data: garbage\n\n" + frame("世界") + frame(" 👋") + "data: [DONE]\n\n" + frame("after")

	whole := feedAll(NewDecoder(), input)
	require.Equal(t, []string{"Hé", "llo, ", "世界", " 👋"}, whole)

	// Every two-way split, including splits inside multi-byte characters and
	// inside the "data: " marker.
	for i := 1; i < len(input); i++ {
		got := feedAll(NewDecoder(), input[:i], input[i:])
		require.Equal(t, whole, got, "split at byte %d", i)
	}

	// One byte per chunk.
	d := NewDecoder()
	var got []string
	for i := 0; i < len(input); i++ {
		got = append(got, d.Feed([]byte{input[i]})...)
	}
	require.Equal(t, whole, got)
	assert.True(t, d.Done())
}

func TestDecoder_ConcatenationMatchesContent(t *testing.T) {
	parts := []string{"The ", "quick ", "brown ", "fox"}
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(frame(p))
	}

	got := feedAll(NewDecoder(), sb.String())
	assert.Equal(t, "The quick brown fox", strings.Join(got, ""))
}

func TestDecoder_BufferCompaction(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte(frame("a") + "data: {"))
	assert.Equal(t, len("data: {"), d.Buffered())
	assert.Equal(t, StateAccumulating, d.State())

	d.Feed([]byte("\"choices\":[]}\n\n"))
	assert.Equal(t, 0, d.Buffered())
}

func TestDecoder_IgnoresInputAfterDone(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte("data: [DONE]\n\n"))
	require.True(t, d.Done())

	assert.Nil(t, d.Feed([]byte(frame("late"))))
	assert.Equal(t, 0, d.Buffered())
	assert.Equal(t, "DONE", d.State().String())
}
