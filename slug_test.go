package wxrport_test

import (
	"testing"

	"github.com/fwojciec/wxrport"
	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple title", input: "Hello World", want: "hello-world"},
		{name: "punctuation collapses", input: "Detox: What, Why & How?", want: "detox-what-why-and-how"},
		{name: "accents folded", input: "¿Qué es la desintoxicación?", want: "que-es-la-desintoxicacion"},
		{name: "enye folded", input: "Mañana en Colombia", want: "manana-en-colombia"},
		{name: "digits kept", input: "Top 10 Retreats 2024", want: "top-10-retreats-2024"},
		{name: "leading and trailing separators dropped", input: "  --Hello--  ", want: "hello"},
		{name: "non-latin only", input: "日本語", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, wxrport.Slugify(tt.input))
		})
	}
}

func TestSlugFor(t *testing.T) {
	t.Parallel()

	t.Run("uses title when it has a slug", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "my-post", wxrport.SlugFor("My Post", "https://example.com/post/other"))
	})

	t.Run("falls back to last path segment", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "other-post", wxrport.SlugFor("日本語", "https://example.com/post/other-post"))
	})

	t.Run("falls back to home for the origin root", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "home", wxrport.SlugFor("日本語", "https://example.com"))
	})
}
