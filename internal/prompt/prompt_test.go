package prompt

import (
	"strings"
	"testing"
)

func TestFormatGeneration(t *testing.T) {
	got := FormatGeneration("Tell me a story.")
	want := "<|system|>\nYou are a helpful AI assistant.\n<|user|>\nTell me a story.<|assistant|>"
	if got != want {
		t.Fatalf("FormatGeneration: got %q want %q", got, want)
	}
}

func TestFormatGenerationEmptyPrompt(t *testing.T) {
	got := FormatGeneration("")
	if !strings.HasSuffix(got, "<|user|>\n<|assistant|>") {
		t.Fatalf("empty prompt not embedded verbatim: %q", got)
	}
}

func TestFormatClassification(t *testing.T) {
	got := FormatClassification("I loved it", []string{"positive", "negative", "neutral"})
	if !strings.HasPrefix(got, "<|system|>\nYou are a helpful AI assistant.\n<|user|>\n") {
		t.Fatalf("missing chat template prefix: %q", got)
	}
	if !strings.HasSuffix(got, "<|assistant|>") {
		t.Fatalf("missing assistant tag suffix: %q", got)
	}
	for _, frag := range []string{
		"exactly one of these categories: positive, negative, neutral",
		"Text: I loved it",
		"Respond with exactly one category name and nothing else.",
	} {
		if !strings.Contains(got, frag) {
			t.Errorf("instruction missing %q in %q", frag, got)
		}
	}
}

func TestFormatClassificationSingleLabel(t *testing.T) {
	got := FormatClassification("x", []string{"spam"})
	if !strings.Contains(got, "categories: spam\n") {
		t.Fatalf("single label not listed verbatim: %q", got)
	}
}

func TestExtractReply(t *testing.T) {
	cases := []struct {
		name      string
		raw       string
		want      string
		delimited bool
	}{
		{
			name:      "template echoed",
			raw:       "<|system|>\nYou are a helpful AI assistant.\n<|user|>\nhi<|assistant|>\nHello there!",
			want:      "Hello there!",
			delimited: true,
		},
		{
			name:      "no delimiter",
			raw:       "just raw text",
			want:      "just raw text",
			delimited: false,
		},
		{
			name:      "delimiter in user text splits on last",
			raw:       "<|user|>\nwhat does <|assistant|> mean?<|assistant|>\nIt marks the reply.",
			want:      "It marks the reply.",
			delimited: true,
		},
		{
			name:      "quoted label",
			raw:       "<|assistant|>\n\"positive\"",
			want:      "positive",
			delimited: true,
		},
		{
			name:      "single quotes and padding",
			raw:       "<|assistant|>  'neutral'  ",
			want:      "neutral",
			delimited: true,
		},
		{
			name:      "nested matching quotes",
			raw:       "<|assistant|>\"'spam'\"",
			want:      "spam",
			delimited: true,
		},
		{
			name:      "mismatched quotes kept",
			raw:       "<|assistant|>\"half",
			want:      "\"half",
			delimited: true,
		},
		{
			name:      "empty tail",
			raw:       "<|user|>\nhi<|assistant|>   \n ",
			want:      "",
			delimited: true,
		},
		{
			name:      "empty input",
			raw:       "",
			want:      "",
			delimited: false,
		},
	}
	for _, c := range cases {
		got, delimited := ExtractReply(c.raw)
		if got != c.want || delimited != c.delimited {
			t.Errorf("%s: ExtractReply(%q) = (%q, %v), want (%q, %v)", c.name, c.raw, got, delimited, c.want, c.delimited)
		}
	}
}

func TestTrimReplySingleQuoteChar(t *testing.T) {
	if got := trimReply(`"`); got != `"` {
		t.Fatalf("lone quote should survive trimming, got %q", got)
	}
}

func TestExtractAfterFormatRoundTrip(t *testing.T) {
	prompt := FormatGeneration("echo test")
	raw := prompt + "\nreply body"
	got, delimited := ExtractReply(raw)
	if !delimited {
		t.Fatal("formatted prompt should carry the assistant delimiter")
	}
	if got != "reply body" {
		t.Fatalf("got %q want %q", got, "reply body")
	}
}
