// Package prompt renders requests into the chat template the model expects
// and isolates the model's reply from raw output that echoes the template.
package prompt

import "strings"

// Role delimiters of the TinyLlama-style chat template. The backend echoes the
// whole template, so the assistant tag doubles as the extraction delimiter.
const (
	systemTag    = "<|system|>"
	userTag      = "<|user|>"
	assistantTag = "<|assistant|>"

	systemPreamble = "You are a helpful AI assistant."
)

// wrapChat embeds user-role content in the fixed chat template.
func wrapChat(content string) string {
	var b strings.Builder
	b.Grow(len(systemTag) + len(systemPreamble) + len(userTag) + len(content) + len(assistantTag) + 3)
	b.WriteString(systemTag)
	b.WriteByte('\n')
	b.WriteString(systemPreamble)
	b.WriteByte('\n')
	b.WriteString(userTag)
	b.WriteByte('\n')
	b.WriteString(content)
	b.WriteString(assistantTag)
	return b.String()
}

// FormatGeneration renders a free-text prompt for the backend. Pure function;
// the prompt is interpolated as-is, delimiter collisions are tolerated
// downstream by ExtractReply's last-occurrence split.
func FormatGeneration(prompt string) string {
	return wrapChat(prompt)
}

// FormatClassification renders a single-label classification instruction.
// Labels are listed verbatim in caller order; the instruction demands exactly
// one of them back.
func FormatClassification(text string, labels []string) string {
	var b strings.Builder
	b.WriteString("Classify the following text into exactly one of these categories: ")
	b.WriteString(strings.Join(labels, ", "))
	b.WriteString("\n\nText: ")
	b.WriteString(text)
	b.WriteString("\n\nRespond with exactly one category name and nothing else.")
	return wrapChat(b.String())
}

// ExtractReply strips the echoed template from raw backend output, keeping
// everything after the last assistant tag. When the tag is absent (backend did
// not echo the template) the raw output is returned trimmed; the caller
// decides whether that degradation matters. The second result reports whether
// the tag was found.
func ExtractReply(raw string) (string, bool) {
	if i := strings.LastIndex(raw, assistantTag); i >= 0 {
		return trimReply(raw[i+len(assistantTag):]), true
	}
	return trimReply(raw), false
}

// trimReply removes surrounding whitespace and matching quote pairs. Models
// instructed to answer with a bare label often still quote it.
func trimReply(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first != last || (first != '"' && first != '\'') {
			break
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
