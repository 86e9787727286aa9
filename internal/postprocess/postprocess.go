// Package postprocess removes model artifacts from a translated chunk.
//
// Free reasoning models often leak their chain of thought or wrap the
// answer in an introduction or a code fence. Quotes around the whole text
// are left alone: in fiction a paragraph of dialogue legitimately starts
// and ends with a quotation mark.
package postprocess

import (
	"regexp"
	"strings"
)

// Clean strips reasoning blocks, a leading instruction echo and a wrapping
// code fence, in that order, and trims the result.
func Clean(text string) string {
	text = removeThinkingBlocks(text)
	text = removeInstructionEcho(text)
	text = removeCodeFence(text)
	return strings.TrimSpace(text)
}

// RE2 has no backreferences, so each tag pair is spelled out.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`,
)

// An opened tag with no closing tag: the model was cut off mid-thought.
var truncatedThinkingRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>|<reflection>).*$`,
)

// Some providers drop the opening tag and only send the closing one.
var orphanCloseRe = regexp.MustCompile(`(?is)^.*?</think(?:ing)?>`)

func removeThinkingBlocks(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	text = orphanCloseRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// introEchoRe matches a first-line introduction such as "Here is the
// translation:" or "Sure! Here's the Russian translation:".
var introEchoRe = regexp.MustCompile(
	`(?i)^(?:(?:certainly|sure|of course|okay)[,.!]?[ \t]+)?here(?:'s| is)[ \t]+(?:(?:the|your)[ \t]+)?(?:[a-z]+[ \t]+)?(?:translation|translated text)(?:[ \t]+(?:in|into|to)[ \t]+[a-z]+)?[ \t]*:[ \t]*\n?`,
)

// labelEchoRe matches a "Translation:" label, optionally naming a target
// language. Only the target languages count as qualifiers.
var labelEchoRe = regexp.MustCompile(
	`(?i)^((?:english|german|french|russian)[ \t]+)?(?:translation|translated text)([ \t]+(?:in|into|to)[ \t]+(?:english|german|french|russian))?[ \t]*:[ \t]*`,
)

func removeInstructionEcho(text string) string {
	if loc := introEchoRe.FindStringIndex(text); loc != nil {
		return strings.TrimSpace(text[loc[1]:])
	}

	m := labelEchoRe.FindStringSubmatchIndex(text)
	if m == nil {
		return text
	}
	rest := text[m[1]:]
	// A bare "Translation:" alone on its line may be a heading in the book.
	qualified := m[2] >= 0 || m[4] >= 0
	if !qualified && (rest == "" || rest[0] == '\n' || rest[0] == '\r') {
		return text
	}
	return strings.TrimSpace(rest)
}

var codeFenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n(.*?)\\n?```$")

func removeCodeFence(text string) string {
	if m := codeFenceRe.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
		return m[1]
	}
	return text
}
