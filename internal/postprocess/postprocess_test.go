package postprocess

import "testing"

func TestRemoveThinkingBlocks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no thinking blocks", "Bonjour le monde.", "Bonjour le monde."},
		{"think block", "<think>Translate to French</think>\nBonjour le monde.", "Bonjour le monde."},
		{"reasoning block", "Start<reasoning>grammar</reasoning>End", "StartEnd"},
		{"multiple blocks", "<thinking>First</thinking>middle<thinking>Second</thinking>", "middle"},
		{"truncated block", "Before<thinking>Incomplete", "Before"},
		{"orphan closing tag", "the user wants French</think>\n\nBonjour.", "Bonjour."},
		{"case insensitive", "<THINK>x</THINK>Hallo", "Hallo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := removeThinkingBlocks(tt.input); got != tt.expected {
				t.Errorf("removeThinkingBlocks(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRemoveInstructionEcho(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "Привет, мир.", "Привет, мир."},
		{"here is the translation", "Here is the translation:\nПривет, мир.", "Привет, мир."},
		{"heres with language", "Sure! Here's the Russian translation:\n\nПривет, мир.", "Привет, мир."},
		{"bare translation label", "Translation: Hallo Welt.", "Hallo Welt."},
		{"translation into language", "Translation into German:\nHallo Welt.", "Hallo Welt."},
		{"word translation inside text kept", "The translation of the letter took weeks.", "The translation of the letter took weeks."},
		{"colon later in text kept", "He said: nothing.", "He said: nothing."},
		{"language label", "Russian translation:\nПривет, мир.", "Привет, мир."},
		{"adjective before translation kept", "Bad translation: the word meant love.", "Bad translation: the word meant love."},
		{"heading kept", "Translation:\nThe letter was in Latin.", "Translation:\nThe letter was in Latin."},
		{"introduction spanning lines kept", "Here is the translation\nof her letter: Dear John.", "Here is the translation\nof her letter: Dear John."},
		{"label spanning lines kept", "Old\ntranslation: gone.", "Old\ntranslation: gone."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := removeInstructionEcho(tt.input); got != tt.expected {
				t.Errorf("removeInstructionEcho(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRemoveCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no fence", "Bonjour.", "Bonjour."},
		{"plain fence", "```\nBonjour.\n\nSalut.\n```", "Bonjour.\n\nSalut."},
		{"fence with language", "```text\nBonjour.\n```", "Bonjour."},
		{"inner fence kept", "Avant\n```\ncode\n```\nAprès", "Avant\n```\ncode\n```\nAprès"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := removeCodeFence(tt.input); got != tt.expected {
				t.Errorf("removeCodeFence(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"whitespace only", "  \n\t ", ""},
		{"only reasoning", "<think>hmm</think>", ""},
		{"keeps paragraphs", "Bonjour le monde.\n\nC'est le paragraphe deux.", "Bonjour le monde.\n\nC'est le paragraphe deux."},
		{"keeps dialogue quotes", "\"Where are you going?\" she asked.\n\n\"Home.\"", "\"Where are you going?\" she asked.\n\n\"Home.\""},
		{"all artifacts", "<think>plan</think>\nHere is the translation:\n```\nHallo.\n```", "Hallo."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.expected {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
