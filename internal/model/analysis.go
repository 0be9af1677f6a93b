package model

import "context"

// Analyzer produces a structured breakdown of lyrics. Implementations call an
// external generative AI; the contract here is opaque to the rest of the
// server.
type Analyzer interface {
	Analyze(ctx context.Context, lyrics, language string) (Analysis, error)
}

// AnalyzeParams is the input of the analysis pipeline. Title and Artist are
// optional hints that take precedence over whatever the AI reports.
type AnalyzeParams struct {
	Lyrics   string
	Language string
	Title    string
	Artist   string
}

// Analysis is the breakdown returned by the AI provider.
type Analysis struct {
	Title  string
	Artist string
	Lines  []AnalyzedLine
	Vocab  []AnalyzedVocab
}

// AnalyzedLine is one translated lyrics line.
type AnalyzedLine struct {
	LineIndex       int
	OriginalText    string
	TranslationText string
	GrammarNotes    string
}

// AnalyzedVocab is one extracted vocabulary entry.
type AnalyzedVocab struct {
	Word               string
	Lemma              string
	Reading            string
	Meaning            string
	PartOfSpeech       string
	ExampleSentence    string
	ExampleTranslation string
}
