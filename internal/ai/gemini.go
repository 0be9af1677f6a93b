// Package ai implements the lyrics analyzer port on the Gemini
// generateContent HTTP API.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lyristudy/lyristudy-server/internal/model"
)

const promptTemplate = `You are an expert language teacher specializing in %s.

Your task is to analyze the following lyrics:
---
%s
---

Perform the following steps:
1. Identify the song title and artist if possible (or infer/leave generic).
2. Translate the lyrics to Traditional Chinese line-by-line.
3. Provide brief grammar notes for each line in Traditional Chinese (繁體中文).
4. Extract key vocabulary words (suitable for learners) from the lyrics.
5. For each vocabulary word, provide its lemma (dictionary form), reading (pronunciation), part of speech, meaning in Traditional Chinese, and a simple example sentence with translation.
   Important: If the language is Korean, do NOT use Romanization for the reading; use Hangul. For Japanese, use Hiragana.

Output REQUIREMENT:
Return raw JSON only. Do not use Markdown formatting (no ` + "```json ... ```" + `).

The JSON structure must be:
{
    "title": "String",
    "artist": "String",
    "lines": [
        {
            "line_index": Integer (0-based),
            "original_text": "String",
            "translation_text": "String",
            "grammar_notes": "String"
        }
    ],
    "vocab": [
        {
            "word": "String",
            "lemma": "String",
            "reading": "String",
            "meaning": "String",
            "part_of_speech": "String",
            "example_sentence": "String",
            "example_translation": "String"
        }
    ]
}`

var _ model.Analyzer = (*Gemini)(nil)

// Gemini calls the generateContent endpoint and parses the JSON document the
// model returns into an analysis.
type Gemini struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

func NewGemini(apiKey, modelName, baseURL string) *Gemini {
	return &Gemini{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		apiKey:     apiKey,
		model:      modelName,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type analysisDocument struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Lines  []struct {
		LineIndex       int    `json:"line_index"`
		OriginalText    string `json:"original_text"`
		TranslationText string `json:"translation_text"`
		GrammarNotes    string `json:"grammar_notes"`
	} `json:"lines"`
	Vocab []struct {
		Word               string `json:"word"`
		Lemma              string `json:"lemma"`
		Reading            string `json:"reading"`
		Meaning            string `json:"meaning"`
		PartOfSpeech       string `json:"part_of_speech"`
		ExampleSentence    string `json:"example_sentence"`
		ExampleTranslation string `json:"example_translation"`
	} `json:"vocab"`
}

// Analyze sends lyrics to the model and decodes the returned breakdown.
func (g *Gemini) Analyze(ctx context.Context, lyrics, language string) (model.Analysis, error) {
	if g.apiKey == "" {
		return model.Analysis{}, fmt.Errorf("gemini api key is not configured")
	}

	prompt := fmt.Sprintf(promptTemplate, language, lyrics)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return model.Analysis{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return model.Analysis{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return model.Analysis{}, fmt.Errorf("failed to call gemini: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Analysis{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return model.Analysis{}, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, respBody)
	}

	var gr generateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return model.Analysis{}, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return model.Analysis{}, fmt.Errorf("gemini returned no candidates")
	}

	doc, err := parseAnalysisDocument(gr.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return model.Analysis{}, err
	}

	return toAnalysis(doc), nil
}

// parseAnalysisDocument tolerates the model wrapping its output in a Markdown
// code fence despite the prompt forbidding it.
func parseAnalysisDocument(text string) (analysisDocument, error) {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	var doc analysisDocument
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &doc); err != nil {
		return analysisDocument{}, fmt.Errorf("failed to parse analysis document: %w", err)
	}

	return doc, nil
}

func toAnalysis(doc analysisDocument) model.Analysis {
	analysis := model.Analysis{
		Title:  doc.Title,
		Artist: doc.Artist,
		Lines:  make([]model.AnalyzedLine, 0, len(doc.Lines)),
		Vocab:  make([]model.AnalyzedVocab, 0, len(doc.Vocab)),
	}

	for _, l := range doc.Lines {
		analysis.Lines = append(analysis.Lines, model.AnalyzedLine{
			LineIndex:       l.LineIndex,
			OriginalText:    l.OriginalText,
			TranslationText: l.TranslationText,
			GrammarNotes:    l.GrammarNotes,
		})
	}

	for _, v := range doc.Vocab {
		analysis.Vocab = append(analysis.Vocab, model.AnalyzedVocab{
			Word:               v.Word,
			Lemma:              v.Lemma,
			Reading:            v.Reading,
			Meaning:            v.Meaning,
			PartOfSpeech:       v.PartOfSpeech,
			ExampleSentence:    v.ExampleSentence,
			ExampleTranslation: v.ExampleTranslation,
		})
	}

	return analysis
}
