package config

import (
	"fmt"
	"strings"
)

// Variant is one row of the prompt/UI table. Each coaching mode differs
// only in these fields.
type Variant struct {
	Name             string   `yaml:"name"`
	Title            string   `yaml:"title"`
	Tagline          string   `yaml:"tagline"`
	TopicPrompt      string   `yaml:"topic_prompt"`
	AnalysisPrompt   string   `yaml:"analysis_prompt"`
	SummaryPrompt    string   `yaml:"summary_prompt"`
	RecordedContext  string   `yaml:"recorded_context"`
	UploadedContext  string   `yaml:"uploaded_context"`
	UploadExtensions []string `yaml:"upload_extensions"`
	ChatPlaceholder  string   `yaml:"chat_placeholder"`
}

func (v *Variant) validate() error {
	if v.Name == "" {
		return fmt.Errorf("name is required")
	}
	if v.AnalysisPrompt == "" {
		return fmt.Errorf("variant %s: analysis_prompt is required", v.Name)
	}
	if v.Title == "" {
		v.Title = v.Name
	}
	if v.TopicPrompt == "" {
		v.TopicPrompt = defaultTopicPrompt
	}
	if v.SummaryPrompt == "" {
		v.SummaryPrompt = defaultSummaryPrompt
	}
	if v.RecordedContext == "" {
		v.RecordedContext = "The summary report of speech analysis is: %s"
	}
	if v.UploadedContext == "" {
		v.UploadedContext = "The audio summary is: %s"
	}
	if !strings.Contains(v.RecordedContext, "%s") || !strings.Contains(v.UploadedContext, "%s") {
		return fmt.Errorf("variant %s: context templates must contain %%s", v.Name)
	}
	if len(v.UploadExtensions) == 0 {
		v.UploadExtensions = []string{"wav", "mp3"}
	}
	for i, ext := range v.UploadExtensions {
		v.UploadExtensions[i] = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	}
	if v.ChatPlaceholder == "" {
		v.ChatPlaceholder = "Ask communication coach..."
	}
	return nil
}

// Seed fills the recorded or uploaded context template with report. Only the
// first %s is replaced, so other percent signs in the template are kept.
func (v Variant) Seed(uploaded bool, report string) string {
	tmpl := v.RecordedContext
	if uploaded {
		tmpl = v.UploadedContext
	}
	return strings.Replace(tmpl, "%s", report, 1)
}

const (
	defaultTopicPrompt   = "Please provide a topic for a Just a Minute practice session make it easier"
	defaultSummaryPrompt = "Please summarize the speech and give small notes to speak again for JAM Speech practice, also suggest some vocabulary to add in another speech"
)

// DefaultVariants returns the built-in table used when the config file defines none.
func DefaultVariants() []Variant {
	return []Variant{
		{
			Name:             "jam",
			Title:            "Captain Jam - English Communication Coach",
			Tagline:          "Your Co-captain to Supercharge Your English and Communication - Speak. Learn. Grow.",
			TopicPrompt:      defaultTopicPrompt,
			AnalysisPrompt:   "Please analyze the speech and give some tips to improve the speech",
			SummaryPrompt:    defaultSummaryPrompt,
			RecordedContext:  "The summary report of speech analysis is: %s",
			UploadedContext:  "The audio summary is: %s",
			UploadExtensions: []string{"wav", "mp3", "mpeg"},
			ChatPlaceholder:  "Ask communication coach...",
		},
		{
			Name:             "speech-review",
			Title:            "Speech Review",
			Tagline:          "Record a minute, get concrete feedback on clarity, pace and vocabulary.",
			TopicPrompt:      defaultTopicPrompt,
			AnalysisPrompt:   "Please review this speech for clarity, pacing, filler words and grammar, and list the three most important improvements",
			SummaryPrompt:    defaultSummaryPrompt,
			RecordedContext:  "Here is the review of my recorded speech: %s",
			UploadedContext:  "Here is the review of my uploaded speech: %s",
			UploadExtensions: []string{"wav", "mp3"},
			ChatPlaceholder:  "Ask about your review...",
		},
		{
			Name:             "summary",
			Title:            "Speech Summarizer",
			Tagline:          "Summarize what you said and get notes for your next attempt.",
			TopicPrompt:      defaultTopicPrompt,
			AnalysisPrompt:   "Please summarize the speech in a few sentences and point out the main ideas",
			SummaryPrompt:    defaultSummaryPrompt,
			RecordedContext:  "The summary of my recorded speech is: %s",
			UploadedContext:  "The summary of my uploaded speech is: %s",
			UploadExtensions: []string{"wav", "mp3"},
			ChatPlaceholder:  "Ask about the summary...",
		},
	}
}
