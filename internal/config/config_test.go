package config

import (
	"os"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty config gets defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "unknown variant",
			config: Config{
				Coach: CoachConfig{Variant: "karaoke"},
			},
			wantErr: true,
		},
		{
			name: "inbox without output",
			config: Config{
				Inbox: InboxConfig{Dir: "data/inbox"},
			},
			wantErr: true,
		},
		{
			name: "variant without analysis prompt",
			config: Config{
				Variants: []Variant{{Name: "bare"}},
			},
			wantErr: true,
		},
		{
			name: "duplicate variant names",
			config: Config{
				Variants: []Variant{
					{Name: "a", AnalysisPrompt: "x"},
					{Name: "a", AnalysisPrompt: "y"},
				},
			},
			wantErr: true,
		},
		{
			name: "context template without placeholder",
			config: Config{
				Variants: []Variant{{Name: "a", AnalysisPrompt: "x", RecordedContext: "no verb"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	var cfg Config
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %v, want %v", cfg.Gemini.Model, "gemini-2.5-flash")
	}
	if cfg.Gemini.ChatModel != cfg.Gemini.Model {
		t.Errorf("ChatModel = %v, want %v", cfg.Gemini.ChatModel, cfg.Gemini.Model)
	}
	if cfg.Coach.Variant != "jam" {
		t.Errorf("Variant = %v, want %v", cfg.Coach.Variant, "jam")
	}
	if cfg.Session.IdleTimeout != 2*time.Hour {
		t.Errorf("IdleTimeout = %v, want %v", cfg.Session.IdleTimeout, 2*time.Hour)
	}

	jam, ok := cfg.Variant("jam")
	if !ok {
		t.Fatal("Variant(jam) not found")
	}
	want := []string{"wav", "mp3", "mpeg"}
	if len(jam.UploadExtensions) != len(want) {
		t.Fatalf("UploadExtensions = %v, want %v", jam.UploadExtensions, want)
	}
	for i := range want {
		if jam.UploadExtensions[i] != want[i] {
			t.Errorf("UploadExtensions[%d] = %v, want %v", i, jam.UploadExtensions[i], want[i])
		}
	}
}

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
server:
  addr: ":9000"

gemini:
  model: "gemini-test"

coach:
  variant: "custom"

variants:
  - name: "custom"
    title: "Custom Coach"
    analysis_prompt: "Analyze it"
    upload_extensions: [".WAV", "ogg"]

logging:
  level: "debug"
  format: "json"
`

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GEMINI_API_KEYS", "key-a, key-b,")
	t.Setenv("GOOGLE_API_KEY", "ignored")
	t.Setenv("JAM_ADDR", "")
	t.Setenv("JAM_VARIANT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %v, want %v", cfg.Server.Addr, ":9000")
	}
	if cfg.Gemini.Model != "gemini-test" {
		t.Errorf("Model = %v, want %v", cfg.Gemini.Model, "gemini-test")
	}
	if len(cfg.Gemini.APIKeys) != 2 || cfg.Gemini.APIKeys[1] != "key-b" {
		t.Errorf("APIKeys = %v, want [key-a key-b]", cfg.Gemini.APIKeys)
	}

	v, ok := cfg.Variant("custom")
	if !ok {
		t.Fatal("Variant(custom) not found")
	}
	if v.UploadExtensions[0] != "wav" || v.UploadExtensions[1] != "ogg" {
		t.Errorf("UploadExtensions = %v, want [wav ogg]", v.UploadExtensions)
	}
	if v.SummaryPrompt == "" {
		t.Error("SummaryPrompt should default when omitted")
	}
}

func TestLoadFallsBackToGoogleAPIKey(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())
	tmpfile.Close()

	t.Setenv("GEMINI_API_KEYS", "")
	t.Setenv("GOOGLE_API_KEY", "single")
	t.Setenv("JAM_VARIANT", "summary")

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Gemini.APIKeys) != 1 || cfg.Gemini.APIKeys[0] != "single" {
		t.Errorf("APIKeys = %v, want [single]", cfg.Gemini.APIKeys)
	}
	if cfg.Coach.Variant != "summary" {
		t.Errorf("Variant = %v, want %v", cfg.Coach.Variant, "summary")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestVariantSeed(t *testing.T) {
	v := Variant{
		RecordedContext: "100% honest review: %s",
		UploadedContext: "Uploaded: %s (50% speed)",
	}

	tests := []struct {
		name     string
		uploaded bool
		report   string
		want     string
	}{
		{"recorded keeps literal percent", false, "good pace", "100% honest review: good pace"},
		{"uploaded", true, "clear", "Uploaded: clear (50% speed)"},
		{"report with verbs", false, "use %d pauses", "100% honest review: use %d pauses"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Seed(tt.uploaded, tt.report); got != tt.want {
				t.Errorf("Seed() = %q, want %q", got, tt.want)
			}
		})
	}
}
