package inbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/jam-coach/internal/journal"
	"github.com/nguyentantai21042004/jam-coach/internal/report"
)

// Process orchestrates analysis of one dropped file
func (p *implProcessor) Process(ctx context.Context, audioPath string) error {
	startTime := time.Now()
	name := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))

	p.logger.Info(ctx, "Processing dropped audio: %s", audioPath)

	// Step 1: Copy into a temp artifact so the original can be archived untouched
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return fmt.Errorf("read audio: %w", err)
	}
	clip, err := p.ingress.SaveUpload(ctx, data, filepath.Base(audioPath), p.variant.UploadExtensions)
	if err != nil {
		return fmt.Errorf("save audio: %w", err)
	}
	defer func() { p.ingress.Remove(ctx, clip) }()

	// Step 2: Convert if the model cannot read the format
	if p.transcoder != nil && p.transcoder.NeedsTranscode(clip) {
		converted, err := p.transcoder.Transcode(ctx, clip)
		if err != nil {
			return fmt.Errorf("transcode: %w", err)
		}
		clip = converted
	}

	// Step 3: Analysis and summary
	analysis, err := p.client.GenerateFromAudio(ctx, clip.Path, clip.MIMEType, p.variant.AnalysisPrompt)
	if err != nil {
		return fmt.Errorf("analyse: %w", err)
	}
	summary, err := p.client.GenerateFromAudio(ctx, clip.Path, clip.MIMEType, p.variant.SummaryPrompt)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	// Step 4: Write markdown and docx reports
	rep := report.Report{
		Title:       name,
		Analysis:    analysis,
		Summary:     summary,
		GeneratedAt: time.Now(),
	}
	mdPath, docxPath, err := p.writeReports(name, rep)
	if err != nil {
		return err
	}

	// Step 5: Journal both results under one pseudo-session per file
	sessionID := "inbox:" + name
	for _, e := range []journal.Entry{
		{SessionID: sessionID, Variant: p.variant.Name, Kind: journal.KindAnalysis, Text: analysis},
		{SessionID: sessionID, Variant: p.variant.Name, Kind: journal.KindSummary, Text: summary},
	} {
		if err := p.journal.Record(ctx, e); err != nil {
			p.logger.Warn(ctx, "Failed to journal %s for %s: %v", e.Kind, name, err)
		}
	}

	// Step 6: Move original to archived folder
	if err := p.moveToArchived(ctx, audioPath); err != nil {
		p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
	}

	p.logger.Info(ctx, "[DONE] %s -> %s, %s (%s)", name, mdPath, docxPath, time.Since(startTime))
	return nil
}

func (p *implProcessor) writeReports(name string, rep report.Report) (string, string, error) {
	if err := os.MkdirAll(p.cfg.Output, 0755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}

	mdPath := filepath.Join(p.cfg.Output, name+".md")
	if err := os.WriteFile(mdPath, []byte(report.Markdown(rep)), 0644); err != nil {
		return "", "", fmt.Errorf("write markdown: %w", err)
	}

	docxPath := filepath.Join(p.cfg.Output, name+".docx")
	if err := report.WriteDocx(rep, docxPath); err != nil {
		return "", "", fmt.Errorf("write docx: %w", err)
	}

	return mdPath, docxPath, nil
}
