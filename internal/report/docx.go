package report

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/jam-coach/internal/session"
)

const (
	fontName  = "Times New Roman"
	monoFont  = "Courier New"
	fontSize  = 13
	mutedGrey = "555555"
)

var speakerColors = map[session.Speaker]string{
	session.SpeakerUser:      "1F4E79",
	session.SpeakerAssistant: "385623",
}

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reListItem = regexp.MustCompile(`^([-*]|\d+\.)\s+(.+)$`)
	// group 1 is **bold**, group 2 is `code`
	reInline = regexp.MustCompile("\\*\\*(.+?)\\*\\*|`([^`]+)`")
)

// WriteDocx saves the report as a .docx file at outputPath.
func WriteDocx(r Report, outputPath string) error {
	doc, err := buildDocx(r)
	if err != nil {
		return err
	}
	return doc.SaveTo(outputPath)
}

// EncodeDocx streams the report as .docx to w.
func EncodeDocx(r Report, w io.Writer) error {
	doc, err := buildDocx(r)
	if err != nil {
		return err
	}
	return doc.Write(w)
}

// docWriter lays a Report out section by section. Section bodies are model
// markdown, of which only headings, list items and inline bold/code spans
// are interpreted.
type docWriter struct {
	doc *docx.RootDoc
}

func buildDocx(r Report) (*docx.RootDoc, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	w := &docWriter{doc: doc}

	if err := w.heading(r.Title, 0); err != nil {
		return nil, err
	}
	w.run(doc.AddParagraph(""), r.GeneratedAt.Format("2006-01-02 15:04")).Italic(true).Color(mutedGrey)

	sections := []struct{ title, body string }{
		{"Topic", r.Topic},
		{"Analysis", r.Analysis},
		{"Summary", r.Summary},
	}
	for _, s := range sections {
		if strings.TrimSpace(s.body) == "" {
			continue
		}
		if err := w.heading(s.title, 1); err != nil {
			return nil, err
		}
		if err := w.markdown(s.body); err != nil {
			return nil, err
		}
	}

	if len(r.Conversation) > 0 {
		if err := w.heading("Conversation", 1); err != nil {
			return nil, err
		}
		for _, t := range r.Conversation {
			if err := w.turn(t); err != nil {
				return nil, err
			}
		}
	}

	return doc, nil
}

func (w *docWriter) heading(text string, level uint) error {
	if _, err := w.doc.AddHeading(plainText(text), level); err != nil {
		return fmt.Errorf("add heading %q: %w", text, err)
	}
	return nil
}

// markdown writes body line by line. Headings inside a body nest one level
// under the section heading.
func (w *docWriter) markdown(body string) error {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(line); m != nil {
			level := uint(len(m[1])) + 1
			if level > 4 {
				level = 4
			}
			if err := w.heading(m[2], level); err != nil {
				return err
			}
			continue
		}

		p := w.doc.AddParagraph("")
		if m := reListItem.FindStringSubmatch(line); m != nil {
			marker := m[1] + " "
			if m[1] == "-" || m[1] == "*" {
				marker = "• "
			}
			w.run(p, marker)
			line = m[2]
		}
		w.inline(p, line)
	}
	return nil
}

// turn writes one conversation message as a coloured speaker label followed
// by the message text. Any lines after the first are written as markdown.
func (w *docWriter) turn(t session.Turn) error {
	first, rest, _ := strings.Cut(strings.TrimSpace(t.Text), "\n")

	p := w.doc.AddParagraph("")
	w.run(p, speakerLabel(t.Speaker)+": ").Bold(true).Color(speakerColors[t.Speaker])
	w.inline(p, strings.TrimSpace(first))

	if rest == "" {
		return nil
	}
	return w.markdown(rest)
}

func (w *docWriter) inline(p *docx.Paragraph, text string) {
	last := 0
	for _, m := range reInline.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			w.run(p, text[last:m[0]])
		}
		switch {
		case m[2] >= 0:
			w.run(p, text[m[2]:m[3]]).Bold(true)
		case m[4] >= 0:
			w.run(p, text[m[4]:m[5]]).Font(monoFont)
		}
		last = m[1]
	}
	if last < len(text) {
		w.run(p, text[last:])
	}
}

func (w *docWriter) run(p *docx.Paragraph, text string) *docx.Run {
	return p.AddText(text).Font(fontName).Size(fontSize)
}

// plainText strips inline markers from text that is written as a single run.
func plainText(s string) string {
	return strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
}
