package export

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"training-schedule-bot/internal/schedule"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

const pageStyle = `body{font-family:Arial,Helvetica,sans-serif;margin:24px;color:#111}
h1{font-size:20px;margin:0}
p{margin:4px 0;color:#555;font-size:13px}
table{width:100%;border-collapse:collapse;margin-top:16px;font-size:13px}
th,td{border:1px solid #ccc;padding:6px;text-align:left}
th{background:#f3f4f6}
tr:nth-child(even) td{background:#fafafa}`

// Markdown таблица расписания в том виде, в каком ее видит пользователь
func Markdown(h Header, sessions []schedule.Session) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(h.course()))
	fmt.Fprintf(&b, "%s\n\n", escapeMarkdown(h.trainee()))
	fmt.Fprintf(&b, "Generated: %s\n\n", h.GeneratedAt.Format("2006-01-02"))

	b.WriteString("| # | Date | Start | End | Hours | Remaining |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, s := range sessions {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			s.Number,
			s.Date,
			s.StartTime,
			s.EndTime,
			schedule.FormatHours(s.Hours),
			schedule.FormatHours(s.Remaining),
		)
	}

	return b.String()
}

// RenderHTML снимок расписания в виде самостоятельной HTML страницы
func RenderHTML(h Header, sessions []schedule.Session) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(h, sessions)), &body); err != nil {
		return nil, fmt.Errorf("failed to render schedule: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">")
	fmt.Fprintf(&page, "<title>%s</title>", html.EscapeString(FileName(h, "pdf")))
	fmt.Fprintf(&page, "<style>%s</style></head><body>\n", pageStyle)
	page.Write(body.Bytes())
	page.WriteString("</body></html>\n")

	return page.Bytes(), nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, `|`, `\|`, `*`, `\*`, `_`, `\_`, "`", "\\`",
	`#`, `\#`, `[`, `\[`, `]`, `\]`, `<`, `&lt;`, `>`, `&gt;`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(strings.ReplaceAll(s, "\n", " "))
}
