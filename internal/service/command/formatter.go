package command

import (
	"fmt"
	"strings"
)

// ResponseFormatter renders command output as plain text. The same string
// is printed on the CLI, sent over WebSocket, and forwarded to Telegram,
// so it carries no markup.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) Info(title string) string {
	return title + "\n" + strings.Repeat("-", len(title)) + "\n"
}

func (f *ResponseFormatter) Success(message string) string {
	return message + "\n"
}

func (f *ResponseFormatter) Label(label, value string) string {
	return fmt.Sprintf("%s: %s\n", label, value)
}

func (f *ResponseFormatter) List(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("- %s\n", item))
	}
	return sb.String()
}

func (f *ResponseFormatter) Combine(sections ...string) string {
	return strings.Join(sections, "\n")
}
