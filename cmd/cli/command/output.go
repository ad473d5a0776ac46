package command

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"moviehub/internal/microservices/http-api/dto"
	"moviehub/internal/shared"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	mutedColor   = color.New(color.FgHiBlack)
	starColor    = color.New(color.FgYellow)
)

func printSuccess(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✓ "+format+"\n", args...)
}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

func averageText(avg *float64) string {
	if label := dto.FormatAverage(avg); label != "" {
		return label
	}
	return "-"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func bar(count, max int64, width int) string {
	if max <= 0 || count <= 0 {
		return ""
	}
	n := int(count * int64(width) / max)
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// describeError turns the error taxonomy into a message for the terminal.
func describeError(err error) error {
	var ve *shared.ValidationError
	if errors.As(err, &ve) {
		fields := make([]string, 0, len(ve.Fields))
		for f := range ve.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		var b strings.Builder
		b.WriteString("invalid input:")
		for _, f := range fields {
			fmt.Fprintf(&b, "\n  %s: %s", f, ve.Fields[f])
		}
		return errors.New(b.String())
	}
	if errors.Is(err, shared.ErrStorage) {
		return fmt.Errorf("database error: %w", err)
	}
	return err
}
