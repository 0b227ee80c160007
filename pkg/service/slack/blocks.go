package slack

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/secmon-lab/vulntrend/pkg/domain/model"
	"github.com/secmon-lab/vulntrend/pkg/domain/types"
	"github.com/slack-go/slack"
)

// maxSectionText is the Slack limit of a section text object
const maxSectionText = 3000

// GetStateEmoji returns the emoji of a load state
func GetStateEmoji(state types.LoadState) string {
	switch state {
	case types.LoadStateSuccess:
		return "✅"
	case types.LoadStateFailed:
		return "❌"
	default:
		return "⏳"
	}
}

// BuildReportBlocks builds the Block Kit message of a finished report
func BuildReportBlocks(report *model.Report, locale model.Locale) []slack.Block {
	msg := locale.Messages()

	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, msg.Title, true, false),
		),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("%s %s · %s · `%s`",
					GetStateEmoji(report.Status.State),
					report.Status.State,
					report.ReferenceDate.Format("2006-01-02"),
					report.ID),
				false, false),
		),
		slack.NewDividerBlock(),
	}

	if report.Status.State != types.LoadStateSuccess || report.Bundle == nil {
		text := report.Status.Message
		if text == "" {
			text = msg.Loading
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
			nil, nil,
		))
		return blocks
	}

	for _, chunk := range chunkLines(bundleLines(report.Bundle), maxSectionText) {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, chunk, false, false),
			nil, nil,
		))
	}

	return blocks
}

// ReportSummary returns the plain text fallback of the message
func ReportSummary(report *model.Report, locale model.Locale) string {
	msg := locale.Messages()
	if report.Status.State == types.LoadStateSuccess && report.Bundle != nil {
		return fmt.Sprintf("%s: %d", msg.Title, report.Bundle.Len())
	}
	return fmt.Sprintf("%s: %s", msg.Title, report.Status.Message)
}

// bundleLines formats one line per label: cyber and sonar high/medium/low
func bundleLines(bundle *model.SeriesBundle) []string {
	lines := make([]string, 0, bundle.Len())
	for i, label := range bundle.Labels {
		var b strings.Builder
		fmt.Fprintf(&b, "*%s*", label)
		for _, src := range types.Sources() {
			values := make([]string, 0, len(types.Tiers()))
			for _, tier := range types.Tiers() {
				values = append(values, strconv.FormatFloat(bundle.Series(src, tier)[i], 'f', -1, 64))
			}
			fmt.Fprintf(&b, "  %s %s", src, strings.Join(values, "/"))
		}
		if i < len(bundle.Present) && !bundle.Present[i] {
			b.WriteString("  _(no data)_")
		}
		lines = append(lines, b.String())
	}
	return lines
}

func chunkLines(lines []string, limit int) []string {
	var chunks []string
	var current strings.Builder
	for _, line := range lines {
		if current.Len() > 0 && current.Len()+1+len(line) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
