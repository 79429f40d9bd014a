package internal

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	headerStyle = color.New(color.FgCyan, color.Bold)
	labelStyle  = color.New(color.FgBlue, color.Bold)
	countStyle  = color.New(color.FgGreen, color.Bold)
	prunedStyle = color.New(color.FgYellow, color.Bold)
)

// FormatSummary renders a short report of one flatten run for terminal
// output.
func FormatSummary(inputPath, outputPath string, stats Stats) string {
	var builder strings.Builder

	builder.WriteString(headerStyle.Sprintf("%s -> %s\n", inputPath, outputPath))
	builder.WriteString(labelStyle.Sprint("  strategies: "))
	builder.WriteString(countStyle.Sprintf("%d\n", stats.LeavesEmitted))
	builder.WriteString(labelStyle.Sprint("  pruned branches: "))
	builder.WriteString(prunedStyle.Sprintf("%d\n", stats.BranchesPruned))
	builder.WriteString(labelStyle.Sprint("  nodes visited: "))
	builder.WriteString(fmt.Sprintf("%d\n", stats.NodesVisited))
	builder.WriteString(labelStyle.Sprint("  max stack depth: "))
	builder.WriteString(fmt.Sprintf("%d", stats.MaxStackDepth))

	return builder.String()
}
