// Demo program that scores every built-in example text and prints the
// score, the flags and the hint for each.
package main

import (
	"fmt"
	"strings"

	"github.com/ppiankov/fakecheck/internal/model"
	"github.com/ppiankov/fakecheck/internal/samples"
	"github.com/ppiankov/fakecheck/internal/score"
)

func main() {
	fmt.Println("=== fakecheck example texts ===")
	fmt.Println()

	for _, s := range samples.All() {
		fmt.Printf("%s (%s)\n", s.Title, s.Name)
		fmt.Println(strings.Repeat("-", 60))

		result := score.Analyze(s.Text)
		fmt.Printf("  Fake: %3d%%   Real: %3d%%   Words: %d\n", result.FakePercent, result.RealPercent, result.WordCount)

		if len(result.Flags) == 0 {
			fmt.Println("  No anomalies detected.")
		}
		for _, f := range result.Flags {
			marker := "⚠️ "
			if f.Kind == model.FlagReal {
				marker = "✓"
			}
			fmt.Printf("  %s %s: %s\n", marker, f.Kind.Label(), f.Message)
		}

		fmt.Printf("\n  %s\n\n", score.BuildHint(result))
	}
}
