package debrief

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"simvado-be/pkg/scoring"
)

// Bounds keep a prompt within a predictable size whatever the history length.
const (
	MaxHistoryEntries = 40
	MaxEntryLength    = 240
	MaxSummaryLength  = 2000
)

const coachPreamble = "You are an executive coach providing a post-simulation debrief. Be direct, specific, and constructive."

// DecisionSummary is one step of a player session.
type DecisionSummary struct {
	Sequence         int
	NodeKey          string
	OptionLabel      string
	TimeSpentSeconds *int
	Scores           scoring.Scores
}

type DecisionDebriefInput struct {
	SimulationTitle string
	ModuleTitle     string
	Final           scoring.FinalScores
	DurationSeconds int
	Decisions       []DecisionSummary
}

type GameDebriefInput struct {
	SimulationTitle string
	ModuleTitle     string
	FinalScores     map[string]interface{}
	DurationSeconds *int
	Summary         string
	// Decisions are the event payloads of reported decision events.
	Decisions []map[string]interface{}
}

// BuildReactionPrompt asks for a short in-character NPC reply.
func BuildReactionPrompt(template, label, description string) string {
	return fmt.Sprintf("%s\n\nThe player chose: %q: %s\n\nRespond in character as the NPC. Keep it to 2-3 sentences.",
		strings.TrimSpace(template), label, truncate(description, MaxEntryLength))
}

func BuildDecisionDebriefPrompt(in DecisionDebriefInput) string {
	var b strings.Builder
	b.WriteString(coachPreamble)
	b.WriteString("\n\n")
	writeTitles(&b, in.SimulationTitle, in.ModuleTitle)
	fmt.Fprintf(&b, "Final scores: %s\n", formatScores(in.Final.Scores))
	fmt.Fprintf(&b, "Total score: %d (%s)\n", in.Final.Total, in.Final.Grade)
	fmt.Fprintf(&b, "Decisions made: %d\n", len(in.Decisions))
	fmt.Fprintf(&b, "Duration: %d seconds\n\n", in.DurationSeconds)

	b.WriteString("Decision history:\n")
	lines := make([]string, len(in.Decisions))
	for i, d := range in.Decisions {
		line := fmt.Sprintf("#%d [%s] %s -> %s", d.Sequence, d.NodeKey, truncate(d.OptionLabel, MaxEntryLength), formatScores(d.Scores))
		if d.TimeSpentSeconds != nil {
			line += fmt.Sprintf(" (%ds)", *d.TimeSpentSeconds)
		}
		lines[i] = line
	}
	writeBounded(&b, lines)

	b.WriteString("\nProvide a debrief in Markdown with these sections:\n")
	b.WriteString("1. Summary of Decisions\n2. Strengths\n3. Blind Spots\n4. Alternative Paths\n5. Development Recommendations")
	return b.String()
}

func BuildGameDebriefPrompt(in GameDebriefInput) string {
	var b strings.Builder
	b.WriteString(coachPreamble)
	b.WriteString("\n\n")
	writeTitles(&b, in.SimulationTitle, in.ModuleTitle)
	fmt.Fprintf(&b, "Final scores: %s\n", truncate(compactJSON(in.FinalScores), MaxSummaryLength))
	if in.DurationSeconds != nil {
		fmt.Fprintf(&b, "Duration: %d seconds\n", *in.DurationSeconds)
	} else {
		b.WriteString("Duration: N/A\n")
	}
	summary := strings.TrimSpace(in.Summary)
	if summary == "" {
		summary = "N/A"
	}
	fmt.Fprintf(&b, "Summary from game engine: %s\n\n", truncate(summary, MaxSummaryLength))

	b.WriteString("Player decisions during the simulation:\n")
	if len(in.Decisions) == 0 {
		b.WriteString("No detailed decision data available.\n")
	} else {
		lines := make([]string, len(in.Decisions))
		for i, d := range in.Decisions {
			lines[i] = fmt.Sprintf("#%d %s", i+1, truncate(compactJSON(d), MaxEntryLength))
		}
		writeBounded(&b, lines)
	}

	b.WriteString("\nProvide a debrief in Markdown with these sections:\n")
	b.WriteString("1. Summary of Performance\n2. Strengths\n3. Blind Spots\n4. Alternative Approaches\n5. Development Recommendations")
	return b.String()
}

func writeTitles(b *strings.Builder, simulation, module string) {
	if simulation != "" {
		fmt.Fprintf(b, "Simulation: %s\n", simulation)
	}
	if module != "" {
		fmt.Fprintf(b, "Module: %s\n", module)
	}
}

// writeBounded keeps the first and last entries when the history is too long.
func writeBounded(b *strings.Builder, lines []string) {
	if len(lines) <= MaxHistoryEntries {
		for _, l := range lines {
			b.WriteString(l)
			b.WriteByte('\n')
		}
		return
	}
	head := MaxHistoryEntries / 2
	tail := MaxHistoryEntries - head
	for _, l := range lines[:head] {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	fmt.Fprintf(b, "... %d decisions omitted ...\n", len(lines)-MaxHistoryEntries)
	for _, l := range lines[len(lines)-tail:] {
		b.WriteString(l)
		b.WriteByte('\n')
	}
}

func formatScores(s scoring.Scores) string {
	m := s.Map()
	parts := make([]string, 0, len(scoring.Dimensions))
	for _, d := range scoring.Dimensions {
		parts = append(parts, fmt.Sprintf("%s=%d", d, m[d]))
	}
	return strings.Join(parts, " ")
}

// compactJSON renders a map with sorted keys.
func compactJSON(m map[string]interface{}) string {
	if len(m) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, err := json.Marshal(m[k])
		if err != nil {
			v = []byte(`"?"`)
		}
		parts = append(parts, fmt.Sprintf("%q:%s", k, v))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
