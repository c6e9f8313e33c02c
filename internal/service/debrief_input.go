package service

import (
	"strings"

	"simvado-be/internal/entity"
	"simvado-be/pkg/debrief"
	"simvado-be/pkg/scoring"
)

func decisionSummaries(g *entity.ModuleGraph, decisions []*entity.SessionDecision) []debrief.DecisionSummary {
	out := make([]debrief.DecisionSummary, 0, len(decisions))
	for _, d := range decisions {
		s := debrief.DecisionSummary{
			Sequence:         d.Sequence,
			TimeSpentSeconds: d.TimeSpentSeconds,
			Scores:           d.ScoreSnapshot,
		}
		if node, opt, err := g.Graph.NodeOfOption(d.SelectedOptionId); err == nil {
			s.NodeKey = node.Key
			s.OptionLabel = opt.Label
		}
		out = append(out, s)
	}
	return out
}

func decisionDebriefPrompt(module *entity.Module, g *entity.ModuleGraph, decisions []*entity.SessionDecision, final scoring.FinalScores, duration int) string {
	return debrief.BuildDecisionDebriefPrompt(debrief.DecisionDebriefInput{
		SimulationTitle: module.SimulationTitle,
		ModuleTitle:     module.Title,
		Final:           final,
		DurationSeconds: duration,
		Decisions:       decisionSummaries(g, decisions),
	})
}

func gameDebriefPrompt(module *entity.Module, finalScores map[string]interface{}, duration *int, summary *string, gameEvents []*entity.GameEvent) string {
	var decisions []map[string]interface{}
	for _, e := range gameEvents {
		if e.EventType == entity.GameEventDecision {
			decisions = append(decisions, e.EventData)
		}
	}
	in := debrief.GameDebriefInput{
		SimulationTitle: module.SimulationTitle,
		ModuleTitle:     module.Title,
		FinalScores:     finalScores,
		DurationSeconds: duration,
		Decisions:       decisions,
	}
	if summary != nil {
		in.Summary = strings.TrimSpace(*summary)
	}
	return debrief.BuildGameDebriefPrompt(in)
}
