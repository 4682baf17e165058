package markup

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VisualizationFormat represents the output format for chain visualization.
type VisualizationFormat string

const (
	FormatText    VisualizationFormat = "text"
	FormatMermaid VisualizationFormat = "mermaid"
	FormatDOT     VisualizationFormat = "dot"
	FormatJSON    VisualizationFormat = "json"
)

// SupportedFormats lists the visualization formats.
func SupportedFormats() []VisualizationFormat {
	return []VisualizationFormat{FormatText, FormatMermaid, FormatDOT, FormatJSON}
}

// FormatDescription returns a one-line description of format.
func FormatDescription(format VisualizationFormat) string {
	switch format {
	case FormatText:
		return "Human-readable text with ASCII art"
	case FormatMermaid:
		return "Mermaid diagram (for GitHub, GitLab, etc.)"
	case FormatDOT:
		return "Graphviz DOT format (render with `dot -Tpng chain.dot -o chain.png`)"
	case FormatJSON:
		return "Structured JSON representation"
	default:
		return ""
	}
}

// Visualize renders the resolved order of stages in the given format.
func Visualize(stages []Stage, format VisualizationFormat) (string, error) {
	ordered, err := ResolveOrder(stages)
	if err != nil {
		return "", err
	}
	switch format {
	case FormatText:
		return visualizeText(ordered), nil
	case FormatMermaid:
		return visualizeMermaid(ordered), nil
	case FormatDOT:
		return visualizeDOT(ordered), nil
	case FormatJSON:
		return visualizeJSON(ordered)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// present filters names to the stages in the chain.
func present(stages []Stage, names []string) []string {
	var out []string
	for _, name := range names {
		for _, s := range stages {
			if s.Name() == name {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

func groupByPhase(stages []Stage) map[Phase][]Stage {
	byPhase := make(map[Phase][]Stage)
	for _, s := range stages {
		byPhase[s.Phase()] = append(byPhase[s.Phase()], s)
	}
	return byPhase
}

func visualizeText(stages []Stage) string {
	var sb strings.Builder
	sb.WriteString("Compile Chain\n")
	sb.WriteString("=============\n\n")

	byPhase := groupByPhase(stages)
	for i, phase := range PhaseOrder {
		group := byPhase[phase]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "┌─ Phase %d: %s\n│\n", i+1, phase)
		for j, s := range group {
			deps := s.Dependencies()
			last := j == len(group)-1
			prefix, connector := "├──", "│   "
			if last {
				prefix, connector = "└──", "    "
			}
			fmt.Fprintf(&sb, "│ %s [%s]\n", prefix, s.Name())
			if len(deps.MustRunAfter) > 0 {
				fmt.Fprintf(&sb, "│ %s   ⤷ depends on: %s\n", connector, strings.Join(deps.MustRunAfter, ", "))
			}
			if len(deps.MustRunBefore) > 0 {
				fmt.Fprintf(&sb, "│ %s   ⤶ required before: %s\n", connector, strings.Join(deps.MustRunBefore, ", "))
			}
			if len(deps.RunAfterIfPresent) > 0 {
				fmt.Fprintf(&sb, "│ %s   ⤷ after (if present): %s\n", connector, strings.Join(deps.RunAfterIfPresent, ", "))
			}
		}
		sb.WriteString("│\n")
		if i < len(PhaseOrder)-1 {
			sb.WriteString("↓\n")
		}
	}
	fmt.Fprintf(&sb, "\nTotal: %d stages across %d phases\n", len(stages), len(byPhase))
	return sb.String()
}

func mermaidID(name string) string {
	return strings.NewReplacer("_", "", "-", "").Replace(name)
}

func visualizeMermaid(stages []Stage) string {
	var sb strings.Builder
	sb.WriteString("```mermaid\ngraph TD\n")

	byPhase := groupByPhase(stages)
	for _, phase := range PhaseOrder {
		group := byPhase[phase]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "    subgraph %s[\"Phase: %s\"]\n", phase, phase)
		for _, s := range group {
			fmt.Fprintf(&sb, "        %s[\"%s\"]\n", mermaidID(s.Name()), s.Name())
		}
		sb.WriteString("    end\n")
	}
	sb.WriteString("\n")

	for _, s := range stages {
		deps := s.Dependencies()
		for _, dep := range deps.MustRunAfter {
			fmt.Fprintf(&sb, "    %s --> %s\n", mermaidID(dep), mermaidID(s.Name()))
		}
		for _, after := range deps.MustRunBefore {
			fmt.Fprintf(&sb, "    %s --> %s\n", mermaidID(s.Name()), mermaidID(after))
		}
		for _, dep := range present(stages, deps.RunAfterIfPresent) {
			fmt.Fprintf(&sb, "    %s -.-> %s\n", mermaidID(dep), mermaidID(s.Name()))
		}
	}
	sb.WriteString("```\n")
	return sb.String()
}

func visualizeDOT(stages []Stage) string {
	var sb strings.Builder
	sb.WriteString("digraph CompileChain {\n")
	sb.WriteString("    rankdir=TB;\n")
	sb.WriteString("    node [shape=box, style=rounded];\n\n")

	byPhase := groupByPhase(stages)
	for i, phase := range PhaseOrder {
		group := byPhase[phase]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "    subgraph cluster_%d {\n", i)
		fmt.Fprintf(&sb, "        label=\"Phase: %s\";\n", phase)
		sb.WriteString("        style=filled;\n")
		sb.WriteString("        color=lightgrey;\n\n")
		for _, s := range group {
			fmt.Fprintf(&sb, "        %q;\n", s.Name())
		}
		sb.WriteString("    }\n\n")
	}

	for _, s := range stages {
		deps := s.Dependencies()
		for _, dep := range deps.MustRunAfter {
			fmt.Fprintf(&sb, "    %q -> %q;\n", dep, s.Name())
		}
		for _, after := range deps.MustRunBefore {
			fmt.Fprintf(&sb, "    %q -> %q;\n", s.Name(), after)
		}
		for _, dep := range present(stages, deps.RunAfterIfPresent) {
			fmt.Fprintf(&sb, "    %q -> %q [style=dashed];\n", dep, s.Name())
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

type stageView struct {
	Name              string   `json:"name"`
	Phase             Phase    `json:"phase"`
	Order             int      `json:"order"`
	MustRunAfter      []string `json:"mustRunAfter"`
	MustRunBefore     []string `json:"mustRunBefore"`
	RunAfterIfPresent []string `json:"runAfterIfPresent"`
	ReadsHeadingIDs   bool     `json:"readsHeadingIds"`
	ModifiesHeadings  bool     `json:"modifiesHeadings"`
}

func visualizeJSON(stages []Stage) (string, error) {
	views := make([]stageView, 0, len(stages))
	for i, s := range stages {
		deps := s.Dependencies()
		views = append(views, stageView{
			Name:              s.Name(),
			Phase:             s.Phase(),
			Order:             i + 1,
			MustRunAfter:      nonNil(deps.MustRunAfter),
			MustRunBefore:     nonNil(deps.MustRunBefore),
			RunAfterIfPresent: nonNil(deps.RunAfterIfPresent),
			ReadsHeadingIDs:   deps.ReadsHeadingIDs,
			ModifiesHeadings:  deps.ModifiesHeadings,
		})
	}
	doc := struct {
		Stages      []stageView `json:"stages"`
		TotalStages int         `json:"totalStages"`
		TotalPhases int         `json:"totalPhases"`
	}{views, len(stages), len(groupByPhase(stages))}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
