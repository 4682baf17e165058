package markup

import (
	"fmt"
	"slices"
)

// sortPhase orders the stages of one phase with Kahn's algorithm. Ties are
// broken by name so the result is deterministic.
func sortPhase(stages []Stage) ([]Stage, error) {
	if len(stages) == 0 {
		return []Stage{}, nil
	}

	byName := make(map[string]Stage, len(stages))
	for _, s := range stages {
		if _, exists := byName[s.Name()]; exists {
			return nil, fmt.Errorf("duplicate stage name: %q", s.Name())
		}
		byName[s.Name()] = s
	}

	graph := make(map[string][]string, len(stages))
	inDegree := make(map[string]int, len(stages))
	for _, s := range stages {
		graph[s.Name()] = nil
		inDegree[s.Name()] = 0
	}

	// Constraints pointing outside the phase are enforced by phase order.
	for _, s := range stages {
		name := s.Name()
		deps := s.Dependencies()
		for _, dep := range slices.Concat(deps.MustRunAfter, deps.RunAfterIfPresent) {
			if _, ok := byName[dep]; ok {
				graph[dep] = append(graph[dep], name)
				inDegree[name]++
			}
		}
		for _, after := range deps.MustRunBefore {
			if _, ok := byName[after]; ok {
				graph[name] = append(graph[name], after)
				inDegree[after]++
			}
		}
	}

	var queue []string
	for _, s := range stages {
		if inDegree[s.Name()] == 0 {
			queue = append(queue, s.Name())
		}
	}
	slices.Sort(queue)

	result := make([]Stage, 0, len(stages))
	visited := make(map[string]bool, len(stages))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		result = append(result, byName[current])

		neighbors := graph[current]
		slices.Sort(neighbors)
		for _, n := range neighbors {
			inDegree[n]--
			if inDegree[n] == 0 {
				queue = append(queue, n)
				slices.Sort(queue)
			}
		}
	}

	if len(result) != len(stages) {
		var unvisited []string
		for _, s := range stages {
			if !visited[s.Name()] {
				unvisited = append(unvisited, s.Name())
			}
		}
		slices.Sort(unvisited)
		return nil, fmt.Errorf("circular dependency detected involving stages: %v", unvisited)
	}
	return result, nil
}

// ResolveOrder groups stages by phase and sorts each phase by its dependencies.
func ResolveOrder(stages []Stage) ([]Stage, error) {
	if len(stages) == 0 {
		return []Stage{}, nil
	}

	byPhase := make(map[Phase][]Stage)
	for _, s := range stages {
		if !IsValidPhase(s.Phase()) {
			return nil, fmt.Errorf("stage %q has invalid phase: %q", s.Name(), s.Phase())
		}
		byPhase[s.Phase()] = append(byPhase[s.Phase()], s)
	}

	result := make([]Stage, 0, len(stages))
	for _, phase := range PhaseOrder {
		group, ok := byPhase[phase]
		if !ok {
			continue
		}
		sorted, err := sortPhase(group)
		if err != nil {
			return nil, fmt.Errorf("phase %s: %w", phase, err)
		}
		result = append(result, sorted...)
	}
	return result, nil
}

// ValidateDependencies checks that every referenced stage exists, that
// cross-phase constraints agree with PhaseOrder, and that no cycle exists.
func ValidateDependencies(stages []Stage) error {
	if len(stages) == 0 {
		return nil
	}

	byName := make(map[string]Stage, len(stages))
	for _, s := range stages {
		byName[s.Name()] = s
	}

	for _, s := range stages {
		deps := s.Dependencies()
		own := PhaseIndex(s.Phase())
		for _, dep := range deps.MustRunAfter {
			other, ok := byName[dep]
			if !ok {
				return fmt.Errorf("stage %q depends on missing stage %q", s.Name(), dep)
			}
			if PhaseIndex(other.Phase()) > own {
				return fmt.Errorf("stage %q (phase %s) cannot run after %q (later phase %s)", s.Name(), s.Phase(), dep, other.Phase())
			}
		}
		for _, dep := range deps.RunAfterIfPresent {
			if other, ok := byName[dep]; ok && PhaseIndex(other.Phase()) > own {
				return fmt.Errorf("stage %q (phase %s) cannot run after %q (later phase %s)", s.Name(), s.Phase(), dep, other.Phase())
			}
		}
		for _, after := range deps.MustRunBefore {
			other, ok := byName[after]
			if !ok {
				return fmt.Errorf("stage %q requires missing stage %q", s.Name(), after)
			}
			if PhaseIndex(other.Phase()) < own {
				return fmt.Errorf("stage %q (phase %s) cannot run before %q (earlier phase %s)", s.Name(), s.Phase(), after, other.Phase())
			}
		}
		if deps.ReadsHeadingIDs && s.Name() != headingIDsName {
			if _, ok := byName[headingIDsName]; !ok {
				return fmt.Errorf("stage %q reads heading ids but %q is not in the chain", s.Name(), headingIDsName)
			}
		}
	}

	_, err := ResolveOrder(stages)
	return err
}
