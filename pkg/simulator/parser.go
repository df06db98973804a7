package simulator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/flowpilot-dev/flowpilot/pkg/flow"
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

// ParseInstructions turns free-text instructions into steps with simple
// keyword rules, one step per clause. The real engine does this with a
// language model; the simulator only needs to be predictable.
func ParseInstructions(instructions string) []flow.StepPayload {
	var steps []flow.StepPayload
	for _, clause := range splitClauses(instructions) {
		if p, ok := parseClause(clause); ok {
			steps = append(steps, p)
		}
	}
	return steps
}

func splitClauses(instructions string) []string {
	var out []string
	for _, line := range strings.Split(instructions, "\n") {
		for _, part := range strings.Split(line, " then ") {
			part = strings.Trim(part, " .,;")
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseClause(clause string) (flow.StepPayload, bool) {
	lower := strings.ToLower(clause)

	switch {
	case urlPattern.MatchString(clause):
		return payload(flow.StepGoto, "url", urlPattern.FindString(clause)), true

	case hasPrefix(lower, "go to ", "open ", "navigate to "):
		target := clause
		for _, p := range []string{"go to ", "open ", "navigate to "} {
			if strings.HasPrefix(lower, p) {
				target = strings.TrimSpace(clause[len(p):])
				break
			}
		}
		if !strings.Contains(target, "://") {
			target = "https://" + target
		}
		return payload(flow.StepGoto, "url", target), true

	case strings.HasPrefix(lower, "click "):
		return payload(flow.StepClick, "selector", strings.TrimSpace(clause[6:])), true

	case strings.HasPrefix(lower, "type "):
		value, selector, ok := splitOn(clause[5:], " into ")
		if !ok {
			return flow.StepPayload{}, false
		}
		return flow.StepPayload{Action: flow.StepType, Fields: map[string]any{
			"selector": selector,
			"value":    strings.Trim(value, `'"`),
		}}, true

	case strings.HasPrefix(lower, "wait"):
		ms := 1000
		if n, err := strconv.Atoi(strings.TrimSpace(firstNumber(lower))); err == nil {
			ms = n
		}
		return payload(flow.StepWait, "duration", ms), true

	case strings.HasPrefix(lower, "upload "):
		file, selector, ok := splitOn(clause[7:], " to ")
		if !ok {
			return flow.StepPayload{}, false
		}
		return flow.StepPayload{Action: flow.StepUpload, Fields: map[string]any{
			"selector": selector,
			"file":     file,
		}}, true

	case strings.HasPrefix(lower, "extract "):
		return payload(flow.StepExtract, "selector", strings.TrimSpace(clause[8:])), true

	case strings.Contains(lower, "fill") && strings.Contains(lower, "form"):
		return payload(flow.StepFormFill, "autoDetect", true), true

	case strings.Contains(lower, "scroll"):
		return flow.StepPayload{Action: flow.StepScroll, Fields: map[string]any{}}, true

	case strings.Contains(lower, "screenshot"):
		return flow.StepPayload{Action: flow.StepScreenshot, Fields: map[string]any{}}, true
	}
	return flow.StepPayload{}, false
}

func payload(kind flow.Kind, field string, value any) flow.StepPayload {
	return flow.StepPayload{Action: kind, Fields: map[string]any{field: value}}
}

func hasPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func splitOn(s, sep string) (before, after string, ok bool) {
	i := strings.Index(strings.ToLower(s), sep)
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(sep):]), true
}

var numberPattern = regexp.MustCompile(`\d+`)

func firstNumber(s string) string {
	return numberPattern.FindString(s)
}
