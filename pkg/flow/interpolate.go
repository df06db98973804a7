package flow

import "regexp"

// placeholderPattern matches {{user.key}} placeholders in string fields.
var placeholderPattern = regexp.MustCompile(`\{\{user\.(\w+)\}\}`)

// InterpolateStep returns a copy of the step with {{user.key}} placeholders
// replaced from userData. Unknown keys are left verbatim so the engine can
// report them instead of silently blanking values.
func InterpolateStep(s Step, userData map[string]string) Step {
	out := s.Clone()
	if len(userData) == 0 {
		return out
	}
	for name, v := range out.Fields {
		switch val := v.(type) {
		case string:
			out.Fields[name] = interpolateText(val, userData)
		case map[string]string:
			for k, mv := range val {
				val[k] = interpolateText(mv, userData)
			}
		}
	}
	return out
}

func interpolateText(text string, userData map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		if v, ok := userData[key]; ok {
			return v
		}
		return match
	})
}
