package router

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// placeholderRe recognizes a full placeholder segment: "{identifier}".
var placeholderRe = regexp.MustCompile(`^\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// Pattern is a compiled path template. Literal segments must match exactly;
// "{name}" segments match exactly one non-empty path segment and capture it.
// The compiled expression is anchored, so a pattern never matches a longer
// path that merely starts with the template.
type Pattern struct {
	// Template is the original path template.
	Template string
	// ParamNames holds the placeholder names in template order, one per
	// capture group of the compiled expression.
	ParamNames []string

	re *regexp.Regexp
}

// NewPattern compiles a path template such as "/users/{id}/posts/{post_id}".
// Braces are only valid as full "{name}" segments; anything else is rejected
// with ErrInvalidPattern, and a repeated placeholder name with
// ErrDuplicateParam.
func NewPattern(template string) (*Pattern, error) {
	segments := strings.Split(template, "/")
	parts := make([]string, len(segments))
	var names []string

	for i, seg := range segments {
		if m := placeholderRe.FindStringSubmatch(seg); m != nil {
			name := m[1]
			if slices.Contains(names, name) {
				return nil, fmt.Errorf("%w: %q in %q", ErrDuplicateParam, name, template)
			}
			names = append(names, name)
			parts[i] = "([^/]+)"
			continue
		}
		if strings.ContainsAny(seg, "{}") {
			return nil, fmt.Errorf("%w: segment %q in %q", ErrInvalidPattern, seg, template)
		}
		parts[i] = regexp.QuoteMeta(seg)
	}

	re, err := regexp.Compile("^" + strings.Join(parts, "/") + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, template, err)
	}

	return &Pattern{
		Template:   template,
		ParamNames: names,
		re:         re,
	}, nil
}

// Match tests path against the template. On success it returns the captured
// parameters keyed by placeholder name; bindings always contain exactly one
// entry per placeholder.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	params := make(map[string]string, len(p.ParamNames))
	for i, name := range p.ParamNames {
		params[name] = m[i+1]
	}
	return params, true
}

// String returns the original template.
func (p *Pattern) String() string {
	return p.Template
}
