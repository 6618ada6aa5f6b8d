package analyzer

import (
	"strings"

	"github.com/webperf-tools/vitaltop/model"
)

// Selector derives a diagnostic selector for an element: tag plus #id plus
// dot-joined classes, prefixed by the immediate parent's tag and first
// class unless the parent is the document root. Not guaranteed unique.
func Selector(el *model.Element) string {
	if el == nil {
		return "(unknown)"
	}
	var sb strings.Builder
	if p := el.Parent; p != nil && !isRoot(p) {
		sb.WriteString(p.Tag)
		if len(p.Classes) > 0 {
			sb.WriteByte('.')
			sb.WriteString(p.Classes[0])
		}
		sb.WriteString(" > ")
	}
	sb.WriteString(el.Tag)
	if el.ID != "" {
		sb.WriteByte('#')
		sb.WriteString(el.ID)
	}
	for _, c := range el.Classes {
		sb.WriteByte('.')
		sb.WriteString(c)
	}
	return sb.String()
}

func isRoot(el *model.Element) bool {
	return el.Tag == "html" || el.Tag == "#document"
}
