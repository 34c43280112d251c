package escalation

import "strings"

// Detector находит в ответе агента маркер эскалации и вычищает его.
// Маркер инжектится при создании, чтобы тесты могли подставить свой.
type Detector struct {
	marker string
}

func NewDetector(marker string) *Detector {
	return &Detector{marker: marker}
}

// Detect возвращает текст без маркера (trimmed) и признак "нужен человек".
// Маркер засчитывается в любой позиции, не только в конце ответа.
func (d *Detector) Detect(text string) (string, bool) {
	if d.marker == "" || !strings.Contains(text, d.marker) {
		return strings.TrimSpace(text), false
	}
	cleaned := strings.ReplaceAll(text, d.marker, "")
	return strings.TrimSpace(cleaned), true
}
