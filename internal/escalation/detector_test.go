package escalation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const marker = "[SWITCH_TO_HUMAN]"

func TestDetectMarkerAtEnd(t *testing.T) {
	d := NewDetector(marker)
	cleaned, needsHuman := d.Detect("Try restarting the app. [SWITCH_TO_HUMAN]")
	assert.True(t, needsHuman)
	assert.Equal(t, "Try restarting the app.", cleaned)
}

func TestDetectMarkerMidSentence(t *testing.T) {
	d := NewDetector(marker)
	cleaned, needsHuman := d.Detect("I cannot [SWITCH_TO_HUMAN] help with that.")
	assert.True(t, needsHuman)
	assert.NotContains(t, cleaned, marker)
	assert.Equal(t, "I cannot  help with that.", cleaned)
}

func TestDetectMultipleOccurrences(t *testing.T) {
	d := NewDetector(marker)
	cleaned, needsHuman := d.Detect("[SWITCH_TO_HUMAN] escalate [SWITCH_TO_HUMAN]")
	assert.True(t, needsHuman)
	assert.Zero(t, strings.Count(cleaned, marker))
	assert.Equal(t, "escalate", cleaned)
}

func TestDetectNoMarker(t *testing.T) {
	d := NewDetector(marker)
	cleaned, needsHuman := d.Detect("  Your order ships tomorrow.  ")
	assert.False(t, needsHuman)
	assert.Equal(t, "Your order ships tomorrow.", cleaned)
}

func TestDetectEmptyInput(t *testing.T) {
	d := NewDetector(marker)
	cleaned, needsHuman := d.Detect("")
	assert.False(t, needsHuman)
	assert.Equal(t, "", cleaned)
}

func TestDetectOnlyMarker(t *testing.T) {
	d := NewDetector(marker)
	cleaned, needsHuman := d.Detect(marker)
	assert.True(t, needsHuman)
	assert.Equal(t, "", cleaned)
}

func TestDetectIdempotentOnCleanedText(t *testing.T) {
	d := NewDetector(marker)
	cleaned, _ := d.Detect("Please hold on. [SWITCH_TO_HUMAN]")
	again, needsHuman := d.Detect(cleaned)
	assert.False(t, needsHuman)
	assert.Equal(t, cleaned, again)
}

func TestDetectCustomMarker(t *testing.T) {
	d := NewDetector("<<HANDOFF>>")
	cleaned, needsHuman := d.Detect("ok <<HANDOFF>>")
	assert.True(t, needsHuman)
	assert.Equal(t, "ok", cleaned)

	_, needsHuman = d.Detect("ok [SWITCH_TO_HUMAN]")
	assert.False(t, needsHuman)
}
