package styles_test

import (
	"testing"

	"github.com/bnema/fickle/internal/cli/styles"
	"github.com/stretchr/testify/assert"
)

func sampleReport() styles.EnginesReport {
	return styles.EnginesReport{
		Preferred: "webkit-platform",
		Default:   "webkit-full",
		Rows: []styles.EngineRow{
			{
				ID:           "webkit-full",
				DisplayName:  "WebKitGTK (bundled)",
				Origin:       "embedded-full",
				Capabilities: []string{"zoom", "script-eval", "back-forward"},
			},
			{
				ID:           "webkit-platform",
				DisplayName:  "WebKitGTK (system)",
				Origin:       "embedded-platform",
				Capabilities: []string{"zoom", "back-forward"},
			},
			{
				ID:          "external",
				DisplayName: "External viewer",
				Origin:      "out-of-process",
			},
		},
	}
}

func TestRenderListsEveryBackend(t *testing.T) {
	r := styles.NewEnginesRenderer(styles.NewTheme())

	out := r.Render(sampleReport())

	assert.Contains(t, out, "WebKitGTK (bundled)")
	assert.Contains(t, out, "WebKitGTK (system)")
	assert.Contains(t, out, "External viewer")
	assert.Contains(t, out, "3 detected")
}

func TestRenderMarksPreferredAndDefault(t *testing.T) {
	r := styles.NewEnginesRenderer(styles.NewTheme())

	out := r.Render(sampleReport())

	assert.Contains(t, out, "preferred")
	assert.Contains(t, out, "default")
}

func TestRenderEmptyDetection(t *testing.T) {
	r := styles.NewEnginesRenderer(styles.NewTheme())

	out := r.Render(styles.EnginesReport{})

	assert.Contains(t, out, "no rendering backends detected")
	assert.Contains(t, out, "0 detected")
}

func TestRenderBackendWithoutCapabilities(t *testing.T) {
	r := styles.NewEnginesRenderer(styles.NewTheme())

	out := r.Render(sampleReport())

	assert.Contains(t, out, "none")
}
