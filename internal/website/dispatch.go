// internal/website/dispatch.go
//
// Template selection.
//
// Context
// -------
// A tenant's website config names one of three presentation templates.
// The mapping is total: unknown or missing identifiers degrade to
// template_1.  The degradation is silent towards the visitor but loud in
// telemetry (WARN log + counter) so a misconfigured tenant is visible to
// operators without breaking their public site.
package website

import (
	"go.uber.org/zap"

	"github.com/inmosite/gateway/internal/metrics"
)

// DefaultTemplateID is the resilience fallback for unknown identifiers.
const DefaultTemplateID = "template_1"

var knownTemplates = map[string]struct{}{
	"template_1": {},
	"template_2": {},
	"template_3": {},
}

// Dispatch maps a config's template id to the template-set name to
// render.  Always returns a known set name.
func Dispatch(templateID, slug string) string {
	if _, ok := knownTemplates[templateID]; ok {
		return templateID
	}
	zap.S().Warnw("unknown template id, degrading to default",
		"template_id", templateID, "slug", slug)
	metrics.TemplateFallbackTotal.Inc()
	return DefaultTemplateID
}
