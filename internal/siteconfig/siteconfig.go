// internal/siteconfig/siteconfig.go
//
// Tenant website-configuration document.
//
// Context
// -------
// The backend owns this document; the gateway reads TemplateID to pick a
// presentation template and passes the rest through to the chosen template
// verbatim.  Field names mirror the backend's JSON contract.
//
// The types live in their own leaf package because both the backend client
// (which decodes the document) and the renderer (which consumes it) need
// them without depending on each other.
//
// Notes
// -----
//   - The gateway never writes this document.
//   - Colors are plain CSS color strings and are emitted inside a <style>
//     block; templates must treat them as trusted theming tokens from the
//     dashboard, not user input.
package siteconfig

// Company identifies the tenant the document belongs to.
type Company struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Logo  string `json:"logo"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// SEO carries the fields the head builder emits as meta tags.
type SEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	OGImage     string `json:"og_image"`
}

// Hero is the above-the-fold content block.
type Hero struct {
	Heading    string `json:"heading"`
	Subheading string `json:"subheading"`
	Image      string `json:"image"`
	CTALabel   string `json:"cta_label"`
	CTAURL     string `json:"cta_url"`
}

// Colors are the tenant's theming tokens.
type Colors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// Section is one ordered content block (about, services, contact, …).
type Section struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Image   string `json:"image"`
	Order   int    `json:"order"`
	Enabled bool   `json:"enabled"`
}

// Config is the whole tenant-scoped document.
type Config struct {
	Company    Company   `json:"company"`
	SEO        SEO       `json:"seo"`
	Hero       Hero      `json:"hero"`
	Colors     Colors    `json:"colors"`
	Sections   []Section `json:"sections"`
	TemplateID string    `json:"templateId"`
}
