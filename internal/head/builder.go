// internal/head/builder.go
//
// The Builder collects everything that should appear inside a rendered
// page's <head> element.  It is scoped to a single request.  The site
// handler seeds it from the tenant's website-config SEO fields, then the
// chosen template decides where to emit each slice.
//
// Features
// --------
//   - SetTitle             – single <title> tag (last call wins).
//   - MetaNameContent      – <meta name=… content=…> with deduplication.
//   - OpenGraph            – <meta property="og:…" content=…>.
//   - Link, Meta           – arbitrary raw tags with deduplication.
//   - JSONLD               – raw JSON-LD wrapped in a typed <script> tag.
//   - Render helpers       – concat methods that return template.HTML.
package head

import (
	"html/template"
	"strings"
	"sync"
)

// Builder is not safe for concurrent writes from multiple goroutines,
// but typical use is one goroutine per request, so a simple mutex is
// enough.
type Builder struct {
	mu sync.Mutex

	title string

	metas  []string
	links  []string
	jsonLD []string

	// seen tracks keys for deduplication.
	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

//
// single-value helper
//

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	if b.title == "" {
		return ""
	}
	escaped := template.HTMLEscapeString(b.title)
	return template.HTML("<title>" + escaped + "</title>")
}

//
// slice helpers with deduplication
//

// Meta adds a raw, pre-formed tag.  Callers own escaping.
func (b *Builder) Meta(tag string) { b.add("meta:"+tag, &b.metas, tag) }

// Link adds a raw <link> tag.
func (b *Builder) Link(tag string) { b.add("link:"+tag, &b.links, tag) }

// MetaNameContent builds and adds <meta name=… content=…>, escaping both
// attributes.  Empty content is a no-op so callers can pass SEO fields
// through without blank-checking each one.
func (b *Builder) MetaNameContent(name, content string) {
	if content == "" {
		return
	}
	tag := `<meta name="` + template.HTMLEscapeString(name) +
		`" content="` + template.HTMLEscapeString(content) + `">`
	b.add("meta-name:"+name, &b.metas, tag)
}

// OpenGraph builds and adds <meta property="og:…" content=…>.
func (b *Builder) OpenGraph(property, content string) {
	if content == "" {
		return
	}
	tag := `<meta property="` + template.HTMLEscapeString(property) +
		`" content="` + template.HTMLEscapeString(content) + `">`
	b.add("og:"+property, &b.metas, tag)
}

// JSONLD stores a raw JSON-LD string for later wrapping.
func (b *Builder) JSONLD(js string) { b.add("jsonld:"+hash(js), &b.jsonLD, js) }

func (b *Builder) add(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// hash creates a short, stable key for JSON-LD strings.
func hash(s string) string {
	if len(s) > 32 {
		return s[:32]
	}
	return s
}

//
// rendering helpers called from templates
//

func (b *Builder) Metas() template.HTML { return concat(b.metas) }
func (b *Builder) Links() template.HTML { return concat(b.links) }

// JSON returns all JSON-LD blocks wrapped in <script> tags.
func (b *Builder) JSON() template.HTML {
	if len(b.jsonLD) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">`)
		sb.WriteString(js)
		sb.WriteString(`</script>`)
	}
	return template.HTML(sb.String())
}

// concat joins pre-escaped tags without a separator.
func concat(sl []string) template.HTML {
	return template.HTML(strings.Join(sl, ""))
}
