package head

import (
	"strings"
	"testing"
)

func TestBuilder_TitleEscapesAndLastWins(t *testing.T) {
	b := New()
	b.SetTitle("first")
	b.SetTitle(`Acme <Realty>`)

	got := string(b.Title())
	if got != "<title>Acme &lt;Realty&gt;</title>" {
		t.Fatalf("title = %q", got)
	}
}

func TestBuilder_MetaNameContentDedupes(t *testing.T) {
	b := New()
	b.MetaNameContent("description", "Homes in Madrid")
	b.MetaNameContent("description", "ignored duplicate")
	b.MetaNameContent("keywords", "") // empty content is a no-op

	got := string(b.Metas())
	if strings.Count(got, `name="description"`) != 1 {
		t.Fatalf("metas = %q", got)
	}
	if strings.Contains(got, "keywords") {
		t.Fatalf("empty content emitted: %q", got)
	}
}

func TestBuilder_OpenGraphEscapes(t *testing.T) {
	b := New()
	b.OpenGraph("og:image", `https://cdn.example.com/a.png?x="1"`)

	got := string(b.Metas())
	if !strings.Contains(got, `property="og:image"`) || strings.Contains(got, `x="1"`) {
		t.Fatalf("og tag = %q", got)
	}
}

func TestBuilder_JSONLDWrapped(t *testing.T) {
	b := New()
	b.JSONLD(`{"@type":"RealEstateAgent"}`)

	got := string(b.JSON())
	want := `<script type="application/ld+json">{"@type":"RealEstateAgent"}</script>`
	if got != want {
		t.Fatalf("json-ld = %q", got)
	}
}
