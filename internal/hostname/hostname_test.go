package hostname

import "testing"

const root = "inmosite.com"

func TestStrip(t *testing.T) {
	cases := []struct{ in, want string }{
		{"inmosite.com", "inmosite.com"},
		{"Inmosite.COM:443", "inmosite.com"},
		{"acme.localhost:3000", "acme.localhost"},
		{"[::1]:8080", "[::1]"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Strip(c.in); got != c.want {
			t.Errorf("Strip(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		host    string
		class   Class
		sub     string
	}{
		{"inmosite.com", ClassRoot, ""},
		{"www.inmosite.com", ClassRoot, ""},
		{"localhost", ClassRoot, ""},
		{"", ClassRoot, ""},

		{"myapp---feature-x.vercel.app", ClassPreview, "myapp"},
		{"a---b---c.vercel.app", ClassPreview, "a"},

		{"acme.localhost", ClassLocal, "acme"},

		{"acme.inmosite.com", ClassTenant, "acme"},
		{"a.b.inmosite.com", ClassTenant, "a.b"},

		{"example.org", ClassCustom, ""},
		// Suffix match must respect the label boundary.
		{"evilinmosite.com", ClassCustom, ""},
		{"vercel.app", ClassCustom, ""},
	}
	for _, c := range cases {
		got := Classify(c.host, root, "vercel.app")
		if got.Class != c.class || got.Subdomain != c.sub {
			t.Errorf("Classify(%q) = {%v %q}, want {%v %q}",
				c.host, got.Class, got.Subdomain, c.class, c.sub)
		}
		if got.Hostname != c.host {
			t.Errorf("Classify(%q) Hostname = %q", c.host, got.Hostname)
		}
	}
}

func TestClassifyEmptyPreviewSuffix(t *testing.T) {
	// With no preview suffix configured, a trailing-dot host must not
	// slip into the preview class; nothing under the root classifies
	// differently either.
	cases := []struct {
		host  string
		class Class
	}{
		{"acme.inmosite.com.", ClassCustom},
		{"inmosite.com.", ClassCustom},
		{"acme.inmosite.com", ClassTenant},
		{"myapp---x.vercel.app", ClassCustom},
	}
	for _, c := range cases {
		if got := Classify(c.host, root, ""); got.Class != c.class {
			t.Errorf("Classify(%q, suffix=\"\") = %v, want %v", c.host, got.Class, c.class)
		}
	}
}

func TestClassifyAfterStrip(t *testing.T) {
	got := Classify(Strip("Acme.Inmosite.com:443"), root, "vercel.app")
	if got.Class != ClassTenant || got.Subdomain != "acme" {
		t.Fatalf("got {%v %q}", got.Class, got.Subdomain)
	}
}
