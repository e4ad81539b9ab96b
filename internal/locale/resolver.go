package locale

import "strings"

const (
	// French is the storefront's default locale.
	Default = "fr"
	English = "en"
)

var supported = map[string]bool{
	Default: true,
	English: true,
}

// Path prefixes that never carry a locale segment.
var exemptPrefixes = []string{
	"/api",
	"/assets",
	"/health",
	"/metrics",
	"/webhooks",
	"/.well-known",
	"/favicon.ico",
	"/admin",
}

// Resolution describes how an incoming page path maps onto the locale scheme.
type Resolution struct {
	// Locale is the locale the request should be served under.
	Locale string
	// RedirectTo is non-empty when the client must be redirected to the
	// canonical path.
	RedirectTo string
}

// IsSupported reports whether the code names a storefront locale.
func IsSupported(code string) bool {
	return supported[code]
}

// Resolve maps a request path to its locale. Paths without a locale prefix
// redirect to the default locale; admin and system paths stay locale-free,
// so a locale-prefixed admin path redirects to the bare one.
func Resolve(path string) Resolution {
	if path == "" || path == "/" {
		return Resolution{Locale: Default, RedirectTo: "/" + Default + "/"}
	}

	for _, prefix := range exemptPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return Resolution{Locale: Default}
		}
	}

	segment, rest := splitFirstSegment(path)
	if supported[segment] {
		// Locale-prefixed admin paths canonicalize to the bare admin path.
		if rest == "/admin" || strings.HasPrefix(rest, "/admin/") {
			return Resolution{Locale: segment, RedirectTo: rest}
		}
		return Resolution{Locale: segment}
	}

	return Resolution{Locale: Default, RedirectTo: "/" + Default + path}
}

// PathFor prefixes a storefront path with the given locale.
func PathFor(locale, path string) string {
	if !supported[locale] {
		locale = Default
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "/" + locale + path
}

func splitFirstSegment(path string) (string, string) {
	trimmed := strings.TrimPrefix(path, "/")
	idx := strings.Index(trimmed, "/")
	if idx < 0 {
		return trimmed, "/"
	}
	return trimmed[:idx], trimmed[idx:]
}
