package export

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// Sanitize strips scripts, handlers and unsafe URLs from resume markup while
// keeping the structure and class names the stylesheet relies on.
func Sanitize(raw string) string {
	return strings.TrimSpace(markupSanitizer().Sanitize(raw))
}

func markupSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowElements("header", "section", "article", "span", "div")
		policy.AllowAttrs("class").Globally()
		policy.AllowAttrs("data-section", "data-theme").Globally()
		policy.AllowAttrs("target").OnElements("a")
		policy.RequireNoFollowOnLinks(false)
		policy.AllowURLSchemes("http", "https", "mailto", "tel")
		markupPolicy = policy
	})
	return markupPolicy
}
