package scrape

import (
	"net/http"
	"strings"
)

// BlockType describes why a response carries no usable page.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockJSShell    BlockType = "js_shell"
	BlockChallenge  BlockType = "challenge"
	BlockEmpty      BlockType = "empty"
)

// DetectBlock inspects a direct HTTP response for anti-bot protection.
func DetectBlock(resp *http.Response, body []byte) BlockType {
	if resp == nil {
		return BlockNone
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
		if resp.Header.Get("cf-ray") != "" || strings.EqualFold(resp.Header.Get("server"), "cloudflare") {
			return BlockCloudflare
		}
	}

	lower := strings.ToLower(string(body))
	switch {
	case strings.Contains(lower, "checking your browser"),
		strings.Contains(lower, "cf-browser-verification"):
		return BlockCloudflare
	case strings.Contains(lower, "g-recaptcha"),
		strings.Contains(lower, "h-captcha"),
		strings.Contains(lower, "captcha-container"):
		return BlockCaptcha
	}

	if len(body) < 2000 &&
		(strings.Contains(lower, "<noscript") && strings.Contains(lower, "javascript") ||
			strings.Contains(lower, `http-equiv="refresh"`)) {
		return BlockJSShell
	}
	return BlockNone
}
