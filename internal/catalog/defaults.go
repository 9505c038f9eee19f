package catalog

const mdnHeaders = "https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/"

var defaultSecurityRules = []Rule{
	{
		Name:           "Content-Security-Policy",
		Key:            "content-security-policy",
		Importance:     ImportanceCritical,
		Description:    "Content Security Policy helps prevent Cross-Site Scripting (XSS) and data injection attacks by controlling which resources can be loaded by the browser.",
		Recommendation: "Implement a strict Content Security Policy to restrict which resources can be loaded: default-src 'self'; script-src 'self' https://trusted-cdn.com",
		Link:           "https://developer.mozilla.org/en-US/docs/Web/HTTP/CSP",
	},
	{
		Name:           "X-XSS-Protection",
		Key:            "x-xss-protection",
		Importance:     ImportanceImportant,
		Description:    "X-XSS-Protection enables the browser's built-in XSS filtering capabilities to prevent some types of cross-site scripting attacks.",
		Recommendation: "Set X-XSS-Protection to 1; mode=block to enable the browser's XSS filter",
		Link:           mdnHeaders + "X-XSS-Protection",
	},
	{
		Name:           "X-Frame-Options",
		Key:            "x-frame-options",
		Importance:     ImportanceImportant,
		Description:    "X-Frame-Options prevents your site from being embedded in iframes on other domains, protecting against clickjacking attacks.",
		Recommendation: "Set X-Frame-Options to DENY or SAMEORIGIN to prevent your site from being framed",
		Link:           mdnHeaders + "X-Frame-Options",
	},
	{
		Name:           "X-Content-Type-Options",
		Key:            "x-content-type-options",
		Importance:     ImportanceImportant,
		Description:    "X-Content-Type-Options prevents MIME type sniffing which can lead to security vulnerabilities.",
		Recommendation: "Set X-Content-Type-Options to nosniff to prevent MIME type sniffing",
		Link:           mdnHeaders + "X-Content-Type-Options",
	},
	{
		Name:           "Strict-Transport-Security",
		Key:            "strict-transport-security",
		Importance:     ImportanceCritical,
		Description:    "HTTP Strict Transport Security (HSTS) forces browsers to use HTTPS on your site, preventing man-in-the-middle attacks and cookie hijacking.",
		Recommendation: "Set Strict-Transport-Security to max-age=31536000; includeSubDomains; preload to enforce HTTPS for your domain and subdomains",
		Link:           mdnHeaders + "Strict-Transport-Security",
	},
	{
		Name:           "Referrer-Policy",
		Key:            "referrer-policy",
		Importance:     ImportanceRecommended,
		Description:    "Referrer-Policy controls how much referrer information is included with requests.",
		Recommendation: "Set Referrer-Policy to no-referrer-when-downgrade or stricter to control information leakage",
		Link:           mdnHeaders + "Referrer-Policy",
	},
	{
		Name:           "Permissions-Policy",
		Key:            "permissions-policy",
		Importance:     ImportanceRecommended,
		Description:    "Permissions-Policy (formerly Feature-Policy) provides a mechanism to allow or deny the use of browser features in a document.",
		Recommendation: "Implement Permissions-Policy to restrict access to powerful features",
		Link:           mdnHeaders + "Feature-Policy",
	},
	{
		Name:           "Cross-Origin-Embedder-Policy",
		Key:            "cross-origin-embedder-policy",
		Importance:     ImportanceOptional,
		Description:    "Cross-Origin-Embedder-Policy prevents a document from loading any cross-origin resources that don't explicitly grant the document permission.",
		Recommendation: "Consider setting Cross-Origin-Embedder-Policy to require-corp for sensitive applications",
		Link:           mdnHeaders + "Cross-Origin-Embedder-Policy",
	},
	{
		Name:           "Cross-Origin-Opener-Policy",
		Key:            "cross-origin-opener-policy",
		Importance:     ImportanceOptional,
		Description:    "Cross-Origin-Opener-Policy allows you to ensure a top-level document does not share a browsing context group with cross-origin documents.",
		Recommendation: "Consider setting Cross-Origin-Opener-Policy to same-origin to isolate your browsing context",
		Link:           mdnHeaders + "Cross-Origin-Opener-Policy",
	},
	{
		Name:           "Cross-Origin-Resource-Policy",
		Key:            "cross-origin-resource-policy",
		Importance:     ImportanceOptional,
		Description:    "Cross-Origin-Resource-Policy prevents other domains from reading resources.",
		Recommendation: "Consider setting Cross-Origin-Resource-Policy to same-origin or same-site",
		Link:           mdnHeaders + "Cross-Origin-Resource-Policy",
	},
}

var defaultPerformanceRules = []Rule{
	{
		Name:           "Cache-Control",
		Key:            "cache-control",
		Importance:     ImportanceCritical,
		Description:    "Cache-Control defines how, and for how long, a browser or other cache can store a response.",
		Recommendation: "Implement appropriate Cache-Control directives for your assets, such as 'max-age=31536000' for static assets",
		Link:           mdnHeaders + "Cache-Control",
	},
	{
		Name:           "ETag",
		Key:            "etag",
		Importance:     ImportanceImportant,
		Description:    "ETag provides a mechanism for validating cached resources, enabling conditional requests to save bandwidth.",
		Recommendation: "Enable ETags to allow efficient validation of cached resources",
		Link:           mdnHeaders + "ETag",
	},
	{
		Name:           "Vary",
		Key:            "vary",
		Importance:     ImportanceImportant,
		Description:    "Vary informs caches how to key their cache entries, allowing different cached responses based on client capabilities.",
		Recommendation: "Use the Vary header with 'Accept-Encoding' to properly handle compressed content, and consider other values based on your content negotiation",
		Link:           mdnHeaders + "Vary",
	},
	{
		Name:           "Content-Encoding",
		Key:            "content-encoding",
		Importance:     ImportanceRecommended,
		Description:    "Content-Encoding indicates compression methods applied to the response, reducing payload size.",
		Recommendation: "Enable compression (gzip or brotli) for text-based resources to reduce transfer size",
		Link:           mdnHeaders + "Content-Encoding",
	},
	{
		Name:           "Transfer-Encoding",
		Key:            "transfer-encoding",
		Importance:     ImportanceOptional,
		Description:    "Transfer-Encoding specifies transformations applied to the message body during transfer.",
		Recommendation: "Consider using 'chunked' Transfer-Encoding for larger dynamic responses",
		Link:           mdnHeaders + "Transfer-Encoding",
	},
}

var defaultMaintainabilityRules = []Rule{
	{
		Name:           "Content-Type",
		Key:            "content-type",
		Importance:     ImportanceCritical,
		Description:    "Content-Type specifies the media type of the resource, ensuring proper handling by clients.",
		Recommendation: "Always set an appropriate Content-Type with charset for text-based resources",
		Link:           mdnHeaders + "Content-Type",
	},
	{
		Name:           "Accept-Ranges",
		Key:            "accept-ranges",
		Importance:     ImportanceRecommended,
		Description:    "Accept-Ranges indicates server support for range requests, enabling partial content retrieval.",
		Recommendation: "Enable Accept-Ranges for large resources that might benefit from partial retrieval",
		Link:           mdnHeaders + "Accept-Ranges",
	},
	{
		Name:           "Server-Timing",
		Key:            "server-timing",
		Importance:     ImportanceOptional,
		Description:    "Server-Timing communicates timing information for request processing, aiding performance debugging.",
		Recommendation: "Consider implementing Server-Timing to expose server processing metrics for debugging",
		Link:           mdnHeaders + "Server-Timing",
	},
}

var defaultCloudflareRules = []Rule{
	{
		Name:           "CF-Cache-Status",
		Key:            "cf-cache-status",
		Importance:     ImportanceOptional,
		Description:    "Indicates whether an asset was served from Cloudflare cache and its cache status.",
		Recommendation: "This header shows how Cloudflare's cache is handling your content. Values like HIT, MISS, DYNAMIC indicate different caching behaviors.",
		Link:           "https://developers.cloudflare.com/cache/concepts/cache-responses/",
	},
	{
		Name:           "CF-Ray",
		Key:            "cf-ray",
		Importance:     ImportanceOptional,
		Description:    "A unique identifier for the request through Cloudflare, useful for troubleshooting.",
		Recommendation: "The presence of this header confirms your site is using Cloudflare. Keep this ID when reporting issues to Cloudflare support.",
		Link:           "https://developers.cloudflare.com/fundamentals/get-started/reference/cloudflare-ray-id/",
	},
	{
		Name:           "cf-edge-cache",
		Key:            "cf-edge-cache",
		Importance:     ImportanceOptional,
		Description:    "Indicates whether your content was delivered through a Cloudflare edge server.",
		Recommendation: "This header appears when your content is served through Cloudflare Edge Cache.",
		Link:           "https://developers.cloudflare.com/cache/concepts/cache-responses/",
	},
	{
		Name:           "cf-apo-via",
		Key:            "cf-apo-via",
		Importance:     ImportanceOptional,
		Description:    "Indicates that the response was served by Cloudflare Automatic Platform Optimization.",
		Recommendation: "This header appears when using Cloudflare's APO service for faster page loads.",
		Link:           "https://developers.cloudflare.com/automatic-platform-optimization/",
	},
	{
		Name:           "CF-Worker",
		Key:            "cf-worker",
		Importance:     ImportanceOptional,
		Description:    "Indicates that the request was processed by a Cloudflare Worker script.",
		Recommendation: "This header shows when your site is using Cloudflare Workers to modify responses.",
		Link:           "https://developers.cloudflare.com/workers/",
	},
	{
		Name:           "Server",
		Key:            "server",
		Importance:     ImportanceOptional,
		Description:    "The Server header might indicate Cloudflare is serving your content.",
		Recommendation: "If this header contains 'cloudflare', it confirms you're using their services.",
		Link:           "https://developers.cloudflare.com/",
	},
}

var defaultCatalog = MustNew(DefaultTables())

// DefaultTables returns fresh copies of the built-in rule tables.
func DefaultTables() map[Category][]Rule {
	return map[Category][]Rule{
		CategorySecurity:        append([]Rule(nil), defaultSecurityRules...),
		CategoryPerformance:     append([]Rule(nil), defaultPerformanceRules...),
		CategoryMaintainability: append([]Rule(nil), defaultMaintainabilityRules...),
		CategoryCloudflare:      append([]Rule(nil), defaultCloudflareRules...),
	}
}

// Default returns the built-in catalog. It is safe to share across goroutines.
func Default() Catalog {
	return defaultCatalog
}
