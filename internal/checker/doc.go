// Package checker holds the network-facing collaborators of the analyzer.
//
//   - HTTPChecker.FetchHeaders retrieves a site's response headers (HEAD,
//     falling back to GET) and flattens them into a lowercase map.
//   - HTTPChecker.DetectProtocol reports the negotiated HTTP version.
//   - NormalizeURL validates user input and canonicalizes it to https.
//   - Run fans a task out over many targets with a concurrency cap and a
//     global rate limit, keeping outcomes in input order.
package checker
