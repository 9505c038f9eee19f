package checker

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/http2"

	sharedErrors "github.com/khanhnv2901/hdrscan/internal/shared/errors"
)

// ProtocolInfo describes the HTTP version a site negotiated. It is
// informational and never affects scores.
type ProtocolInfo struct {
	Protocol        string `json:"protocol"`
	Details         string `json:"details,omitempty"`
	ALPN            string `json:"alpn,omitempty"`
	HTTP3Advertised bool   `json:"http3Advertised"`
}

// DetectProtocol issues a HEAD request over a transport that negotiates
// HTTP/2 through ALPN and reports the protocol used. An Alt-Svc header
// offering h3 is reported as an HTTP/3 hint.
func (h *HTTPChecker) DetectProtocol(ctx context.Context, target string) (ProtocolInfo, error) {
	client := h.Client
	if client == nil {
		client = h.http2Client()
	}

	resp, err := h.do(ctx, client, http.MethodHead, target)
	if err != nil {
		return ProtocolInfo{}, fmt.Errorf("%w: protocol detection: %v", sharedErrors.ErrFetchFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return describeProtocol(resp), nil
}

func (h *HTTPChecker) http2Client() *http.Client {
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
	}
	// ConfigureTransport only fails when the transport was already set up.
	_ = http2.ConfigureTransport(transport)

	base := h.client()
	return &http.Client{
		Timeout:       base.Timeout,
		Transport:     transport,
		CheckRedirect: base.CheckRedirect,
	}
}

func describeProtocol(resp *http.Response) ProtocolInfo {
	info := ProtocolInfo{Protocol: protocolLabel(resp.ProtoMajor, resp.ProtoMinor)}
	if resp.TLS != nil {
		info.ALPN = resp.TLS.NegotiatedProtocol
	}

	altSvc := resp.Header.Get("Alt-Svc")
	if advertisesHTTP3(altSvc) {
		info.HTTP3Advertised = true
		info.Details = "Server advertises HTTP/3 via Alt-Svc: " + altSvc
	}

	switch {
	case info.Details != "":
	case resp.ProtoMajor >= 2:
		info.Details = "Multiplexed connections and header compression are available."
	default:
		info.Details = "Consider enabling HTTP/2 for multiplexing and header compression."
	}
	return info
}

func protocolLabel(major, minor int) string {
	if major >= 2 {
		return fmt.Sprintf("HTTP/%d", major)
	}
	return fmt.Sprintf("HTTP/%d.%d", major, minor)
}

func advertisesHTTP3(altSvc string) bool {
	for _, entry := range strings.Split(altSvc, ",") {
		proto, _, _ := strings.Cut(strings.TrimSpace(entry), "=")
		if proto == "h3" || strings.HasPrefix(proto, "h3-") {
			return true
		}
	}
	return false
}
