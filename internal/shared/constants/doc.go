// Package constants centralizes defaults shared across the CLI and server:
// file permissions, outbound fetch settings and history page sizes.
package constants
