// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textnorm

import (
	"regexp"
	"strings"
)

var (
	schemeStart = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	urlOrFTP    = regexp.MustCompile(`(?i)^(https?|ftp)://[^\s/$.?#][^\s]+$`)
	downloadExt = regexp.MustCompile(`(?i)\.(zip|tar|gz|tgz|bz2|xz|7z|rar|jar|war|exe|dmg|msi|deb|rpm|whl|egg|iso|apk|pkg)([?#].*)?$`)
)

// HasScheme reports whether u starts with a URL scheme.
func HasScheme(u string) bool {
	return schemeStart.MatchString(u)
}

// PrependHTTP adds "http://" to a trimmed link without a scheme.
func PrependHTTP(u string) string {
	u = strings.TrimSpace(u)
	if u == "" || HasScheme(u) {
		return u
	}
	return "http://" + u
}

// TrimURL reduces a link to a comparable form: scheme, "www." and trailing
// slashes removed, host lowercased. "https://www.Tool.io/Docs/" becomes
// "tool.io/Docs".
func TrimURL(u string) string {
	u = strings.TrimSpace(u)
	u = schemeStart.ReplaceAllString(u, "")
	host, path := u, ""
	if i := strings.IndexAny(u, "/?#"); i >= 0 {
		host, path = u[:i], u[i:]
	}
	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")
	return strings.TrimRight(host+path, "/")
}

// ValidURL reports whether u has the minimal shape of an HTTP(S) or FTP URL.
func ValidURL(u string) bool {
	return urlOrFTP.MatchString(u)
}

// IsDownload reports whether u ends in a file extension of an archive,
// installer or package.
func IsDownload(u string) bool {
	return downloadExt.MatchString(u)
}

// RemoveLowestSubdomain strips the first host label of a trimmed URL when
// the host has at least three labels: "sub.tool.io/x" becomes "tool.io/x".
func RemoveLowestSubdomain(trimmed string) string {
	slash := strings.IndexByte(trimmed, '/')
	firstDot := strings.IndexByte(trimmed, '.')
	if firstDot < 0 {
		return trimmed
	}
	secondDot := strings.IndexByte(trimmed[firstDot+1:], '.')
	if secondDot < 0 {
		return trimmed
	}
	secondDot += firstDot + 1
	if slash < 0 || secondDot < slash {
		return trimmed[firstDot+1:]
	}
	return trimmed
}
