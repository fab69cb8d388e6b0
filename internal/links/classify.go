// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package links sorts a suggestion's raw candidate links into link,
// download and documentation buckets, drops the ones the fetch cache
// reports broken, and picks one homepage per suggestion.
package links

import (
	"regexp"
	"strings"

	"github.com/pdiddy/toolscout/internal/textnorm"
	"github.com/pdiddy/toolscout/pkg/types"
)

type rule struct {
	pattern *regexp.Regexp
	kind    types.LinkKind
	typ     string
}

// Rules are tried in order against the trimmed URL ("host/path"); the first
// match decides. Anything unmatched is an Other link.
var rules = []rule{
	{regexp.MustCompile(`(?i)^(hub\.docker\.com|quay\.io|biocontainers\.pro|singularity-hub\.org|cloud\.sylabs\.io)(/|$)`), types.KindDownload, types.DownloadContainer},
	{regexp.MustCompile(`(?i)\.(sif|simg)([?#].*)?$|/dockerfile$`), types.KindDownload, types.DownloadContainer},
	{regexp.MustCompile(`(?i)\.(zip|tar|gz|tgz|bz2|xz|7z|rar)([?#].*)?$`), types.KindDownload, types.DownloadSourcePackage},
	{regexp.MustCompile(`(?i)\.(exe|dmg|msi|deb|rpm|apk|jar|war|iso|pkg)([?#].*)?$`), types.KindDownload, types.DownloadBinaries},
	{regexp.MustCompile(`(?i)\.(whl|egg)([?#].*)?$`), types.KindDownload, types.DownloadPackage},

	{regexp.MustCompile(`(?i)^(github\.com|gitlab\.com|bitbucket\.org)/[^/]+/[^/]+/(-/)?issues(/|$)`), types.KindLink, types.LinkIssueTracker},
	{regexp.MustCompile(`(?i)^(github\.com|gitlab\.com|bitbucket\.org)/[^/]+/[^/]+/(-/)?wikis?(/|$)`), types.KindDocumentation, types.DocGeneral},
	{regexp.MustCompile(`(?i)^(github\.com|gitlab\.com|bitbucket\.org|sourceforge\.net/projects|code\.google\.com/p|git\.[^/]+|[^/]*gitlab[^/]*)/`), types.KindLink, types.LinkRepository},

	{regexp.MustCompile(`(?i)^(groups\.google\.com|lists\.[^/]+)(/|$)|/(mailman|listinfo|mailing-?lists?)(/|$)`), types.KindLink, types.LinkMailingList},
	{regexp.MustCompile(`(?i)^(pypi\.org/project|anaconda\.org|bioconda\.github\.io|cran\.r-project\.org/(web/)?packages?|(www\.)?bioconductor\.org/packages|npmjs\.com/package|metacpan\.org|toolshed\.g2\.bx\.psu\.edu|bio\.tools)(/|$)`), types.KindLink, types.LinkRegistry},
	{regexp.MustCompile(`(?i)^(biostars\.org|support\.bioconductor\.org)(/|$)|/(helpdesk|support|contact)(/|$|[.?#])`), types.KindLink, types.LinkHelpdesk},

	{regexp.MustCompile(`(?i)/(faqs?)(/|$|[.?#_-])`), types.KindDocumentation, types.DocFAQ},
	{regexp.MustCompile(`(?i)/(quick-?start|getting-?started)(/|$|[.?#_-])`), types.KindDocumentation, types.DocQuickStart},
	{regexp.MustCompile(`(?i)/(install|installation|setup)(/|$|[.?#_-])`), types.KindDocumentation, types.DocInstallation},
	{regexp.MustCompile(`(?i)/(tutorials?|training|vignettes?|workshops?|courses?)(/|$|[.?#_-])`), types.KindDocumentation, types.DocTraining},
	{regexp.MustCompile(`(?i)/(api|apidocs|reference|swagger)(/|$|[.?#_-])`), types.KindDocumentation, types.DocAPI},
	{regexp.MustCompile(`(?i)/(manual|user-?guide|guide|usage|handbook)(/|$|[.?#_-])|\.pdf([?#].*)?$`), types.KindDocumentation, types.DocUserManual},
	{regexp.MustCompile(`(?i)^[^/]*\.readthedocs\.(io|org)(/|$)|/(docs?|documentation|wiki|help|readme)(/|$|[.?#_-])`), types.KindDocumentation, types.DocGeneral},
}

// Classify returns the bucket and type of one raw link. The URL gets a
// scheme prepended when it has none.
func Classify(raw string) types.ClassifiedLink {
	l := types.ClassifiedLink{
		URL:     textnorm.PrependHTTP(raw),
		Trimmed: textnorm.TrimURL(raw),
		Kind:    types.KindLink,
		Type:    types.LinkOther,
	}
	for _, r := range rules {
		if r.pattern.MatchString(l.Trimmed) {
			l.Kind, l.Type = r.kind, r.typ
			break
		}
	}
	return l
}

// Bucket classifies raw links in order and splits them by kind. Blank links
// are skipped.
func Bucket(raw []string) (links, downloads, docs []types.ClassifiedLink) {
	for _, u := range raw {
		if strings.TrimSpace(u) == "" {
			continue
		}
		l := Classify(u)
		switch l.Kind {
		case types.KindDownload:
			downloads = append(downloads, l)
		case types.KindDocumentation:
			docs = append(docs, l)
		default:
			links = append(links, l)
		}
	}
	return links, downloads, docs
}

// appendUnique appends links whose trimmed URL and type are not yet present.
func appendUnique(dst []types.ClassifiedLink, src ...types.ClassifiedLink) []types.ClassifiedLink {
	for _, l := range src {
		found := false
		for _, d := range dst {
			if d.Trimmed == l.Trimmed && d.Type == l.Type {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, l)
		}
	}
	return dst
}
