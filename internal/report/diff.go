// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"strings"

	"github.com/pdiddy/toolscout/pkg/types"
)

// diffFields renders one row of the diff table in DiffHeader order. The
// current value of a field is shown only when the diff changes it.
func (w *Writer) diffFields(d *types.Diff) []string {
	e := w.Catalog.Entry(d.Existing)
	f := make([]string, 0, len(DiffHeader))
	add := func(values ...string) { f = append(f, values...) }
	when := func(cond bool, value func() string) string {
		if !cond {
			return ""
		}
		return value()
	}

	add(e.ID, formatFloat(d.ScoreScore2))
	add(
		when(len(d.ModifyPublications) > 0 || len(d.AddPublications) > 0 || d.ModifyName != "", func() string {
			return join(e.Publications, sepOuter, stringer[types.PubIDs])
		}),
		join(d.ModifyPublications, sepOuter, stringer[types.PubIDs]),
		join(d.AddPublications, sepOuter, stringer[types.PubIDs]),
	)
	add(
		when(d.ModifyName != "", func() string { return e.Name }),
		d.ModifyName,
		join(d.PossiblyRelated, sepOuter, func(i int) string { return w.Catalog.Entry(i).Label() }),
	)
	add(
		when(d.ModifyHomepage != "", func() string { return CurrentHomepage(e, w.Cache) }),
		d.ModifyHomepage,
	)
	add(
		when(len(d.AddLinks) > 0, func() string { return join(e.Links, sepOuter, stringer[types.CatalogLink]) }),
		join(d.AddLinks, sepOuter, stringer[types.ClassifiedLink]),
		when(len(d.AddDownloads) > 0, func() string { return join(e.Downloads, sepOuter, stringer[types.CatalogDownload]) }),
		join(d.AddDownloads, sepOuter, stringer[types.ClassifiedLink]),
		when(len(d.AddDocumentation) > 0, func() string { return join(e.Documentation, sepOuter, stringer[types.CatalogLink]) }),
		join(d.AddDocumentation, sepOuter, stringer[types.ClassifiedLink]),
	)
	modifyLicense := ""
	if d.ModifyLicense != nil {
		modifyLicense = d.ModifyLicense.String()
	}
	add(
		when(d.ModifyLicense != nil, func() string { return e.License }),
		modifyLicense,
		when(len(d.AddLanguages) > 0, func() string { return strings.Join(e.Languages, sepOuter) }),
		join(d.AddLanguages, sepOuter, stringer[types.Provenance]),
	)
	add(
		when(len(d.ModifyCredits) > 0 || len(d.AddCredits) > 0, func() string {
			return join(e.Credits, sepOuter, stringer[types.Credit])
		}),
		join(d.ModifyCredits, sepOuter, stringer[types.CorrespAuthor]),
		join(d.AddCredits, sepOuter, stringer[types.CorrespAuthor]),
	)
	return f
}
