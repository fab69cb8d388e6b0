// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"strings"

	"github.com/pdiddy/toolscout/pkg/types"
)

// MatchLabels renders the matches of one kind of sg for display:
//
//	publication and name:            id
//	name, some publication different: id (unmatched ; ...)
//	some publication, name different: id (name) (unmatched ; ...)
//	name, publication different:     id (unmatched ; ...)
//
// It returns nil when sg is nil.
func (c *Catalog) MatchLabels(sg *types.Suggestion, kind types.MatchKind) []string {
	if sg == nil {
		return nil
	}
	out := []string{}
	for _, m := range sg.MatchesOf(kind) {
		e := c.Entry(m.Entry)
		label := e.ID
		if kind == types.MatchSomePublicationNameDifferent {
			label = e.Label()
		}
		if kind != types.MatchPublicationAndName && len(m.Unmatched) > 0 {
			label += " (" + joinIDs(m.Unmatched) + ")"
		}
		out = append(out, label)
	}
	return out
}

// NameMatchLabels renders r's name matches as "id (name)".
func (c *Catalog) NameMatchLabels(r *types.Result) []string {
	return c.entryLabels(r.NameMatch)
}

// NameWordMatchLabels renders r's name-word matches as "id (name)".
func (c *Catalog) NameWordMatchLabels(r *types.Result) []string {
	return c.entryLabels(r.NameWordMatch)
}

// LinkMatchLabels renders r's link matches as "id (link ; link)".
func (c *Catalog) LinkMatchLabels(r *types.Result) []string {
	out := make([]string, 0, len(r.LinkMatch))
	for _, m := range r.LinkMatch {
		out = append(out, c.Entry(m.Entry).ID+" ("+strings.Join(m.Links, " ; ")+")")
	}
	return out
}

// IDs returns the catalog ids of the given entries.
func (c *Catalog) IDs(entries []int) []string {
	out := make([]string, 0, len(entries))
	for _, i := range entries {
		out = append(out, c.Entry(i).ID)
	}
	return out
}

func (c *Catalog) entryLabels(entries []int) []string {
	out := make([]string, 0, len(entries))
	for _, i := range entries {
		out = append(out, c.Entry(i).Label())
	}
	return out
}

func joinIDs(ids []types.PubIDs) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, " ; ")
}
