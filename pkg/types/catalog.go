// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// CatalogLink is a typed link on a catalog entry. Links and documentation
// may carry several types.
type CatalogLink struct {
	URL   string   `json:"url" yaml:"url"`
	Types []string `json:"type,omitempty" yaml:"type,omitempty"`
}

// String renders "url (Type1, Type2)".
func (l CatalogLink) String() string {
	return l.URL + " (" + strings.Join(l.Types, ", ") + ")"
}

// CatalogDownload is a typed download link on a catalog entry.
type CatalogDownload struct {
	URL  string `json:"url" yaml:"url"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// String renders "url (Type)".
func (d CatalogDownload) String() string {
	return d.URL + " (" + d.Type + ")"
}

// Credit is a person or organisation credited on a catalog entry.
type Credit struct {
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	ORCID      string `json:"orcidid,omitempty" yaml:"orcidid,omitempty"`
	Email      string `json:"email,omitempty" yaml:"email,omitempty"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
	TypeEntity string `json:"typeEntity,omitempty" yaml:"typeEntity,omitempty"`
}

// String renders the non-empty name, ORCID, e-mail and URL separated by ", ".
func (c Credit) String() string {
	parts := make([]string, 0, 4)
	for _, v := range []string{c.Name, c.ORCID, c.Email, c.URL} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// CatalogEntry is one record of the existing catalog snapshot. Entries are
// never modified after loading and are referenced by their index.
type CatalogEntry struct {
	ID          string `json:"biotoolsID" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Homepage    string `json:"homepage" yaml:"homepage"`

	// HomepageStatus is non-zero when the catalog's own link checker flagged the homepage.
	HomepageStatus int `json:"homepage_status,omitempty" yaml:"homepage_status,omitempty"`

	Links         []CatalogLink     `json:"link,omitempty" yaml:"link,omitempty"`
	Downloads     []CatalogDownload `json:"download,omitempty" yaml:"download,omitempty"`
	Documentation []CatalogLink     `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	License       string            `json:"license,omitempty" yaml:"license,omitempty"`
	Languages     []string          `json:"language,omitempty" yaml:"language,omitempty"`
	Credits       []Credit          `json:"credit,omitempty" yaml:"credit,omitempty"`
	Publications  []PubIDs          `json:"publication,omitempty" yaml:"publication,omitempty"`
}

// AllLinks returns homepage, link, download and documentation URLs in that order.
func (e *CatalogEntry) AllLinks() []string {
	links := []string{e.Homepage}
	for _, l := range e.Links {
		links = append(links, l.URL)
	}
	for _, d := range e.Downloads {
		links = append(links, d.URL)
	}
	for _, d := range e.Documentation {
		links = append(links, d.URL)
	}
	return links
}

// Label renders "id (name)" as used in match columns.
func (e *CatalogEntry) Label() string {
	return e.ID + " (" + e.Name + ")"
}
