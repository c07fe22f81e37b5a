package zenodo

import (
	"regexp"
	"strings"

	"github.com/oneconcern/catalog/pkg/errors"
)

var (
	conceptRex   = regexp.MustCompile(`(?:^|zenodo\.)(?P<recid>[0-9]+)$`)
	githubTagRex = regexp.MustCompile(`github\.com/[^/]+/[^/]+/tree/(?P<tag>[^/]+)/?$`)

	// ErrInvalidConcept indicates a concept identifier which is neither a Zenodo DOI nor a record id
	ErrInvalidConcept = errors.New("invalid zenodo concept identifier")

	// ErrVersionNotFound indicates that no record of a concept carries the requested version
	ErrVersionNotFound = errors.New("no record found for version")

	// ErrChecksum indicates a downloaded file which does not match its checksum
	ErrChecksum = errors.New("checksum mismatch")

	// ErrAPI indicates an unexpected response from the Zenodo API
	ErrAPI = errors.New("zenodo API error")
)

// Record is one version of a deposit
type Record struct {
	ID          int64    `json:"id"`
	ConceptID   string   `json:"conceptrecid"`
	DOI         string   `json:"doi"`
	Metadata    Metadata `json:"metadata"`
	Files       []File   `json:"files"`
	contentBase string
}

// Metadata of a record
type Metadata struct {
	Title              string              `json:"title"`
	Version            string              `json:"version"`
	PublicationDate    string              `json:"publication_date"`
	RelatedIdentifiers []RelatedIdentifier `json:"related_identifiers"`
}

// RelatedIdentifier links a record to other resources, e.g. the GitHub release it was created from
type RelatedIdentifier struct {
	Identifier string `json:"identifier"`
	Relation   string `json:"relation"`
	Scheme     string `json:"scheme"`
}

// File attached to a record
type File struct {
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
	Links    struct {
		Self string `json:"self"`
	} `json:"links"`
}

// VersionTag yields the release tag the record was created from, or the declared version
func (r Record) VersionTag() string {
	for _, rel := range r.Metadata.RelatedIdentifiers {
		if rel.Relation != "isSupplementTo" {
			continue
		}
		if m := githubTagRex.FindStringSubmatch(rel.Identifier); m != nil {
			return m[1]
		}
	}
	return strings.TrimSpace(r.Metadata.Version)
}

// ParseConceptID extracts the concept record id from a concept DOI (e.g. 10.5281/zenodo.3260727),
// a DOI URL or a bare record id
func ParseConceptID(concept string) (string, error) {
	m := conceptRex.FindStringSubmatch(strings.TrimSpace(concept))
	if m == nil {
		return "", ErrInvalidConcept.Detail("%q", concept)
	}
	return m[1], nil
}
