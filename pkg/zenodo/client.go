package zenodo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/catalog/pkg/archive"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"oras.land/oras-go/v2/registry/remote/retry"
)

const (
	// DefaultURL of the Zenodo service
	DefaultURL = "https://zenodo.org"

	defaultPageSize = 100
	maxPages        = 100
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// type safeguard
var _ archive.Service = &Client{}

// Client for the Zenodo REST API
type Client struct {
	baseURL  string
	http     *http.Client
	fs       afero.Fs
	pageSize int
	logger   *zap.Logger
}

// New Zenodo client. By default, requests are retried on transient failures.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultURL,
		http:     &http.Client{Transport: retry.NewTransport(nil)},
		fs:       afero.NewOsFs(),
		pageSize: defaultPageSize,
		logger:   zap.NewNop(),
	}
	for _, apply := range opts {
		apply(c)
	}
	return c
}

type searchResult struct {
	Hits struct {
		Hits  []Record `json:"hits"`
		Total int      `json:"total"`
	} `json:"hits"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// Records of all versions of a concept, most recent version first
func (c *Client) Records(ctx context.Context, concept string) ([]Record, error) {
	recid, err := ParseConceptID(concept)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("q", fmt.Sprintf("conceptrecid:%q", recid))
	q.Set("all_versions", "true")
	q.Set("sort", "-version")
	q.Set("size", strconv.Itoa(c.pageSize))
	next := c.baseURL + "/api/records?" + q.Encode()

	var records []Record
	for page := 0; next != "" && page < maxPages; page++ {
		var res searchResult
		if err := c.getJSON(ctx, next, &res); err != nil {
			return nil, err
		}
		records = append(records, res.Hits.Hits...)
		if len(res.Hits.Hits) == 0 {
			break
		}
		next = res.Links.Next
	}
	c.logger.Debug("searched records", zap.String("concept", recid), zap.Int("records", len(records)))
	return records, nil
}

// Versions of a concept, most recent first. Records without version are skipped.
func (c *Client) Versions(ctx context.Context, concept string) ([]string, error) {
	records, err := c.Records(ctx, concept)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(records))
	versions := make([]string, 0, len(records))
	for _, rec := range records {
		tag := rec.VersionTag()
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		versions = append(versions, tag)
	}
	return versions, nil
}

// Record of a concept for some version
func (c *Client) Record(ctx context.Context, concept, version string) (Record, error) {
	records, err := c.Records(ctx, concept)
	if err != nil {
		return Record{}, err
	}
	for _, rec := range records {
		if rec.VersionTag() == version {
			return rec, nil
		}
	}
	return Record{}, ErrVersionNotFound.Detail("%s of %s", version, concept)
}

func (c *Client) getJSON(ctx context.Context, target string, into interface{}) error {
	body, err := c.get(ctx, target)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()
	if err := json.NewDecoder(body).Decode(into); err != nil {
		return ErrAPI.Detail("decoding response from %s", target).Wrap(err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, ErrAPI.Detail("GET %s: %s", target, resp.Status)
	}
	return resp.Body, nil
}
