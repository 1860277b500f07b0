// Package res loads résumé documents, template files and stylesheets from
// local paths, http(s) URLs and data URLs.
package res

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/gompdf/cvpager/internal/cv"
)

// ErrNotFound is returned when a resource exists in no location tried.
var ErrNotFound = errors.New("res: resource not found")

// maxRemoteSize caps remote downloads.
const maxRemoteSize = 8 << 20

// Format is the encoding of a loaded resource.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatTOML
	FormatCSS
	FormatHTML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	case FormatCSS:
		return "css"
	case FormatHTML:
		return "html"
	}
	return "unknown"
}

// Resource is a loaded resource.
type Resource struct {
	URL      string
	Format   Format
	Data     []byte
	MimeType string
}

// Reader returns a reader over the resource data.
func (r *Resource) Reader() *bytes.Reader {
	return bytes.NewReader(r.Data)
}

// String returns the resource data as a string.
func (r *Resource) String() string {
	return string(r.Data)
}

// Loader loads and caches resources. Relative references resolve against
// BaseURL, which may be a directory, a file path or an http(s) URL.
type Loader struct {
	BaseURL string

	mu    sync.RWMutex
	cache map[string]*Resource

	searchPaths []string
	client      *http.Client
}

// NewLoader creates a loader resolving against baseURL.
func NewLoader(baseURL string) *Loader {
	return &Loader{
		BaseURL: baseURL,
		cache:   make(map[string]*Resource),
		client:  http.DefaultClient,
	}
}

// AddSearchPath adds a directory tried for local resources missing at their
// resolved path.
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// SetHTTPClient replaces the client used for remote resources.
func (l *Loader) SetHTTPClient(c *http.Client) {
	l.client = c
}

// Load loads ref, serving repeated references from the cache.
func (l *Loader) Load(ctx context.Context, ref string) (*Resource, error) {
	l.mu.RLock()
	r, ok := l.cache[ref]
	l.mu.RUnlock()
	if ok {
		return r, nil
	}

	var err error
	if strings.HasPrefix(ref, "data:") {
		r, err = parseDataURL(ref)
	} else {
		var resolved string
		resolved, err = l.resolve(ref)
		if err == nil {
			if isRemote(resolved) {
				r, err = l.loadRemote(ctx, resolved)
			} else {
				r, err = l.loadLocal(resolved)
			}
		}
	}
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[ref] = r
	l.mu.Unlock()
	return r, nil
}

// LoadDocument loads and decodes a résumé document. JSON and TOML are
// accepted; the format follows the media type or extension, and JSON is
// assumed when neither tells.
func (l *Loader) LoadDocument(ctx context.Context, ref string) (cv.Document, error) {
	r, err := l.Load(ctx, ref)
	if err != nil {
		return cv.Document{}, err
	}
	return DecodeDocument(r)
}

// DecodeDocument decodes r into a document.
func DecodeDocument(r *Resource) (cv.Document, error) {
	var doc cv.Document
	switch r.Format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r.Reader()).Decode(&doc); err != nil {
			return cv.Document{}, fmt.Errorf("res: decoding %s: %w", r.URL, err)
		}
	case FormatJSON, FormatUnknown:
		if err := json.Unmarshal(r.Data, &doc); err != nil {
			return cv.Document{}, fmt.Errorf("res: decoding %s: %w", r.URL, err)
		}
	default:
		return cv.Document{}, fmt.Errorf("res: %s is %s, not a document", r.URL, r.Format)
	}
	return doc, nil
}

// LoadCSS loads a stylesheet.
func (l *Loader) LoadCSS(ctx context.Context, ref string) (*Resource, error) {
	r, err := l.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if r.Format != FormatCSS {
		return nil, fmt.Errorf("res: %s is not CSS", ref)
	}
	return r, nil
}

func isRemote(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// parseDataURL parses a data URL (RFC 2397), e.g.
//
//	data:application/json;base64,<base64>
//	data:text/css,.cv-item%7Bmargin:0%7D
func parseDataURL(u string) (*Resource, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(u, "data:"), ",")
	if !ok {
		return nil, errors.New("res: invalid data URL")
	}

	mediaType := "text/plain"
	isBase64 := false
	if meta != "" {
		comps := strings.Split(meta, ";")
		if comps[0] != "" {
			mediaType = comps[0]
		}
		for _, c := range comps[1:] {
			if strings.EqualFold(strings.TrimSpace(c), "base64") {
				isBase64 = true
			}
		}
	}

	var data []byte
	if isBase64 {
		d, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("res: invalid base64 data URL: %w", err)
		}
		data = d
	} else if d, err := url.PathUnescape(payload); err == nil {
		data = []byte(d)
	} else {
		data = []byte(payload)
	}

	return &Resource{URL: "data:", Data: data, MimeType: mediaType, Format: formatOf(mediaType, "")}, nil
}

func (l *Loader) resolve(ref string) (string, error) {
	if isRemote(ref) || filepath.IsAbs(ref) {
		return ref, nil
	}
	if l.BaseURL == "" {
		return ref, nil
	}
	if !isRemote(l.BaseURL) {
		base := l.BaseURL
		if fi, err := os.Stat(base); err != nil || !fi.IsDir() {
			base = filepath.Dir(base)
		}
		return filepath.Join(base, ref), nil
	}

	base, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", fmt.Errorf("res: base URL: %w", err)
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("res: %w", err)
	}
	return base.ResolveReference(rel).String(), nil
}

func (l *Loader) loadRemote(ctx context.Context, u string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("res: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("res: fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, u)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("res: fetching %s: %s", u, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize+1))
	if err != nil {
		return nil, fmt.Errorf("res: reading %s: %w", u, err)
	}
	if len(data) > maxRemoteSize {
		return nil, fmt.Errorf("res: %s exceeds %d bytes", u, maxRemoteSize)
	}

	mt := resp.Header.Get("Content-Type")
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		mt = parsed
	}
	return &Resource{URL: u, Data: data, MimeType: mt, Format: formatOf(mt, pathOf(u))}, nil
}

func pathOf(u string) string {
	if p, err := url.Parse(u); err == nil {
		return p.Path
	}
	return u
}

func (l *Loader) loadLocal(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return l.loadFromSearchPaths(path)
	}
	if err != nil {
		return nil, fmt.Errorf("res: %w", err)
	}
	return localResource(path, data), nil
}

func (l *Loader) loadFromSearchPaths(name string) (*Resource, error) {
	base := filepath.Base(name)
	for _, dir := range l.searchPaths {
		path := filepath.Join(dir, base)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return localResource(path, data), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func localResource(path string, data []byte) *Resource {
	mt := mimeTypeOf(path)
	return &Resource{URL: path, Data: data, MimeType: mt, Format: formatOf(mt, path)}
}

func mimeTypeOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "application/json"
	case ".toml":
		return "application/toml"
	case ".css":
		return "text/css"
	case ".html", ".htm":
		return "text/html"
	}
	return "application/octet-stream"
}

func formatOf(mediaType, path string) Format {
	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return FormatJSON
	case mediaType == "application/toml":
		return FormatTOML
	case mediaType == "text/css":
		return FormatCSS
	case mediaType == "text/html":
		return FormatHTML
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	case ".css":
		return FormatCSS
	case ".html", ".htm":
		return FormatHTML
	}
	return FormatUnknown
}
