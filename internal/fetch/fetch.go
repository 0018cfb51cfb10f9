// SPDX-License-Identifier: Apache-2.0

// Package fetch retrieves the raw catalogue text: the JBCA glitch table page
// and the ATNF psrcat tarball, which is cached on disk and unpacked in memory.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/glitchcat/glitchcat/internal/logging"
)

const (
	// ArchiveName is the cached file name of the ATNF tarball.
	ArchiveName = "psrcat_pkg.tar.gz"

	GlitchMember = "psrcat_tar/glitch.db"
	PsrcatMember = "psrcat_tar/psrcat.db"
)

// Size limits for data read into memory. Reads over a limit fail with
// ErrTooLarge rather than returning a truncated body.
var (
	maxPageSize   int64 = 10 << 20
	maxMemberSize int64 = 256 << 20
)

// ErrTooLarge indicates a page or archive member over its size limit.
var ErrTooLarge = errors.New("exceeds size limit")

// HTTPError is a non-200 response from a catalogue server.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// Options configures a Client.
type Options struct {
	JBCAURL   string
	ATNFURL   string
	CacheDir  string
	CacheTTL  time.Duration
	Timeout   time.Duration
	UserAgent string
}

// Client downloads catalogue sources.
type Client struct {
	HTTP      *http.Client
	JBCAURL   string
	ATNFURL   string
	CacheDir  string
	CacheTTL  time.Duration
	UserAgent string
}

// New creates a Client from opts.
func New(opts Options) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: opts.Timeout},
		JBCAURL:   opts.JBCAURL,
		ATNFURL:   opts.ATNFURL,
		CacheDir:  opts.CacheDir,
		CacheTTL:  opts.CacheTTL,
		UserAgent: opts.UserAgent,
	}
}

func (c *Client) open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", rawURL, err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, &HTTPError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp.Body, nil
}

func (c *Client) page(ctx context.Context, rawURL string) ([]byte, error) {
	body, err := c.open(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	return readLimited(body, maxPageSize, rawURL)
}

// readLimited reads r to the end, failing when it holds more than limit bytes.
func readLimited(r io.Reader, limit int64, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("read %s: %w of %d bytes", name, ErrTooLarge, limit)
	}
	return data, nil
}

// FetchJBCA returns the JBCA glitch table HTML.
func (c *Client) FetchJBCA(ctx context.Context) ([]byte, error) {
	logging.FromContext(ctx).Debug().Str("url", c.JBCAURL).Msg("Fetching JBCA glitch table")
	return c.page(ctx, c.JBCAURL)
}

// DownloadLink reads the ATNF download page and resolves its first link,
// which points at the current catalogue tarball.
func (c *Client) DownloadLink(ctx context.Context) (string, error) {
	data, err := c.page(ctx, c.ATNFURL)
	if err != nil {
		return "", err
	}
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", c.ATNFURL, err)
	}

	anchor := firstElement(doc, atom.A)
	if anchor == nil {
		return "", fmt.Errorf("no download link on %s", c.ATNFURL)
	}
	href := ""
	for _, attr := range anchor.Attr {
		if attr.Key == "href" {
			href = attr.Val
			break
		}
	}
	if href == "" {
		return "", fmt.Errorf("first link on %s has no href", c.ATNFURL)
	}

	base, err := url.Parse(c.ATNFURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse download link %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// ArchivePath returns where the tarball is cached.
func (c *Client) ArchivePath() string {
	return filepath.Join(c.CacheDir, ArchiveName)
}

// EnsureArchive makes sure a fresh tarball is in the cache and returns its
// path. A cached copy younger than CacheTTL is reused; a zero TTL reuses any
// cached copy.
func (c *Client) EnsureArchive(ctx context.Context) (string, error) {
	logger := logging.FromContext(ctx)
	path := c.ArchivePath()

	if c.isCacheValid(path) {
		logger.Debug().Str("path", path).Msg("Using cached ATNF archive")
		return path, nil
	}
	if err := os.MkdirAll(c.CacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create cache directory: %w", err)
	}

	link, err := c.DownloadLink(ctx)
	if err != nil {
		return "", err
	}
	logger.Info().Str("url", link).Msg("Downloading ATNF archive")

	body, err := c.open(ctx, link)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	tmp, err := os.CreateTemp(c.CacheDir, "psrcat_*.tar.gz")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write %s: %w", ArchiveName, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("move %s into cache: %w", ArchiveName, err)
	}

	logger.Info().Str("path", path).Int64("bytes", n).Msg("Downloaded ATNF archive")
	return path, nil
}

func (c *Client) isCacheValid(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if c.CacheTTL == 0 {
		return true
	}
	return time.Since(info.ModTime()) < c.CacheTTL
}

// ATNF holds the two databases shipped in the ATNF tarball.
type ATNF struct {
	GlitchDB []byte
	PsrcatDB []byte
}

// FetchATNF ensures the tarball is cached and extracts both databases.
func (c *Client) FetchATNF(ctx context.Context) (*ATNF, error) {
	path, err := c.EnsureArchive(ctx)
	if err != nil {
		return nil, err
	}
	members, err := ExtractFile(path, GlitchMember, PsrcatMember)
	if err != nil {
		return nil, err
	}
	return &ATNF{GlitchDB: members[GlitchMember], PsrcatDB: members[PsrcatMember]}, nil
}

func firstElement(n *html.Node, tag atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == tag {
			return c
		}
		if found := firstElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
