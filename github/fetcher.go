package github

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	ferrors "github.com/input-output-hk/catalyst-forge-libs/sitedeploy/errors"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/fs"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/fs/billy"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/secrets"
)

const userAgent = "sitedeploy"

// Fetcher downloads and extracts repository tarballs.
type Fetcher struct {
	apiURL     string
	branch     string
	scratchDir string
	credential *secrets.Credential
	httpClient *http.Client
	fs         fs.Filesystem
	logger     *slog.Logger
	maxBytes   int64
}

// NewFetcher creates a Fetcher with the given options applied over the defaults.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		apiURL:     DefaultAPIURL,
		branch:     DefaultBranch,
		scratchDir: DefaultScratchDir,
		httpClient: http.DefaultClient,
		fs:         billy.NewOSFS(),
		logger:     slog.New(slog.DiscardHandler),
		maxBytes:   DefaultMaxArchiveBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.New(slog.DiscardHandler)
	}
	if f.httpClient == nil {
		f.httpClient = http.DefaultClient
	}
	return f
}

// Fetch downloads the tarball of fullName ("owner/repo") and returns the
// path of the extracted snapshot root.
func (f *Fetcher) Fetch(ctx context.Context, fullName string) (string, error) {
	if fullName == "" || strings.Count(fullName, "/") != 1 {
		return "", ferrors.Newf(ferrors.CodeInvalidInput, "fetch", "invalid repository name %q", fullName)
	}

	data, err := f.download(ctx, fullName)
	if err != nil {
		return "", err
	}

	mtype := mimetype.Detect(data)
	if !mtype.Is("application/gzip") {
		return "", ferrors.Newf(ferrors.CodeArchiveInvalid, "fetch",
			"%s: expected gzip archive, got %s", fullName, mtype.String())
	}

	root, err := f.extract(data)
	if err != nil {
		return "", err
	}

	f.logger.Info("extracted snapshot",
		"repository", fullName,
		"branch", f.branch,
		"root", root,
		"archive_bytes", len(data))
	return root, nil
}

func (f *Fetcher) tarballURL(fullName string) string {
	return fmt.Sprintf("%s/repos/%s/tarball/%s",
		strings.TrimRight(f.apiURL, "/"), fullName, url.PathEscape(f.branch))
}

func (f *Fetcher) download(ctx context.Context, fullName string) ([]byte, error) {
	const op = "download"
	u := f.tarballURL(fullName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeInvalidInput, op, err)
	}
	req.Header.Set("User-Agent", userAgent)
	if f.credential != nil {
		req.Header.Set("Authorization", f.credential.BasicAuth())
	}

	f.logger.Debug("downloading tarball", "url", u, "authenticated", f.credential != nil)
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeNetwork, op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, statusError(op, fullName, resp.StatusCode, snippet)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeNetwork, op, err)
	}
	if n > f.maxBytes {
		return nil, ferrors.Newf(ferrors.CodeArchiveInvalid, op,
			"%s: archive exceeds %d bytes", fullName, f.maxBytes)
	}
	return buf.Bytes(), nil
}

func statusError(op, fullName string, status int, body []byte) error {
	code := ferrors.CodeNetwork
	switch status {
	case http.StatusNotFound:
		code = ferrors.CodeNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		code = ferrors.CodeUnauthorized
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return ferrors.Newf(code, op, "%s: unexpected status %d", fullName, status)
	}
	return ferrors.Newf(code, op, "%s: unexpected status %d: %s", fullName, status, msg)
}
