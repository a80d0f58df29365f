package github

import (
	"log/slog"
	"net/http"

	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/fs"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/secrets"
)

const (
	// DefaultAPIURL is the public GitHub REST API.
	DefaultAPIURL = "https://api.github.com"

	// DefaultBranch is the branch whose tarball is fetched.
	DefaultBranch = "master"

	// DefaultScratchDir is the writable directory available to Lambda functions.
	DefaultScratchDir = "/tmp"

	// DefaultMaxArchiveBytes caps the downloaded archive size.
	DefaultMaxArchiveBytes int64 = 512 << 20
)

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithAPIURL sets the API base URL, e.g. for GitHub Enterprise or tests.
func WithAPIURL(url string) Option {
	return func(f *Fetcher) {
		f.apiURL = url
	}
}

// WithBranch sets the branch to download.
func WithBranch(branch string) Option {
	return func(f *Fetcher) {
		f.branch = branch
	}
}

// WithScratchDir sets the directory the archive is extracted into.
func WithScratchDir(dir string) Option {
	return func(f *Fetcher) {
		f.scratchDir = dir
	}
}

// WithCredential sets the Basic auth credential. Nil means anonymous.
func WithCredential(cred *secrets.Credential) Option {
	return func(f *Fetcher) {
		f.credential = cred
	}
}

// WithHTTPClient sets the HTTP client used for downloads.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = client
	}
}

// WithFilesystem sets the filesystem the archive is extracted onto.
func WithFilesystem(filesystem fs.Filesystem) Option {
	return func(f *Fetcher) {
		f.fs = filesystem
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithMaxArchiveBytes caps the archive size; larger downloads fail.
func WithMaxArchiveBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}
