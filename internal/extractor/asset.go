package extractor

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/sitegrab/sitegrab/internal/fetcher"
)

// Kind classifies a page asset. It selects both the subdirectory an
// asset is stored in and the extension synthesized for nameless URLs.
type Kind string

// Asset kinds.
const (
	// KindCSS is a stylesheet referenced by a link element.
	KindCSS Kind = "css"

	// KindJS is a script referenced by a script element.
	KindJS Kind = "js"

	// KindImage is an image referenced by an img element.
	KindImage Kind = "images"
)

// Subdir returns the asset subdirectory name under assets/.
func (k Kind) Subdir() string {
	return string(k)
}

// ext returns the default extension synthesized when a URL path
// yields no filename.
func (k Kind) ext() string {
	switch k {
	case KindCSS:
		return ".css"
	case KindJS:
		return ".js"
	case KindImage:
		return ".png"
	default:
		return ""
	}
}

// AssetDownloader resolves page asset references, downloads them once,
// and names them for local storage.
//
// Design decision: Idempotence is by file presence, not content hash.
// A file that already exists under the resolved name is returned
// without a network round-trip and is never refreshed. This matches
// the persistence contract of the project layout: re-extracting a page
// into an existing project reuses its assets.
type AssetDownloader struct {
	// fetcher performs the raw downloads.
	fetcher *fetcher.Fetcher

	// logger records skipped and failed downloads.
	logger *slog.Logger
}

// NewAssetDownloader creates an AssetDownloader using the given fetcher.
func NewAssetDownloader(f *fetcher.Fetcher, logger *slog.Logger) *AssetDownloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssetDownloader{fetcher: f, logger: logger}
}

// Download resolves ref against baseURL, downloads the asset into
// targetDir, and returns the local filename. If a file of the resolved
// name already exists the download is skipped and the existing name
// returned. All failures are returned as *AssetError; callers degrade
// gracefully by leaving the original reference in place.
func (d *AssetDownloader) Download(ctx context.Context, ref, baseURL, targetDir string, kind Kind) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", &AssetError{Ref: ref, Err: err}
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", &AssetError{Ref: ref, Err: err}
	}

	absolute := base.ResolveReference(refURL)

	// The local name comes from the reference's own path, so the same
	// reference always maps to the same file regardless of base URL.
	filename := localFilename(refURL.Path, kind)
	savePath := filepath.Join(targetDir, filename)

	// Skip if already downloaded
	if _, err := os.Stat(savePath); err == nil {
		d.logger.Debug("asset already present, skipping", "file", filename)
		return filename, nil
	}

	data, err := d.fetcher.FetchBytes(ctx, absolute.String())
	if err != nil {
		return "", &AssetError{Ref: ref, Err: err}
	}

	if err := os.WriteFile(savePath, data, 0600); err != nil {
		return "", &AssetError{Ref: ref, Err: err}
	}

	d.logger.Debug("downloaded asset", "kind", string(kind), "file", filename)
	return filename, nil
}

// localFilename derives a local filename from a URL path, synthesizing
// "index" plus the kind's default extension when the path has none.
func localFilename(urlPath string, kind Kind) string {
	name := path.Base(urlPath)
	if name == "" || name == "." || name == "/" {
		return "index" + kind.ext()
	}
	return name
}
