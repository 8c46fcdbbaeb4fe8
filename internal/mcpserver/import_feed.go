package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/satcat/internal/models"
	"github.com/starford/satcat/internal/storage"
)

const maxFeedSize = 50 << 20 // 50 MB

// Directory under the archive that keeps payloads imported through MCP.
const archiveSource = "mcp"

var allowedMIME = map[string]bool{
	"text/plain":               true,
	"application/octet-stream": true,
}

type importResult struct {
	ArchivedPath string              `json:"archivedPath,omitempty"`
	Report       models.IngestReport `json:"report"`
}

func (s *Server) importFeed(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if kind != models.FeedSatcat && kind != models.FeedTLE {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported feed kind: %s (allowed: satcat, tle)", kind)), nil
	}

	rawURL := req.GetString("url", "")
	var data []byte
	switch {
	case strings.HasPrefix(rawURL, "data:"):
		data, err = decodeDataURI(rawURL)
	case rawURL != "":
		data, err = fetchHTTP(ctx, rawURL)
	default:
		content := req.GetString("content", "")
		if content == "" {
			return mcp.NewToolResultError("either url or content is required"), nil
		}
		data = []byte(content)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(data) > maxFeedSize {
		return mcp.NewToolResultError(fmt.Sprintf("feed too large: %d bytes (max %d)", len(data), maxFeedSize)), nil
	}
	if !utf8.Valid(data) {
		return mcp.NewToolResultError("feed is not valid UTF-8 text"), nil
	}

	var archived string
	if s.inbox != nil {
		archived = path.Join(storage.DirArchive, archiveSource, kind, uuid.New().String()+".txt")
		if err := s.inbox.Write(archived, data); err != nil {
			s.logger.Warn("archive imported feed", slog.String("path", archived), slog.String("error", err.Error()))
			archived = ""
		}
	}

	rep, err := s.svc.Import(ctx, kind, data)
	if err != nil {
		return s.toolError("import_feed", err), nil
	}
	out, _ := json.Marshal(importResult{ArchivedPath: archived, Report: rep})
	return mcp.NewToolResultText(string(out)), nil
}

// decodeDataURI parses a data:[<mediatype>][;base64],<data> URI.
func decodeDataURI(uri string) ([]byte, error) {
	rest := strings.TrimPrefix(uri, "data:")
	commaIdx := strings.Index(rest, ",")
	if commaIdx < 0 {
		return nil, fmt.Errorf("invalid data URI: missing comma separator")
	}

	meta := rest[:commaIdx]
	encoded := rest[commaIdx+1:]

	if !strings.Contains(meta, ";base64") {
		return nil, fmt.Errorf("only base64 data URIs are supported")
	}

	mime := strings.Split(strings.TrimSuffix(meta, ";base64"), ";")[0]
	if mime != "" && !allowedMIME[mime] {
		return nil, fmt.Errorf("unsupported MIME type in data URI: %s", mime)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data: %w", err)
		}
	}
	return data, nil
}

// fetchHTTP downloads a feed from an HTTP/HTTPS URL with security checks.
func fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %s (only http/https)", parsed.Scheme)
	}

	if err := checkBlockedHost(parsed.Hostname()); err != nil {
		return nil, err
	}

	client := &http.Client{
		Timeout: 60 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("too many redirects (max 5)")
			}
			return checkBlockedHost(req.URL.Hostname())
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, maxFeedSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	if len(data) > maxFeedSize {
		return nil, fmt.Errorf("feed too large: exceeds %d bytes", maxFeedSize)
	}
	return data, nil
}

// checkBlockedHost rejects loopback and cloud metadata addresses.
func checkBlockedHost(host string) error {
	if host == "metadata.google.internal" {
		return fmt.Errorf("blocked host: %s", host)
	}

	ip := net.ParseIP(host)
	if ip == nil {
		ips, lookupErr := net.LookupIP(host)
		if lookupErr != nil || len(ips) == 0 {
			return nil //nolint:nilerr // let http.Client handle DNS failures
		}
		ip = ips[0]
	}

	if ip.IsLoopback() {
		return fmt.Errorf("blocked host: loopback address %s", host)
	}
	// AWS/GCP/Azure metadata endpoint.
	if ip.Equal(net.ParseIP("169.254.169.254")) {
		return fmt.Errorf("blocked host: cloud metadata address %s", host)
	}
	return nil
}
