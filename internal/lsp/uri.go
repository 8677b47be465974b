package lsp

import (
	"io"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// Stdio joins a reader and a writer into the stream jsonrpc2 expects.
type Stdio struct {
	Reader io.ReadCloser
	Writer io.WriteCloser
}

func (s Stdio) Read(p []byte) (int, error)  { return s.Reader.Read(p) }
func (s Stdio) Write(p []byte) (int, error) { return s.Writer.Write(p) }
func (s Stdio) Close() error {
	_ = s.Reader.Close()
	return s.Writer.Close()
}

func pathToURI(path string) string {
	path = filepath.ToSlash(filepath.Clean(path))
	if runtime.GOOS == "windows" {
		path = "/" + path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return (&url.URL{Scheme: "file", Path: path}).String()
}

func uriToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	path := u.Path
	if runtime.GOOS == "windows" {
		path = strings.TrimPrefix(path, "/")
	}
	return filepath.FromSlash(path)
}
