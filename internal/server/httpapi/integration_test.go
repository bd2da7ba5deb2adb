package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/htmlkeeper/internal/archive"
	"github.com/dmitrijs2005/htmlkeeper/internal/logging"
	"github.com/dmitrijs2005/htmlkeeper/internal/mirror"
	"github.com/dmitrijs2005/htmlkeeper/internal/pipeline"
	"github.com/dmitrijs2005/htmlkeeper/internal/workspace"
)

func newLiveServer(t *testing.T) *httptest.Server {
	t.Helper()
	root := t.TempDir()
	ws, err := workspace.Open(workspace.Layout{
		PublicDir:     filepath.Join(root, "public"),
		ArchiveSubdir: "archive",
		UploadsDir:    filepath.Join(root, "uploads"),
		IndexFileName: "index.html",
	})
	require.NoError(t, err)

	p := pipeline.New(ws,
		archive.NewArchiver(ws.Archive, archive.Renderer{}),
		archive.NewIndexer(ws.Archive, archive.IndexPage{}),
		mirror.Nop{}, logging.Discard(), pipeline.Options{})

	srv := httptest.NewServer(New(p, Options{
		PublicDir:            ws.PublicDir,
		UploadsDir:           ws.UploadsDir,
		MaxUploadBytes:       1 << 20,
		MaxConcurrentUploads: 2,
	}, logging.Discard()))
	t.Cleanup(srv.Close)
	return srv
}

func fetch(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestLive_SaveThenBrowse(t *testing.T) {
	srv := newLiveServer(t)

	b, _ := json.Marshal(map[string]string{"fileName": "report", "title": "Q1", "content": "<b>ok</b>"})
	resp, err := http.Post(srv.URL+"/save-html", "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var saved SaveResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saved))
	assert.Equal(t, "/public/archive/report.html", saved.Path)
	assert.Empty(t, saved.URL, "disabled mirror yields no remote URL")

	status, body := fetch(t, srv.URL+saved.Path)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<pre><b>ok</b></pre>")

	// FileServer serves the directory's index.html for the bare directory path.
	status, body = fetch(t, srv.URL+"/public/archive/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `<a href="./report.html">report</a>`)
}

func TestLive_SavedPathResolvesForReservedURLCharacters(t *testing.T) {
	srv := newLiveServer(t)

	b, _ := json.Marshal(map[string]string{"fileName": "a#b", "title": "T", "content": "fragment-safe"})
	resp, err := http.Post(srv.URL+"/save-html", "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var saved SaveResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saved))
	assert.Equal(t, "/public/archive/a%23b.html", saved.Path)

	status, body := fetch(t, srv.URL+saved.Path)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "fragment-safe")

	_, index := fetch(t, srv.URL+"/public/archive/")
	assert.Contains(t, index, `<a href="./a%23b.html">a#b</a>`)
}

func TestLive_SaveRejectsMissingContent(t *testing.T) {
	srv := newLiveServer(t)

	b, _ := json.Marshal(map[string]string{"fileName": "x", "title": "T"})
	resp, err := http.Post(srv.URL+"/save-html", "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	status, _ := fetch(t, srv.URL+"/public/archive/x.html")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLive_UploadThenDownload(t *testing.T) {
	srv := newLiveServer(t)

	body, ct := multipartBody(t, "file", "notes.txt", "hello upload")
	resp, err := http.Post(srv.URL+"/upload", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var up UploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&up))
	assert.Regexp(t, `^\d+-notes\.txt$`, up.File)

	status, got := fetch(t, srv.URL+"/uploads/"+up.File)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "hello upload", got)
}
