// LBGDB Metadata
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LBGDB Metadata.
//
// LBGDB Metadata is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LBGDB Metadata is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LBGDB Metadata.  If not, see <http://www.gnu.org/licenses/>.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/api/models"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/config"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database/metadatadb"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database/platformmap"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/importer"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/launchbox"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/metadata"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/testing/fixtures"
	"github.com/gorilla/websocket"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	block   chan struct{}
	hash    string
	archive []byte
}

func (s *fakeSource) GetMetadataHash(context.Context) (string, error) {
	return s.hash, nil
}

func (s *fakeSource) DownloadMetadata(ctx context.Context) (io.ReadCloser, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return io.NopCloser(bytes.NewReader(s.archive)), nil
}

type testServer struct {
	server   *Server
	http     *httptest.Server
	importer *importer.Importer
	cfg      *config.Instance
}

type serverSetup struct {
	source        launchbox.Source
	cfgTOML       string
	seed          bool
	notifications bool
}

func newTestServer(t *testing.T, setup serverSetup) *testServer {
	t.Helper()

	cfgDir := t.TempDir()
	if setup.cfgTOML != "" {
		require.NoError(t, os.WriteFile(filepath.Join(cfgDir, config.CfgFile), []byte(setup.cfgTOML), 0o600))
	}
	cfg, err := config.NewConfig(cfgDir, config.BaseDefaults)
	require.NoError(t, err)

	var notifications chan importer.Progress
	if setup.notifications {
		notifications = make(chan importer.Progress, 32)
	}

	fs := afero.NewMemMapFs()
	dbPath := filepath.Join(t.TempDir(), metadatadb.DBFile)
	imp, err := importer.New(importer.Options{
		Source:        setup.source,
		Config:        cfg,
		Fs:            fs,
		Notifications: notifications,
		DBPath:        dbPath,
		TempDir:       "/tmp",
	})
	require.NoError(t, err)

	if setup.seed {
		data, err := fixtures.MetadataArchive(launchbox.DefaultMetadataFile, fixtures.MetadataXML)
		require.NoError(t, err)
		require.NoError(t, afero.WriteFile(fs, "/seed.zip", data, 0o644))
		require.NoError(t, imp.ImportArchiveFile(context.Background(), "/seed.zip"))
	}

	open := metadatadb.NewOpener(dbPath)
	srv, err := NewServer(context.Background(), Options{
		Config:        cfg,
		Resolver:      metadata.NewResolver(open, nil),
		Importer:      imp,
		Platforms:     platformmap.Default(),
		Open:          open,
		Notifications: notifications,
	})
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testServer{server: srv, http: ts, importer: imp, cfg: cfg}
}

func (ts *testServer) do(t *testing.T, method, path string, query url.Values, out any) int {
	t.Helper()

	u := ts.http.URL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(context.Background(), method, u, http.NoBody)
	require.NoError(t, err)

	resp, err := ts.http.Client().Do(req)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, resp.Body.Close())
	}()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestMetadata_Found(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, serverSetup{seed: true})

	var md metadata.Metadata
	status := ts.do(t, http.MethodGet, models.PathMetadata, url.Values{
		"name":     {"Sonic the Hedgehog (USA)"},
		"platform": {"sega_genesis"},
	}, &md)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, int64(1), md.DatabaseID)
	assert.Equal(t, "Sonic the Hedgehog", md.Name)
	assert.Equal(t, []string{"Action", "Platform"}, md.Genres)
	assert.Equal(t, launchbox.DefaultImageBaseURL+"sonic-us.png", md.CoverImage)
	assert.Equal(t, launchbox.DefaultImageBaseURL+"sonic-bg.jpg", md.BackgroundImage)
	require.NotNil(t, md.CommunityScore)
	require.NotNil(t, md.ReleaseDate)
	assert.Nil(t, md.Icon, "icon needs a fetcher")
	require.NotEmpty(t, md.Links)
	assert.Equal(t, launchbox.DefaultGameURL+"1", md.Links[0].URL)
}

func TestMetadata_RegionHint(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, serverSetup{seed: true})

	var md metadata.Metadata
	status := ts.do(t, http.MethodGet, models.PathMetadata, url.Values{
		"name":     {"Sonic the Hedgehog"},
		"platform": {"Sega Genesis"},
		"region":   {"Europe"},
	}, &md)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, launchbox.DefaultImageBaseURL+"sonic-eu.png", md.CoverImage)

	status = ts.do(t, http.MethodGet, models.PathMetadata, url.Values{
		"name":     {"Sonic the Hedgehog"},
		"platform": {"sega_genesis"},
		"path":     {"/roms/genesis/Sonic the Hedgehog (Europe).md"},
	}, &md)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, launchbox.DefaultImageBaseURL+"sonic-eu.png", md.CoverImage)
}

func TestMetadata_UnknownRegionUsesDefaultOrder(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, serverSetup{seed: true})

	var md metadata.Metadata
	status := ts.do(t, http.MethodGet, models.PathMetadata, url.Values{
		"name":     {"Sonic the Hedgehog"},
		"platform": {"sega_genesis"},
		"region":   {"Latin America"},
	}, &md)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, launchbox.DefaultImageBaseURL+"sonic-us.png", md.CoverImage)
}

func TestMetadata_UnavailableWhileImporting(t *testing.T) {
	t.Parallel()

	archive, err := fixtures.MetadataArchive(launchbox.DefaultMetadataFile, fixtures.MetadataXML)
	require.NoError(t, err)
	src := &fakeSource{hash: "h2", archive: archive, block: make(chan struct{})}
	ts := newTestServer(t, serverSetup{seed: true, source: src})
	query := url.Values{"name": {"Sonic the Hedgehog"}, "platform": {"sega_genesis"}}

	require.Equal(t, http.StatusAccepted, ts.do(t, http.MethodPost, models.PathUpdate, nil, nil))
	require.Eventually(t, ts.importer.Running, 5*time.Second, 10*time.Millisecond)

	var resp models.ErrorResponse
	assert.Equal(t, http.StatusServiceUnavailable, ts.do(t, http.MethodGet, models.PathMetadata, query, &resp))
	assert.Equal(t, metadata.ErrStoreNotReady.Error(), resp.Error)

	close(src.block)
	require.Eventually(t, func() bool { return !ts.importer.Running() }, 10*time.Second, 10*time.Millisecond)

	var md metadata.Metadata
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, models.PathMetadata, query, &md))
	assert.Equal(t, int64(1), md.DatabaseID)
}

func TestMetadata_UnavailableAfterFailedImport(t *testing.T) {
	t.Parallel()

	partial, err := fixtures.MetadataArchive(launchbox.DefaultMetadataFile,
		`<LaunchBox><Game><Name>Sonic the Hedgehog</Name><DatabaseID>1</DatabaseID>`+
			`<Platform>Sega Genesis</Platform></Game>`+
			`<GameImage><DatabaseID>1</DatabaseID></GameImage></LaunchBox>`)
	require.NoError(t, err)
	ts := newTestServer(t, serverSetup{seed: true, source: &fakeSource{hash: "bad", archive: partial}})

	_, err = ts.importer.Update(context.Background())
	require.ErrorIs(t, err, importer.ErrImportFailed)

	var resp models.ErrorResponse
	status := ts.do(t, http.MethodGet, models.PathMetadata, url.Values{
		"name":     {"Sonic the Hedgehog"},
		"platform": {"sega_genesis"},
	}, &resp)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, metadata.ErrStoreNotReady.Error(), resp.Error)

	var st models.StatusResponse
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, models.PathStatus, nil, &st))
	assert.False(t, st.HasData)
}

func TestMetadata_AlternateName(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, serverSetup{seed: true})

	var md metadata.Metadata
	status := ts.do(t, http.MethodGet, models.PathMetadata, url.Values{
		"name":     {"Super Game"},
		"platform": {"sega_genesis"},
	}, &md)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(2), md.DatabaseID)
	assert.Equal(t, "Super Game", md.Name)
	assert.Equal(t, launchbox.DefaultImageBaseURL+"mega-eu.png", md.CoverImage)
}

func TestMetadata_NotFound(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, serverSetup{seed: true})

	var resp models.ErrorResponse
	status := ts.do(t, http.MethodGet, models.PathMetadata, url.Values{
		"name":     {"Unknown Game"},
		"platform": {"sega_genesis"},
	}, &resp)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, metadata.ErrNotResolvable.Error(), resp.Error)
}

func TestMetadata_InvalidParams(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, serverSetup{seed: true})

	tests := []struct {
		query url.Values
		name  string
		field string
	}{
		{name: "missing name", query: url.Values{"platform": {"sega_genesis"}}, field: "Name"},
		{name: "missing platform", query: url.Values{"name": {"Sonic"}}, field: "Platform"},
		{
			name:  "overlong region",
			query: url.Values{"name": {"Sonic"}, "platform": {"x"}, "region": {strings.Repeat("r", 65)}},
			field: "Regions[0]",
		},
		{
			name:  "bad icon flag",
			query: url.Values{"name": {"Sonic"}, "platform": {"x"}, "icon": {"maybe"}},
			field: models.ParamIcon,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var resp models.ErrorResponse
			status := ts.do(t, http.MethodGet, models.PathMetadata, tt.query, &resp)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "invalid params", resp.Error)
			require.NotEmpty(t, resp.Fields)
			assert.Equal(t, tt.field, resp.Fields[0].Field)
			assert.NotEmpty(t, resp.Fields[0].Message)
		})
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	empty := newTestServer(t, serverSetup{})
	var resp models.StatusResponse
	require.Equal(t, http.StatusOK, empty.do(t, http.MethodGet, models.PathStatus, nil, &resp))
	assert.False(t, resp.HasData)
	assert.Nil(t, resp.Stats)
	assert.Nil(t, resp.UpdateAvailable)
	assert.Equal(t, config.AppVersion, resp.Version)
	assert.Equal(t, platformmap.Default().Version(), resp.PlatformTable)

	seeded := newTestServer(t, serverSetup{seed: true, source: &fakeSource{hash: "remote"}})
	resp = models.StatusResponse{}
	require.Equal(t, http.StatusOK,
		seeded.do(t, http.MethodGet, models.PathStatus, url.Values{"check": {"true"}}, &resp))
	assert.True(t, resp.HasData)
	require.NotNil(t, resp.Stats)
	assert.Equal(t, database.Stats{
		Games:          fixtures.MetadataGames,
		AlternateNames: fixtures.MetadataAlternateNames,
		Images:         fixtures.MetadataImages,
	}, *resp.Stats)
	require.NotNil(t, resp.UpdateAvailable)
	assert.True(t, *resp.UpdateAvailable)
	assert.Equal(t, importer.StateIdle, resp.Progress.State)
}

func TestUpdate_RunsInBackground(t *testing.T) {
	t.Parallel()

	archive, err := fixtures.MetadataArchive(launchbox.DefaultMetadataFile, fixtures.MetadataXML)
	require.NoError(t, err)
	src := &fakeSource{hash: "h1", archive: archive, block: make(chan struct{})}
	ts := newTestServer(t, serverSetup{source: src})

	var started models.UpdateResponse
	require.Equal(t, http.StatusAccepted, ts.do(t, http.MethodPost, models.PathUpdate, nil, &started))
	assert.True(t, started.Started)

	require.Eventually(t, ts.importer.Running, 5*time.Second, 10*time.Millisecond)

	var conflict models.UpdateResponse
	require.Equal(t, http.StatusConflict, ts.do(t, http.MethodPost, models.PathUpdate, nil, &conflict))
	assert.False(t, conflict.Started)
	assert.True(t, conflict.Progress.Running)

	close(src.block)

	require.Eventually(t, func() bool {
		var p importer.Progress
		ts.do(t, http.MethodGet, models.PathUpdateProgress, nil, &p)
		return !p.Running && p.Hash == "h1"
	}, 10*time.Second, 20*time.Millisecond)

	assert.Equal(t, "h1", ts.cfg.LastHash())
}

func (ts *testServer) dialEvents(t *testing.T) *websocket.Conn {
	t.Helper()

	u := "ws" + strings.TrimPrefix(ts.http.URL, "http") + models.PathUpdateEvents
	conn, resp, err := websocket.DefaultDialer.DialContext(context.Background(), u, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		require.NoError(t, resp.Body.Close())
	}
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	return conn
}

func readProgress(t *testing.T, conn *websocket.Conn) importer.Progress {
	t.Helper()
	var n models.ProgressNotification
	require.NoError(t, conn.ReadJSON(&n))
	assert.Equal(t, models.MethodUpdateProgress, n.Method)
	return n.Params
}

func TestUpdateEvents_BroadcastsProgress(t *testing.T) {
	t.Parallel()

	archive, err := fixtures.MetadataArchive(launchbox.DefaultMetadataFile, fixtures.MetadataXML)
	require.NoError(t, err)
	ts := newTestServer(t, serverSetup{source: &fakeSource{hash: "h1", archive: archive}, notifications: true})

	conn := ts.dialEvents(t)
	greeting := readProgress(t, conn)
	assert.Equal(t, importer.StateIdle, greeting.State)
	assert.False(t, greeting.Running)

	require.Equal(t, http.StatusAccepted, ts.do(t, http.MethodPost, models.PathUpdate, nil, nil))

	seen := map[importer.State]bool{}
	var last importer.Progress
	for last.Hash != "h1" || last.Running {
		last = readProgress(t, conn)
		seen[last.State] = true
	}
	assert.True(t, seen[importer.StateDownloading])
	assert.True(t, seen[importer.StateImportingGames])
	assert.True(t, seen[importer.StateImportingImages])
	assert.Equal(t, int64(fixtures.MetadataGames+fixtures.MetadataAlternateNames+fixtures.MetadataImages), last.Records)
}

func TestUpdateEvents_CloseDisconnects(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, serverSetup{notifications: true})

	conn := ts.dialEvents(t)
	readProgress(t, conn)

	ts.server.Close()
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, serverSetup{})

	req := httptest.NewRequest(http.MethodOptions, models.PathMetadata, http.NoBody)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestIPFilter_FromConfig(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, serverSetup{cfgTOML: `config_schema = 1

[api]
allowed_ips = ["10.0.0.1"]
`})

	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, models.PathStatus, nil, nil))
}

func TestServe_StopsOnCancel(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, serverSetup{})

	ln, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ts.server.Serve(ctx, ln)
	}()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet,
		"http://"+ln.Addr().String()+models.PathStatus, http.NoBody)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		require.Fail(t, "server did not stop")
	}
}

func TestNewServer_RequiresServices(t *testing.T) {
	t.Parallel()
	_, err := NewServer(context.Background(), Options{})
	require.Error(t, err)
}
