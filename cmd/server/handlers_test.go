package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x4-ledger/internal/domain"
	"x4-ledger/internal/reporting"
	"x4-ledger/internal/stats"
)

const testSave = `<?xml version="1.0"?>
<savegame>
  <info><game time="7200"/></info>
  <universe>
    <component class="galaxy">
      <connections>
        <component class="player" owner="player" id="[0x1]" name="Avatar" code="PLY-001">
          <connections/>
        </component>
        <component class="ship_m" owner="player" id="[0x200]" macro="ship_arg_trader" name="Hauler" code="DEF-456">
          <connections/>
          <order order="TradeRoutine" default="1"/>
        </component>
      </connections>
    </component>
  </universe>
  <economylog>
    <entries type="trade">
      <log time="3600" seller="[0x200]" buyer="[0x999]" ware="wheat" price="5000" v="100"/>
    </entries>
  </economylog>
</savegame>`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(testSave))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	path := filepath.Join(dir, "quicksave.xml.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	mtime := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	service := stats.NewService(stats.Options{
		SaveDir:     dir,
		StagingPath: filepath.Join(t.TempDir(), "staged.xml.gz"),
	})
	_, err = service.ReloadIfNew(context.Background())
	require.NoError(t, err)

	return &Server{
		service:  service,
		reporter: reporting.NewGenerator(1, domain.DefaultEcoOrders()),
		logger:   log.New(io.Discard, "", 0),
		started:  time.Now(),
	}
}

func TestHandleReport(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handleReport(rec, httptest.NewRequest(http.MethodGet, "/report", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "# Economy Report")
	assert.Contains(t, body, "| Hauler |")
	assert.Contains(t, body, "| Game Time (hours) | 2.00 |")
}

func TestHandleReportBeforeFirstLoad(t *testing.T) {
	service := stats.NewService(stats.Options{
		SaveDir:     t.TempDir(),
		StagingPath: filepath.Join(t.TempDir(), "staged.xml.gz"),
	})
	srv := &Server{
		service:  service,
		reporter: reporting.NewGenerator(1, domain.DefaultEcoOrders()),
		logger:   log.New(io.Discard, "", 0),
		started:  time.Now(),
	}

	rec := httptest.NewRecorder()
	srv.handleReport(rec, httptest.NewRequest(http.MethodGet, "/report", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleIdleRequiresHours(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handleIdle(rec, httptest.NewRequest(http.MethodGet, "/stats/idle", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	srv.handleIdle(rec, httptest.NewRequest(http.MethodGet, "/stats/idle?hours=1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
