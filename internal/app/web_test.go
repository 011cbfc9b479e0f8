// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.viam.com/test"

	"github.com/relabs-tech/compass/internal/mag"
)

func TestHandleLatest(t *testing.T) {
	hub := newSampleHub()

	rec := httptest.NewRecorder()
	hub.handleLatest(rec, httptest.NewRequest(http.MethodGet, "/api/compass", nil))
	test.That(t, rec.Code, test.ShouldEqual, http.StatusServiceUnavailable)

	s := testSample(45)
	hub.publish(s)

	rec = httptest.NewRecorder()
	hub.handleLatest(rec, httptest.NewRequest(http.MethodGet, "/api/compass", nil))
	test.That(t, rec.Code, test.ShouldEqual, http.StatusOK)
	test.That(t, rec.Header().Get("Content-Type"), test.ShouldEqual, "application/json")

	var got mag.Sample
	test.That(t, json.NewDecoder(rec.Body).Decode(&got), test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, s)
}

func TestHubWebSocket(t *testing.T) {
	dir := t.TempDir()
	test.That(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>compass</h1>"), 0o644), test.ShouldBeNil)

	hub := newSampleHub()
	srv := httptest.NewServer(hub.routes(dir))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	test.That(t, err, test.ShouldBeNil)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(body), test.ShouldContainSubstring, "compass")

	first := testSample(10)
	hub.publish(first)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	test.That(t, err, test.ShouldBeNil)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var got mag.Sample
	test.That(t, conn.ReadJSON(&got), test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, first)

	// The handler subscribed before sending the latest sample.
	next := testSample(20)
	hub.publish(next)
	test.That(t, conn.ReadJSON(&got), test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, next)
}
