// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/compass/internal/config"
	"github.com/relabs-tech/compass/internal/mag"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// sampleHub keeps the latest sample and fans new ones out to websocket
// clients.
type sampleHub struct {
	mu   sync.RWMutex
	last mag.Sample
	have bool
	subs map[chan mag.Sample]struct{}
}

func newSampleHub() *sampleHub {
	return &sampleHub{subs: make(map[chan mag.Sample]struct{})}
}

func (h *sampleHub) publish(s mag.Sample) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last, h.have = s, true
	for ch := range h.subs {
		select {
		case ch <- s:
		default: // slow client, drop
		}
	}
}

func (h *sampleHub) latest() (mag.Sample, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last, h.have
}

func (h *sampleHub) subscribe() (<-chan mag.Sample, func()) {
	ch := make(chan mag.Sample, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

// handleLatest serves the latest sample as JSON.
func (h *sampleHub) handleLatest(w http.ResponseWriter, r *http.Request) {
	s, ok := h.latest()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s); err != nil {
		logf("web", "json encode error: %v", err)
	}
}

// handleWS streams samples to a websocket client, starting with the latest
// one if any.
func (h *sampleHub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logf("web", "websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ch, cancel := h.subscribe()
	defer cancel()

	// Reader goroutine only notices the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if s, ok := h.latest(); ok {
		if err := conn.WriteJSON(s); err != nil {
			return
		}
	}
	for {
		select {
		case s := <-ch:
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(s); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logf("web", "websocket write error: %v", err)
				}
				return
			}
		case <-closed:
			return
		}
	}
}

func (h *sampleHub) routes(staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/compass", h.handleLatest)
	mux.HandleFunc("/ws", h.handleWS)
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	return mux
}

// RunWeb subscribes to the mag topic and serves the latest sample over
// HTTP and websocket.
func RunWeb() error {
	cfg := config.Get()
	hub := newSampleHub()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	logf("web", "connected to MQTT broker at %s", cfg.MQTTBroker)

	if err := subscribeJSON(client, "web", cfg.TopicMag, hub.publish); err != nil {
		return err
	}
	logf("web", "subscribed to MQTT topic %s", cfg.TopicMag)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	logf("web", "listening on %s", addr)
	return http.ListenAndServe(addr, hub.routes("web"))
}
