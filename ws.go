package main

import (
	"sort"
	"strings"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"file-server/browse"
)

type wsRequest struct {
	Path      string `json:"path"`
	RequestID int    `json:"requestId"`
	SortBy    string `json:"sortBy"`
	Dir       string `json:"dir"`
}

type wsMessage struct {
	RequestID int            `json:"requestId"`
	Items     []browse.Entry `json:"items"`
}

const wsChunkSize = 10

// handleWebSocket streams directory listings in chunks of ten entries.
// An empty items message signals the end of a listing.
func (s *server) handleWebSocket(c *websocket.Conn) {
	defer c.Close()

	s.log.Debug("websocket connected")

	for {
		var req wsRequest
		if err := c.ReadJSON(&req); err != nil {
			s.log.Debug("websocket closed", zap.Error(err))
			return
		}

		safePath := browse.CleanPath(req.Path)
		items := s.listingFor(safePath, req.SortBy, req.Dir)

		for i := 0; i < len(items); i += wsChunkSize {
			end := min(i+wsChunkSize, len(items))
			msg := wsMessage{RequestID: req.RequestID, Items: items[i:end]}
			if err := c.WriteJSON(msg); err != nil {
				s.log.Debug("websocket write failed", zap.Error(err))
				return
			}
		}

		done := wsMessage{RequestID: req.RequestID, Items: []browse.Entry{}}
		if err := c.WriteJSON(done); err != nil {
			s.log.Debug("websocket write failed", zap.Error(err))
			return
		}
	}
}

// listingFor returns directory contents re-sorted per the client's
// request. The cached slice is copied before sorting so concurrent
// readers keep the default order.
func (s *server) listingFor(safePath, sortBy, dir string) []browse.Entry {
	entries, err := s.model.Contents(safePath)
	if err != nil {
		s.log.Debug("websocket listing failed", zap.String("path", safePath), zap.Error(err))
		return nil
	}

	items := make([]browse.Entry, len(entries))
	copy(items, entries)

	desc := dir == "desc"
	switch sortBy {
	case "size":
		sort.SliceStable(items, func(i, j int) bool {
			if desc {
				return items[i].SizeBytes > items[j].SizeBytes
			}
			return items[i].SizeBytes < items[j].SizeBytes
		})
	default:
		if desc {
			sort.SliceStable(items, func(i, j int) bool {
				return strings.ToLower(items[i].Name) > strings.ToLower(items[j].Name)
			})
		}
	}
	return items
}
