// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"sync"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/friend-decider/models"
)

// TestConcurrentItemAdds verifies that simultaneous mutations from many
// connections are serialized per session: nothing is lost, nothing is
// duplicated, and every connection sees every broadcast.
func TestConcurrentItemAdds(t *testing.T) {
	server, reg := newChannelServer(t)
	s := reg.Create("creator-id", "Alice", "ip", "Storm", false)

	const numClients = 5

	conns := make([]*websocket.Conn, numClients)
	conns[0] = joinCreator(t, server, s.ID(), "creator-id")
	for i := 1; i < numClients; i++ {
		conns[i] = dialSession(t, server, s.ID())
		sendMessage(t, conns[i], models.ClientMessage{
			Type: models.MsgJoin,
			Name: fmt.Sprintf("Guest%d", i),
		})
		expectType(t, conns[i], models.MsgState)
	}

	// Every earlier connection has one pending participant-joined per
	// later join
	for i := 0; i < numClients; i++ {
		for j := i + 1; j < numClients; j++ {
			expectType(t, conns[i], models.MsgParticipantJoined)
		}
	}

	// All clients add distinct items at once
	var wg sync.WaitGroup
	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			conns[idx].WriteJSON(models.ClientMessage{
				Type: models.MsgAddItem,
				Text: fmt.Sprintf("Item %d", idx),
			})
		}(i)
	}
	wg.Wait()

	// Each connection receives exactly one item-added per add, in some
	// interleaving, with no errors mixed in
	for i := 0; i < numClients; i++ {
		seen := make(map[string]bool)
		for j := 0; j < numClients; j++ {
			msg := expectType(t, conns[i], models.MsgItemAdded)
			if msg.Item == nil {
				t.Fatalf("item-added without item on conn %d", i)
			}
			if seen[msg.Item.Text] {
				t.Errorf("Duplicate broadcast of %q on conn %d", msg.Item.Text, i)
			}
			seen[msg.Item.Text] = true
		}
	}

	state := s.Snapshot()
	if len(state.Items) != numClients {
		t.Errorf("Expected %d items in the session, got %d", numClients, len(state.Items))
	}
}
