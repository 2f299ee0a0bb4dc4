package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
)

// ServerStatus is pushed to teacher/admin dashboards on every heartbeat or
// lobby upsert, so the dashboard does not have to poll /server/list.
type ServerStatus struct {
	PublicID      string    `json:"public_id"`
	Name          string    `json:"name"`
	IP            string    `json:"ip"`
	Port          int       `json:"port"`
	PlayerCount   int       `json:"player_count"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
}

// LobbyHub fans server registry events out to connected dashboard clients.
type LobbyHub struct {
	register   chan *lobbyClient
	unregister chan *lobbyClient
	broadcast  chan []byte
	clients    map[*lobbyClient]struct{}
}

func NewLobbyHub() *LobbyHub {
	return &LobbyHub{
		register:   make(chan *lobbyClient),
		unregister: make(chan *lobbyClient),
		broadcast:  make(chan []byte, 256),
		clients:    make(map[*lobbyClient]struct{}),
	}
}

func (h *LobbyHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				client.conn.Close()
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow client; drop it rather than block the hub.
					delete(h.clients, client)
					close(client.send)
					client.conn.Close()
				}
			}
		}
	}
}

// Broadcast pushes a status payload to all connected clients. Safe on a nil
// hub so callers don't need to care whether the feed is wired.
func (h *LobbyHub) Broadcast(status ServerStatus) {
	if h == nil {
		return
	}
	data, err := json.Marshal(status)
	if err != nil {
		log.Printf("ws: failed to marshal server status: %v", err)
		return
	}
	h.broadcast <- data
}

type lobbyClient struct {
	hub  *LobbyHub
	conn *websocket.Conn
	send chan []byte
}

func newLobbyClient(hub *LobbyHub, conn *websocket.Conn) *lobbyClient {
	return &lobbyClient{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

func (c *lobbyClient) readPump() {
	defer func() {
		c.hub.unregister <- c
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *lobbyClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
