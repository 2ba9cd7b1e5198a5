package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs wires an upgraded connection into the hub. It blocks until the
// connection drops, so Fiber keeps the handler goroutine alive for us.
func ServeWs(hub *Hub, conn *websocket.Conn) {
	client := &Client{
		Hub:  hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
