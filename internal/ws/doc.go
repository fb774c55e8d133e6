// Package ws streams stamp events to WebSocket clients.
//
// Hub.Publish fans one journal.Entry out to every connected client; a new
// client receives a backlog of recent stamps on connect. Slow clients are
// dropped instead of back-pressuring the stamper. Standard ping/pong
// keepalive applies.
package ws
