// pkg/websocket/hub.go
package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"elearn/internal/auth"
	"elearn/internal/models"
)

// Message is the frame pushed to result-feed subscribers.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins. Adjust this in production!
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// QuizOwnership gates feed subscriptions: only the instructor who owns a
// quiz may watch its results.
type QuizOwnership interface {
	IsQuizOwner(quizID, instructorID uint) (bool, error)
}

// Hub fans attempt summaries out to instructors watching a quiz's results.
// It is strictly one-way: subscribers receive frames and send nothing.
type Hub struct {
	rooms      map[uint]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	ownership  QuizOwnership
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) SetOwnership(ownership QuizOwnership) {
	h.ownership = ownership
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	quizID uint
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.quizID] == nil {
				h.rooms[client.quizID] = make(map[*Client]bool)
			}
			h.rooms[client.quizID][client] = true
			h.mu.Unlock()
			log.Printf("Instructor subscribed to results for quiz %d", client.quizID)

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.quizID]; ok {
				if _, ok := room[client]; ok {
					delete(room, client)
					close(client.send)
					if len(room) == 0 {
						delete(h.rooms, client.quizID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// HandleResultsFeed upgrades GET /ws/results/{quizId}. The route sits behind
// the JWT middleware, so the instructor identity comes from the context.
func (h *Hub) HandleResultsFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		models.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	quizID64, err := strconv.ParseUint(mux.Vars(r)["quizId"], 10, 32)
	if err != nil {
		models.WriteError(w, http.StatusBadRequest, "Invalid quiz ID")
		return
	}
	quizID := uint(quizID64)

	if h.ownership == nil {
		models.WriteError(w, http.StatusInternalServerError, "Result feed not configured")
		return
	}
	owner, err := h.ownership.IsQuizOwner(quizID, userID)
	if err != nil {
		models.WriteError(w, http.StatusNotFound, "Quiz not found")
		return
	}
	if !owner {
		models.WriteError(w, http.StatusForbidden, "Permission denied")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading results feed for quiz %d: %v", quizID, err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 16),
		quizID: quizID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// PublishResult sends an attempt summary to every subscriber of the quiz.
// Slow subscribers are dropped rather than blocking the submission path.
func (h *Hub) PublishResult(quizID uint, data interface{}) {
	payload, err := json.Marshal(Message{Type: "attempt", Data: data})
	if err != nil {
		log.Printf("Error marshaling result for quiz %d: %v", quizID, err)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[quizID]))
	for client := range h.rooms[quizID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- payload:
		default:
			h.unregister <- client
		}
	}
}

// readPump discards inbound frames; it exists to run the pong handler and to
// notice the peer going away.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
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

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
