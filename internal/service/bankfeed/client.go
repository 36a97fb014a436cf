package bankfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"LiqCast/internal/domain/models"
	drepo "LiqCast/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a BookingStream backed by a bank aggregation WebSocket.
type Client struct {
	apiKey         string
	websocketURL   string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a new bank feed BookingStream.
func New(apiKey, websocketURL string, reconnectDelay, pingInterval time.Duration) drepo.BookingStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("bankfeed connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("bankfeed: connected")
	return nil
}

// Subscribe requests the booking event stream.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("bankfeed not connected")
	}
	msg := map[string]string{"type": "subscribe", "channel": "bookings"}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe bookings: %w", err)
	}
	log.Printf("bankfeed: subscribed bookings")
	return nil
}

type feedBooking struct {
	ID           string  `json:"id"`
	BookedAt     string  `json:"booked_at"` // RFC 3339
	Amount       float64 `json:"amount"`
	Account      int     `json:"account"`
	Counterparty string  `json:"counterparty"`
	Description  string  `json:"description"`
}

type feedMessage struct {
	Type string        `json:"type"`
	Data []feedBooking `json:"data"`
}

// Read streams Booking events and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.Booking, <-chan error) {
	bookings := make(chan *models.Booking, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(bookings)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("bankfeed conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("bankfeed read: %w", err)
					return
				}
				var m feedMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-booking frames
					continue
				}
				if m.Type != "booking" {
					continue
				}
				for _, d := range m.Data {
					booked, err := time.Parse(time.RFC3339, d.BookedAt)
					if err != nil {
						continue
					}
					booking := &models.Booking{
						EventID:      d.ID,
						BookedAt:     booked,
						Amount:       d.Amount,
						Account:      d.Account,
						Counterparty: d.Counterparty,
						Description:  d.Description,
					}
					select {
					case bookings <- booking:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return bookings, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
