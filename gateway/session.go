package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// authHeader is the JSON body of the API-Data handshake header.
type authHeader struct {
	APIKey  string `json:"api_key"`
	APISign string `json:"api_sign"`
}

// Session owns one authenticated websocket connection to a single private
// endpoint. Request/reply pairing relies on strict alternation: one write,
// then one read. A Session must not be driven by more than one caller at a
// time; the bot dedicates one session to order control and one to status
// queries, so no locking is needed.
type Session struct {
	conn *websocket.Conn
	url  string
	log  *zap.Logger
}

// Dial performs the authenticated handshake against baseURL+uri. The caller
// treats a returned error as fatal: a bot with no control channel cannot
// safely operate, so there is no retry and no degraded mode.
func Dial(baseURL, uri, apiKey, apiSecret string, timeout time.Duration, log *zap.Logger) (*Session, error) {
	raw, err := json.Marshal(authHeader{APIKey: apiKey, APISign: Sign(apiSecret)})
	if err != nil {
		return nil, fmt.Errorf("encode auth header: %w", err)
	}
	header := http.Header{}
	header.Set("API-Data", string(raw))

	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	url := baseURL + uri
	log.Debug("opening ws connection", zap.String("url", url))
	conn, resp, err := dialer.Dial(url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("ws handshake %s: %w (http %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("ws handshake %s: %w", url, err)
	}
	log.Debug("ws connection established", zap.String("url", url))
	return &Session{conn: conn, url: url, log: log}, nil
}

// SendAndReceive writes one framed message and blocks until one reply is read
// from the same socket. Write failure, read failure and a non-JSON reply are
// all recoverable here: the method reports failure instead of failing the
// process so the orchestrating loop can skip the cycle and continue.
func (s *Session) SendAndReceive(request []byte) ([]byte, bool) {
	if err := s.conn.WriteMessage(websocket.TextMessage, request); err != nil {
		s.log.Error("ws write failed", zap.String("url", s.url), zap.Error(err))
		return nil, false
	}
	_, reply, err := s.conn.ReadMessage()
	if err != nil {
		s.log.Error("ws read failed", zap.String("url", s.url), zap.Error(err))
		return nil, false
	}
	if !json.Valid(reply) {
		s.log.Error("ws reply is not valid json",
			zap.String("url", s.url), zap.ByteString("raw", reply))
		return nil, false
	}
	return reply, true
}

// Close tears down the underlying connection.
func (s *Session) Close() error {
	return s.conn.Close()
}
