package gateway

import (
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transport is the send-and-await-reply surface a Client drives. Satisfied by
// *Session; tests substitute an in-memory fake.
type Transport interface {
	SendAndReceive(request []byte) ([]byte, bool)
}

// envelope is the wire format of one request. request_id is a fresh token per
// call, used by the exchange for correlation auditing and idempotency; the
// client does not verify the reply echoes it (replies arrive in strict
// alternation on a dedicated session).
type envelope struct {
	Command   string `json:"command"`
	Payload   string `json:"payload"`
	RequestID string `json:"request_id"`
}

type replyEnvelope struct {
	Result json.RawMessage `json:"result"`
}

// Client frames commands into the wire envelope, submits them through a
// Transport and unwraps the reply's result. It never retries: retry policy
// belongs to the orchestrator.
type Client struct {
	transport Transport
	log       *zap.Logger
}

func NewClient(transport Transport, log *zap.Logger) *Client {
	return &Client{transport: transport, log: log}
}

// Call submits one command with an optional JSON-encoded payload and returns
// the raw result value. Transport failure or a reply without a result key
// yields (nil, false); no error crosses this boundary as a raised fault.
func (c *Client) Call(command, payload string) (json.RawMessage, bool) {
	req := envelope{
		Command:   command,
		Payload:   payload,
		RequestID: uuid.NewString(),
	}
	raw, err := json.Marshal(req)
	if err != nil {
		c.log.Error("encode request failed", zap.String("command", command), zap.Error(err))
		return nil, false
	}

	c.log.Debug("sending request",
		zap.String("command", command), zap.String("request_id", req.RequestID))
	reply, ok := c.transport.SendAndReceive(raw)
	if !ok {
		return nil, false
	}

	var parsed replyEnvelope
	if err := json.Unmarshal(reply, &parsed); err != nil {
		c.log.Error("decode reply failed",
			zap.String("command", command), zap.Error(err), zap.ByteString("raw", reply))
		return nil, false
	}
	if parsed.Result == nil {
		c.log.Error("reply has no result",
			zap.String("command", command), zap.ByteString("raw", reply))
		return nil, false
	}
	return parsed.Result, true
}
