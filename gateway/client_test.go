package gateway

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeTransport struct {
	requests [][]byte
	reply    []byte
	ok       bool
}

func (f *fakeTransport) SendAndReceive(request []byte) ([]byte, bool) {
	f.requests = append(f.requests, request)
	return f.reply, f.ok
}

func TestCallFramesEnvelope(t *testing.T) {
	tr := &fakeTransport{reply: []byte(`{"result":{"orderid":"abc"}}`), ok: true}
	c := NewClient(tr, zap.NewNop())

	result, ok := c.Call(CmdCreateOrder, `{"instrument":"btc_usdt_spot"}`)
	if !ok {
		t.Fatal("expected success")
	}
	if string(result) != `{"orderid":"abc"}` {
		t.Fatalf("unexpected result: %s", result)
	}

	var env struct {
		Command   string `json:"command"`
		Payload   string `json:"payload"`
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(tr.requests[0], &env); err != nil {
		t.Fatalf("request is not json: %v", err)
	}
	if env.Command != CmdCreateOrder {
		t.Fatalf("command = %q", env.Command)
	}
	if env.Payload != `{"instrument":"btc_usdt_spot"}` {
		t.Fatalf("payload = %q", env.Payload)
	}
	if _, err := uuid.Parse(env.RequestID); err != nil {
		t.Fatalf("request_id %q is not a uuid: %v", env.RequestID, err)
	}
}

func TestCallRequestIDsAreFresh(t *testing.T) {
	tr := &fakeTransport{reply: []byte(`{"result":[]}`), ok: true}
	c := NewClient(tr, zap.NewNop())

	c.Call(CmdGetOrder, "")
	c.Call(CmdGetOrder, "")

	ids := make(map[string]bool)
	for _, raw := range tr.requests {
		var env struct {
			RequestID string `json:"request_id"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("request is not json: %v", err)
		}
		ids[env.RequestID] = true
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 distinct request ids, got %d", len(ids))
	}
}

func TestCallTransportFailure(t *testing.T) {
	tr := &fakeTransport{ok: false}
	c := NewClient(tr, zap.NewNop())
	if result, ok := c.Call(CmdGetOrder, ""); ok || result != nil {
		t.Fatalf("expected (nil, false), got (%s, %v)", result, ok)
	}
}

func TestCallMalformedReply(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"no result key", `{"error":"nope"}`},
		{"wrong shape", `[1,2,3]`},
		{"null result", `{"result":null}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := &fakeTransport{reply: []byte(tc.reply), ok: true}
			c := NewClient(tr, zap.NewNop())
			if _, ok := c.Call(CmdCancelOrder, ""); ok {
				t.Fatalf("reply %q must report failure", tc.reply)
			}
		})
	}
}
