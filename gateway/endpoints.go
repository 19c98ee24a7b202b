package gateway

// Private websocket endpoints under the exchange base host. Each requires
// its own authenticated session.
const (
	DefaultBaseURL = "wss://api.bitwyre.com"

	URIOrderControl = "/ws/private/orders/control"
	URIOrderStatus  = "/ws/private/orders/status"
)

// Commands accepted on the private order channels.
const (
	CmdCreateOrder = "create"
	CmdCancelOrder = "cancel"
	CmdGetOrder    = "get"
)
