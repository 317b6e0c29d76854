package session

// Status is the one-line message shown under the board.
type Status string

const (
	StatusConnecting   Status = "Connecting..."
	StatusYourMove     Status = "Your move"
	StatusAwaitAck     Status = "Waiting for the opponent to accept"
	StatusTheirMove    Status = "Opponent to move"
	StatusRejected     Status = "Opponent proposed an illegal move"
	StatusCheckmate    Status = "Checkmate"
	StatusDisconnected Status = "Connection closed"
)
