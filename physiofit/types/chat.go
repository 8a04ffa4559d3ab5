// physiofit/types/chat.go
package types

// ChatMessage is one turn of the client-held history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat. Messages is a pointer so a
// missing field can be told apart from an empty list.
type ChatRequest struct {
	Messages *[]ChatMessage `json:"messages"`
}

type ChatReply struct {
	Reply string `json:"reply"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
