package api

import "fmt"

// Message roles, as the backend tags them.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Session is a named, persisted conversation thread tied to a user.
// The backend assigns both the id and the name on creation.
type Session struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"user_id"`
}

// Message is one turn in a thread, tagged with its speaker role.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Voice is a selectable speech-synthesis timbre.
type Voice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type createSessionRequest struct {
	Name   string `json:"name"`
	UserID string `json:"user_id"`
}

type chatRequest struct {
	Message string    `json:"message"`
	History []Message `json:"history"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type speakRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// HTTPError is returned for any non-2xx backend response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend request failed: status=%d body=%s", e.StatusCode, e.Body)
}
