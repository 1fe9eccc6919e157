package websocket

import "github.com/contoso/university/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is the only message a feed client sends.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError  Event = "error"
	EventCourse Event = "course"
	EventPong   Event = "pong"
)

// CourseEventMessage forwards one committed course mutation.
type CourseEventMessage struct {
	Event  Event             `json:"event"`
	Course model.CourseEvent `json:"course"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
