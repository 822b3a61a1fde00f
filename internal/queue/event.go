// Package queue defines message payloads exchanged over the message broker.
package queue

// TodoCompletedEvent is published when a todo transitions to the completed
// status. It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type TodoCompletedEvent struct {
    TodoID      uint64  `json:"todo_id"`
    UserID      uint64  `json:"user_id"`
    Username    string  `json:"username"`
    Title       string  `json:"title"`
    DueDate     *string `json:"due_date,omitempty"`
    CompletedAt string  `json:"completed_at"`
}
