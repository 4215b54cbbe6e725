package model

import "time"

// Generation is the outcome of one lead generation request.
type Generation struct {
	ID               int64
	Product          string
	Customers        string
	Model            string
	Content          string // section of the completion returned to the caller
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
	CreatedAt        time.Time
}
