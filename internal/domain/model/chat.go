package model

// Route is the answering strategy chosen for a chat question.
type Route string

const (
	// RouteDirect answers from the farm profile alone.
	RouteDirect Route = "DIRECT"
	// RouteSearch answers from retrieved knowledge passages.
	RouteSearch Route = "SEARCH"
)

// Passage is a retrieved knowledge chunk.
type Passage struct {
	ID      string  `json:"id"`
	Source  string  `json:"source"`
	Page    int     `json:"page"`
	Content string  `json:"content"`
	Rank    float64 `json:"rank"`
}

// ChatAnswer is the reply to a chat question.
//
// @Description Chat answer
type ChatAnswer struct {
	Answer  string   `json:"answer"`
	Routing Route    `json:"routing" example:"SEARCH"`
	Sources []string `json:"sources"`
}
