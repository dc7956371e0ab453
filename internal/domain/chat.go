package domain

// AskRequest is the request body of POST /ask. Text is a pointer so a
// missing field can be told apart from an empty question.
type AskRequest struct {
	Text *string `json:"text"`
}

// AskResponse is the response body of POST /ask
type AskResponse struct {
	Answer string `json:"answer"`
}

// ErrorResponse is the body returned on failure
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Turn is one request-scoped question/answer exchange. It is never persisted.
type Turn struct {
	Question string
	Context  string
	Answer   string
}
