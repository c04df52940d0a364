package types

// GenerateResponse is the body returned by POST /generate.
type GenerateResponse struct {
	Output  string `json:"output"`
	Summary string `json:"summary"`
}

// TranscriptMessage is one turn in the history transcript. Image parts are
// rendered as a placeholder, so content here is display text only.
type TranscriptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HistoryResponse is the body returned by GET /history.
type HistoryResponse struct {
	Messages []TranscriptMessage `json:"messages"`
}

// ResetResponse is the body returned by POST /reset-session.
type ResetResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
