package domain

// TokenAccount is the account identity embedded in an access token
type TokenAccount struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Names string `json:"names"`
	Email string `json:"email"`
}

// TokenPayload is the private part of the access token
type TokenPayload struct {
	Session      string       `json:"session"`
	Account      TokenAccount `json:"account"`
	Store        string       `json:"store"`
	Subscription string       `json:"subscription,omitempty"`
}
