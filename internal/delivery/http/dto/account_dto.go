package dto

import "cfohelper/internal/domain"

// CredentialsRequest is the body of /signup and /login
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SaveHistoryRequest is the body of /save-history
type SaveHistoryRequest struct {
	Username string              `json:"username"`
	Entry    domain.HistoryEntry `json:"entry"`
}

// GetHistoryRequest is the body of /get-history
type GetHistoryRequest struct {
	Username string `json:"username"`
}

// MessageResponse carries a human-readable outcome
type MessageResponse struct {
	Message string `json:"message"`
}

// HistoryResponse carries a user's history, newest first
type HistoryResponse struct {
	History []domain.HistoryEntry `json:"history"`
}
