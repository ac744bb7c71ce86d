package api

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is used for endpoints that have nothing else to return.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// UploadResponse wraps the public URL of a stored image together with the
// record it was attached to.
type UploadResponse struct {
	URL    string      `json:"url"`
	Record interface{} `json:"record"`
}
