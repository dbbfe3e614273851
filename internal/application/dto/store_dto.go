package dto

// ResetResponse respuesta de POST /cleanup.
type ResetResponse struct {
	Success   bool   `json:"success"`
	StoreName string `json:"store_name"`
	Message   string `json:"message"`
}

// StoreStatusResponse respuesta de GET /status.
type StoreStatusResponse struct {
	Success   bool   `json:"success"`
	Ready     bool   `json:"ready"`
	StoreName string `json:"store_name,omitempty"`
}
