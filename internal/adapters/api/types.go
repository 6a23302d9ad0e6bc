package api

// Response wraps every successful result
type Response struct {
	Result interface{} `json:"result"`
}

// ErrorResponse wraps every failure
type ErrorResponse struct {
	Error string `json:"error"`
}

// PredictRequest is the object form of a predict body. A bare JSON string is accepted too.
type PredictRequest struct {
	Message string `json:"message"`
}

// HealthStatus reports liveness and whether a model is installed
type HealthStatus struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"modelLoaded"`
}
