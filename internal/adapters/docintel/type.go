package docintel

import "github.com/cp25sy5-modjot/blob-ocr/internal/domain"

// Operation states reported by the analyze poll endpoint.
const (
	StatusNotStarted = "notStarted"
	StatusRunning    = "running"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

type AnalyzeOperation struct {
	Status          string                `json:"status"`
	CreatedDateTime string                `json:"createdDateTime"`
	LastUpdated     string                `json:"lastUpdatedDateTime"`
	Result          *domain.AnalyzeResult `json:"analyzeResult"`
	Error           *ServiceError         `json:"error"`
}

type ServiceError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Target     string         `json:"target,omitempty"`
	Details    []ServiceError `json:"details,omitempty"`
	InnerError *ServiceError  `json:"innererror,omitempty"`
}

func (e *ServiceError) String() string {
	if e == nil {
		return "unknown error"
	}
	s := e.Code + ": " + e.Message
	if e.InnerError != nil && e.InnerError.Message != "" {
		s += " (" + e.InnerError.Code + ": " + e.InnerError.Message + ")"
	}
	return s
}
