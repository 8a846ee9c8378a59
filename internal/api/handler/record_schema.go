package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// createRecordRequest is the submission payload, shared by the HTTP endpoint
// and the asynchronous "new_record" WebSocket frame. Deadline accepts either
// RFC 3339 or a bare YYYY-MM-DD date.
type createRecordRequest struct {
	InitiatorName string `json:"initiatorName" validate:"required"`
	Name          string `json:"name"          validate:"required"`
	Description   string `json:"description"   validate:"required"`
	Type          string `json:"type"          validate:"required,oneof=Marketing Development Design Internal"`
	Product       string `json:"product"       validate:"required"`
	Status        string `json:"status"        validate:"omitempty,oneof=New 'In Progress' 'In Review' Done"`
	Deadline      string `json:"deadline"      validate:"required"`
	AssignedTo    string `json:"assignedTo"`
}

// recordResponse is the transport view of a stored record. Priority is
// derived from the deadline at response time and never persisted.
type recordResponse struct {
	ID            string    `json:"id"`
	InitiatorName string    `json:"initiatorName"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	Product       string    `json:"product"`
	Status        string    `json:"status"`
	Deadline      time.Time `json:"deadline"`
	AssignedTo    string    `json:"assignedTo,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	Priority      string    `json:"priority"`
}

type listRecordsResponse struct {
	Data []recordResponse `json:"data"`
}

// wsErrorPayload is the data carried by an "error" frame sent to the
// submitting session when an asynchronous submission is rejected.
type wsErrorPayload struct {
	Message string `json:"message"`
}
