package types

type PainLogRequest struct {
	BodyPart string `json:"body_part"`
	Level    *int   `json:"level"`
}

type PainLogResponse struct {
	Status   string `json:"status"`
	ID       string `json:"id"`
	Severity string `json:"severity"`
}
