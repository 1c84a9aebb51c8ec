package dto

type ChatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=4000"`
}

type PatientChatRequest struct {
	PatientID string `json:"patient_id" validate:"required,uuid"`
	Message   string `json:"message" validate:"required,min=1,max=4000"`
}

type ContextualChatRequest struct {
	PatientID string `json:"patient_id" validate:"required,uuid"`
	Question  string `json:"question" validate:"required,min=1,max=4000"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}
