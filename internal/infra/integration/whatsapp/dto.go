package whatsapp

type SendMessageInput struct {
	PhoneNumber  string   // Ex: "351912345678"
	TemplateName string   // Ex: "conversion_followup"
	Parameters   []string // Ex: []string{"Ana Silva"}
}

type SendMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Contacts []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Error *ErrorResponse `json:"error"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}
