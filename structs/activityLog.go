package structs

type ActivityLogJsonModel struct {
	Type     string       `json:"type"`
	Username string       `json:"username,omitempty"`
	TaskID   uint         `json:"task_id,omitempty"`
	Result   bool         `json:"result"`
	Message  string       `json:"message"`
	Messages []ErrorModel `json:"messages,omitempty"`
}

type ErrorModel struct {
	Username     string `json:"username,omitempty"`
	Stage        string `json:"stage,omitempty"`
	ErrorMessage string `json:"error_message"`
}
