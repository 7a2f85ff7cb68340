package dto

// CreateTodoRequest is bound from a JSON body or an HTML form.
type CreateTodoRequest struct {
	Description string `json:"description" form:"description" binding:"required,max=1000"`
}

// UpdateTodoRequest is bound from a JSON body or an HTML form
// (completed=true|false).
type UpdateTodoRequest struct {
	Completed *bool `json:"completed" form:"completed" binding:"required"`
}

type TodoResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type ListTodosResponse struct {
	Items []TodoResponse `json:"items"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
