package api

// ServerError is a logical failure reported by the server (success=false).
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}
