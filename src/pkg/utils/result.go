package utils

// Result is what every use case returns to its controller.
type Result struct {
	Data  interface{}
	Error error
}
