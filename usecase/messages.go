package usecase

import (
	"errors"

	"github.com/Hung484/todo-app-frontend-1234/transport"
	"github.com/Hung484/todo-app-frontend-1234/utils"
)

// userMessage picks what a form shows for err: the local validation message,
// the API's message, or fallback.
func userMessage(err error, fallback string) string {
	var inputErr *utils.InputError
	if errors.As(err, &inputErr) {
		return inputErr.Message()
	}
	if msg := transport.MessageOf(err); msg != "" {
		return msg
	}
	return fallback
}
