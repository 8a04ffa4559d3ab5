package identity

import (
	"encoding/json"
	"strings"
)

// providerMessage picks the human readable part of an error body. GoTrue
// has used several shapes over time.
func providerMessage(body string) string {
	var payload struct {
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
		Message          string `json:"message"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil {
		for _, m := range []string{payload.Msg, payload.ErrorDescription, payload.Message, payload.Error} {
			if m != "" {
				return m
			}
		}
	}
	return strings.TrimSpace(body)
}
