package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// ErrorResponse, tüm hata yanıtları için standart format.
// Frontend her zaman "success" alanına bakar.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// JSON, başarılı bir yanıt gönderir.
// body, "success" alanını kendisi taşıyan düz (flat) bir struct veya map olmalıdır.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// OK, sadece {"success": true} döner.
func OK(w http.ResponseWriter) {
	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Error, hata yanıtı gönderir.
// Domain error'ları otomatik olarak uygun HTTP status code'a çevrilir.
func Error(w http.ResponseWriter, err error) {
	ErrorWithMessage(w, mapErrorToStatus(err), publicMessage(err))
}

// ErrorWithMessage, özel mesajlı hata yanıtı gönderir.
func ErrorWithMessage(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Success: false, Error: message})
}

// mapErrorToStatus, domain error'ları HTTP status code'larına eşler.
// errors.Is() wrap edilmiş error'ları da doğru match eder.
// Upstream (mail relay, ödeme gateway, DB) hataları 500 olarak raporlanır.
func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage, "bad request: missing fields: name" gibi sarılı mesajlardan
// sentinel prefix'ini atar. Upstream ve sınıflandırılmamış hataların detayı
// dışarıya sızdırılmaz; detay service katmanında loglanır.
func publicMessage(err error) string {
	for _, sentinel := range []error{ErrNotFound, ErrAlreadyExists, ErrUnauthorized, ErrBadRequest, ErrTooManyRequests} {
		if errors.Is(err, sentinel) {
			msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
			if msg == "" {
				return sentinel.Error()
			}
			return msg
		}
	}
	if errors.Is(err, ErrUpstream) {
		return ErrUpstream.Error()
	}
	return ErrInternal.Error()
}
