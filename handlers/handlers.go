// Package handlers, HTTP request/response katmanı.
//
// Handler'lar incedir: body'yi parse eder, service'i çağırır, sonucu JSON
// olarak yazar. İş kuralı ve storage erişimi service katmanındadır.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxBodyBytes, JSON body üst sınırı.
const maxBodyBytes = 1 << 20

// errInvalidBody, body JSON olarak parse edilemediğinde döner.
var errInvalidBody = errors.New("invalid request body")

// decodeJSON, body'yi dst'ye parse eder. Boş body geçerlidir ve dst'yi
// sıfır değerinde bırakır; eksik alanlar validation'da yakalanır.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}
