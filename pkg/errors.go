// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// errors.New() ile sabit error değişkenleri tanımlarız, karşılaştırma
// string yerine referans ile yapılır:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
package pkg

import "errors"

// Domain-level error'lar.
// Handler katmanı bu error'ları HTTP status code'larına map'ler.
// Service katmanı bunları döner (genelde fmt.Errorf("%w: ...") ile sarılı), handler yakalar.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrBadRequest      = errors.New("bad request")
	ErrTooManyRequests = errors.New("too many requests")
	ErrUpstream        = errors.New("upstream service error")
	ErrInternal        = errors.New("internal error")
)
