// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Service katmanı bu sentinel'leri fmt.Errorf("%w: ...") ile sarar,
// handler katmanı errors.Is ile yakalayıp HTTP status'a çevirir:
//
//	if errors.Is(err, pkg.ErrConflict) { ... }
//
// Altyapı hataları (sql, io) bu sentinel'lere map'lenmez: olduğu gibi yukarı taşınır.
package pkg

import "errors"

// Domain-level error'lar.
var (
	// ErrNotFound: referans verilen kayıt/hedef yok (ör: hiç verilmemiş bir ban'ı kaldırmak).
	ErrNotFound = errors.New("not found")

	// ErrConflict: işlem bir state invariant'ını ihlal ediyor
	// (ör: aktif ban süresi dolmamış hedefe tekrar uyarı vermek).
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized: kayıt çağırana ait değil (ör: başkasının bildirimini okundu yapmak).
	ErrUnauthorized = errors.New("unauthorized")

	ErrForbidden   = errors.New("forbidden")
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limited")
	ErrInternal    = errors.New("internal error")
)
