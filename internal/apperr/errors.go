package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Servis katmanının döndürdüğü hata kategorileri. Handler'lar bunları
// errors.Is ile HTTP durum kodlarına çevirir; kategori dışı her hata 500'dür.
var (
	ErrValidation        = errors.New("geçersiz istek")
	ErrNotFound          = errors.New("kayıt bulunamadı")
	ErrConflict          = errors.New("kayıt çakışması")
	ErrInsufficientStock = errors.New("yetersiz stok")
)

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrInsufficientStock):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// ToFiber: Servis hatasını fiber.Error'a çevirir. Beklenmeyen hataların
// detayı istemciye sızdırılmaz.
func ToFiber(err error) error {
	status := HTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		return fiber.NewError(status, "Beklenmeyen sunucu hatası")
	}
	return fiber.NewError(status, err.Error())
}
