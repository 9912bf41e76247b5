package storage

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// HTTPStatus memetakan error uploader ke status HTTP (413/415/400, sisanya 502).
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnsupportedType):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, ErrEmptyFile):
		return fiber.StatusBadRequest
	}
	return fiber.StatusBadGateway
}
