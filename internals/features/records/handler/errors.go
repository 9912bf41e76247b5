// file: internals/features/records/handler/errors.go
package handler

import (
	"errors"

	"eduarchive_backend/internals/features/records/wizard"
	helper "eduarchive_backend/internals/helpers"
	"eduarchive_backend/internals/helpers/storage"

	"github.com/gofiber/fiber/v2"
)

// writeError memetakan error engine ke envelope JSON. data opsional (state sesi terakhir).
func writeError(c *fiber.Ctx, err error, data any) error {
	var (
		gate   *wizard.StepGateError
		upload *wizard.UploadError
		sub    *wizard.SubmissionError
		fe     *fiber.Error
	)
	switch {
	case errors.As(err, &gate):
		return helper.JsonFieldErrors(c, gate.Error(), gate.Fields, data)

	case errors.As(err, &sub):
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(sub.Err, wizard.ErrDuplicate):
			status = fiber.StatusConflict
		case errors.Is(sub.Err, wizard.ErrRecordNotFound):
			status = fiber.StatusNotFound
		case sub.Stage == wizard.StageUpload:
			status = fiber.StatusBadGateway
		}
		return helper.JsonErrorWithData(c, status, sub.Error(), data)

	case errors.As(err, &upload):
		return helper.JsonErrorWithData(c, storage.HTTPStatus(upload.Err), upload.Error(), data)

	case errors.Is(err, wizard.ErrSessionNotFound), errors.Is(err, wizard.ErrRecordNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())

	case errors.Is(err, wizard.ErrNotLastStep),
		errors.Is(err, wizard.ErrSubmitInFlight),
		errors.Is(err, wizard.ErrDuplicate):
		return helper.JsonErrorWithData(c, fiber.StatusConflict, err.Error(), data)

	case errors.Is(err, wizard.ErrInvalidStep),
		errors.Is(err, wizard.ErrUnknownField),
		errors.Is(err, wizard.ErrBadPatch):
		return helper.JsonErrorWithData(c, fiber.StatusBadRequest, err.Error(), data)

	case errors.As(err, &fe):
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
}
