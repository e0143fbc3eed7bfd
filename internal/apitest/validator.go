package apitest

import (
	"net/http"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

type echoValidator struct {
	v *validator.Validate
}

func newEchoValidator() *echoValidator {
	return &echoValidator{v: validator.New()}
}

func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var items []detailItem
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				items = append(items, detailItem{
					Loc: []any{"body", fe.Field()},
					Msg: "failed on the '" + fe.Tag() + "' rule",
				})
			}
		}
		return &listError{status: http.StatusUnprocessableEntity, items: items}
	}
	return nil
}

type detailItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// listError renders as a FastAPI validation failure.
type listError struct {
	status int
	items  []detailItem
}

func (e *listError) Error() string { return "validation failed" }

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	switch e := err.(type) {
	case *listError:
		_ = c.JSON(e.status, map[string]any{"detail": e.items})
	case *echo.HTTPError:
		_ = c.JSON(e.Code, map[string]any{"detail": e.Message})
	default:
		_ = c.JSON(http.StatusInternalServerError, map[string]any{"detail": "Internal Server Error"})
	}
}
