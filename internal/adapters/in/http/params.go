package http

import (
	"dispatch/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

func pathDate(c echo.Context, name string) (kernel.Date, error) {
	var date openapi_types.Date
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &date,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return kernel.Date{}, err
	}
	return kernel.DateFromTime(date.Time), nil
}

func queryDate(c echo.Context, name string) (kernel.Date, error) {
	var date openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, true, name, c.QueryParams(), &date); err != nil {
		return kernel.Date{}, err
	}
	return kernel.DateFromTime(date.Time), nil
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromGoogle(id)
}

func optionalQueryBool(c echo.Context, name string, fallback bool) (bool, error) {
	var v *bool
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), &v); err != nil {
		return false, err
	}
	if v == nil {
		return fallback, nil
	}
	return *v, nil
}
