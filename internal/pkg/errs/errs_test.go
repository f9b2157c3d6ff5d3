package errs_test

import (
	"errors"
	"testing"

	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause only the id is reported", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("runId", "7f1c")

		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 7f1c", err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("with cause the param and cause are reported", func(t *testing.T) {
		cause := errors.New("record not found")
		err := errs.NewObjectNotFoundErrorWithCause("driverId", "d-1", cause)

		assert.Equal(t,
			"object not found: param is: driverId, ID is: d-1 (cause: record not found)",
			err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestValueErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		message  string
		sentinel error
	}{
		{
			name:     "invalid",
			err:      errs.NewValueIsInvalidError("plate"),
			message:  "value is invalid: plate",
			sentinel: errs.ErrValueIsInvalid,
		},
		{
			name:     "invalid with cause",
			err:      errs.NewValueIsInvalidErrorWithCause("phone", errors.New("empty")),
			message:  "value is invalid: phone (cause: empty)",
			sentinel: errs.ErrValueIsInvalid,
		},
		{
			name:     "out of range",
			err:      errs.NewValueIsOutOfRangeError("latitude", 91.5, -90, 90),
			message:  "value is invalid: 91.5 is latitude, min value is -90, max value is 90",
			sentinel: errs.ErrValueIsOutOfRange,
		},
		{
			name: "out of range with cause",
			err: errs.NewValueIsOutOfRangeErrorWithCause(
				"capacityKg", -1, 0, 5000, errors.New("negative")),
			message:  "value is invalid: -1 is capacityKg, min value is 0, max value is 5000 (cause: negative)",
			sentinel: errs.ErrValueIsOutOfRange,
		},
		{
			name:     "required",
			err:      errs.NewValueIsRequiredError("scheduledDate"),
			message:  "value is required: scheduledDate",
			sentinel: errs.ErrValueIsRequired,
		},
		{
			name:     "required with cause",
			err:      errs.NewValueIsRequiredErrorWithCause("vehicleId", errors.New("missing")),
			message:  "value is required: vehicleId (cause: missing)",
			sentinel: errs.ErrValueIsRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			require.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestNewlinesAreFlattened(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("zoneName", "North\nEast", 0, 64)

	assert.Contains(t, err.Error(), "North East")
	assert.NotContains(t, err.Error(), "\n")
}

func TestWrappedErrorsKeepTheirKind(t *testing.T) {
	wrapped := errors.Join(errors.New("finalize"), errs.NewObjectNotFoundError("runId", "r-9"))

	var notFound *errs.ObjectNotFoundError
	require.ErrorAs(t, wrapped, &notFound)
	assert.Equal(t, "runId", notFound.ParamName)
	require.NotErrorIs(t, wrapped, errs.ErrValueIsInvalid)
}
