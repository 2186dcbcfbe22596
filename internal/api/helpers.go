package api

import (
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
	"github.com/samber/lo"

	"github.com/samcharles93/synthkit/internal/synth"
)

func writeBadRequest(c *echo.Context, err error) error {
	param := invalidParam(err)
	if param == "" {
		param = synth.InvalidField(err)
	}
	return writeError(c, http.StatusBadRequest, "invalid_request_error", err.Error(), param)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg, "")
}

func writeError(c *echo.Context, status int, errType, msg, param string) error {
	return c.JSON(status, map[string]any{
		"error": ResponseError{
			Message: msg,
			Type:    errType,
			Param:   param,
		},
	})
}

// decodeJSON decodes a single JSON value, rejecting unknown fields so typos
// in parameter names surface as errors instead of silent defaults.
func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return out, newInvalidRequest("", "request body is empty")
		}
		return out, newInvalidRequest("", "invalid JSON body: %v", err)
	}
	return out, nil
}

func datasetInfo(ds *synth.Dataset) DatasetInfo {
	rows, cols := ds.Dims()
	return DatasetInfo{
		ID:        ds.ID,
		Object:    "dataset",
		Rows:      rows,
		Cols:      cols,
		Seed:      ds.Seed,
		CreatedAt: ds.CreatedAt,
	}
}

func datasetInfos(all []*synth.Dataset) []DatasetInfo {
	return lo.Map(all, func(ds *synth.Dataset, _ int) DatasetInfo {
		return datasetInfo(ds)
	})
}

// checkSize bounds the values a generation request allocates, latent factors
// included. p must already be valid.
func checkSize(p synth.Params, maxCells int) error {
	if maxCells <= 0 {
		return nil
	}
	values, ok := p.Footprint()
	if !ok || values > maxCells {
		return newInvalidRequest("n", "dataset needs more than the server limit of %d values (rows x columns plus latent factors)", maxCells)
	}
	return nil
}

