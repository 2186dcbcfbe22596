package api

import (
	"time"

	"github.com/samcharles93/synthkit/internal/tabular"
)

type DatasetInfo struct {
	ID        string    `json:"id"`
	Object    string    `json:"object"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	Seed      uint64    `json:"seed"`
	CreatedAt time.Time `json:"created_at"`
}

type DatasetList struct {
	Object string        `json:"object"`
	Data   []DatasetInfo `json:"data"`
}

type SummaryResponse struct {
	ID      string                  `json:"id"`
	Object  string                  `json:"object"`
	Columns []tabular.ColumnSummary `json:"columns"`
}

type DeleteResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

type FetchRequest struct {
	FileName string `json:"file_name"`
}

type FetchResponse struct {
	Object   string `json:"object"`
	FileName string `json:"file_name"`
	Path     string `json:"path"`
	Cached   bool   `json:"cached"`
	Attempts int    `json:"attempts"`
	Bytes    int64  `json:"bytes"`
}

type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param,omitempty"`
}
