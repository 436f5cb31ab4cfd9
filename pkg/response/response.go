package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prodtrackhq/prodtrack-api/internal/models"
	appErrors "github.com/prodtrackhq/prodtrack-api/pkg/errors"
)

// Envelope is the single response contract for every endpoint. Exactly one of
// Data or Error is set; Pagination and Meta ride along when relevant.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success envelope. Multiple meta maps are merged left to right.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination, meta ...map[string]interface{}) {
	noStore(c)
	c.JSON(status, Envelope{
		Data:       data,
		Pagination: pagination,
		Meta:       mergeMeta(meta),
	})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Error converts any error to the typed envelope form and writes it with the
// matching HTTP status.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	noStore(c)
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
}

func mergeMeta(maps []map[string]interface{}) map[string]interface{} {
	var merged map[string]interface{}
	for _, m := range maps {
		if m == nil {
			continue
		}
		if merged == nil {
			merged = make(map[string]interface{}, len(m))
		}
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}
