package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"neurosurg/learning-app/internal/atlas"
)

// AtlasHandler serves the read-only anatomy reference data.
type AtlasHandler struct {
	reader *atlas.Reader
}

// NewAtlasHandler creates a new AtlasHandler.
func NewAtlasHandler(reader *atlas.Reader) *AtlasHandler {
	return &AtlasHandler{reader: reader}
}

// Regions lists all regions as summaries.
func (h *AtlasHandler) Regions(c *gin.Context) {
	regions, err := h.reader.Regions()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, regions)
}

// Region returns one region with its subregions.
func (h *AtlasHandler) Region(c *gin.Context) {
	region, err := h.reader.Region(c.Param("regionId"))
	if err != nil {
		if errors.Is(err, atlas.ErrRegionNotFound) {
			abortWithError(c, http.StatusNotFound, "Region not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, region)
}

// Subregion returns one subregion annotated with its region's name.
func (h *AtlasHandler) Subregion(c *gin.Context) {
	detail, err := h.reader.Subregion(c.Param("regionId"), c.Param("subregionId"))
	if err != nil {
		switch {
		case errors.Is(err, atlas.ErrRegionNotFound):
			abortWithError(c, http.StatusNotFound, "Region not found")
		case errors.Is(err, atlas.ErrSubregionNotFound):
			abortWithError(c, http.StatusNotFound, "Subregion not found")
		default:
			abortWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Search runs the weighted substring search. An empty query returns
// an empty array, not an error.
func (h *AtlasHandler) Search(c *gin.Context) {
	results, err := h.reader.Search(c.Query("q"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, results)
}
