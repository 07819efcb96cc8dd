package utils

import (
	"bytes"
	"encoding/csv"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SendCSV streams a CSV attachment. A UTF-8 BOM is prepended so spreadsheet
// applications pick up the encoding.
func SendCSV(c *gin.Context, filename string, headers []string, rows [][]string) {
	b := &bytes.Buffer{}
	b.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(b)
	if err := w.Write(headers); err != nil {
		InternalServerError(c, "Failed to write CSV header: "+err.Error())
		return
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			InternalServerError(c, "Failed to write CSV row: "+err.Error())
			return
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		InternalServerError(c, "Error writing CSV data: "+err.Error())
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", b.Bytes())
}
