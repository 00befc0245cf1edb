package handlers

import (
	"bytes"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"coursehub-server-go/db"
	"coursehub-server-go/models"
	"coursehub-server-go/spreadsheet"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type importResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// readUpload returns the data rows of the uploaded "file" form field.
func readUpload(c *gin.Context) ([]spreadsheet.Row, error) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		log.Printf("Error getting form file: %v", err)
		return nil, badRequest("Error retrieving uploaded file")
	}
	defer file.Close()

	log.Printf("Received file upload: %s", header.Filename)
	rows, err := spreadsheet.ReadRows(file)
	if err != nil {
		log.Printf("Error reading spreadsheet %s: %v", header.Filename, err)
		return nil, badRequest("Invalid spreadsheet file")
	}
	return rows, nil
}

// ImportWeeks handles POST /api/weekly/import
func (h *APIHandler) ImportWeeks(c *gin.Context) {
	rows, err := readUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var result importResult
	for _, row := range rows {
		week, err := cleanWeek(spreadsheet.WeekFromRow(row))
		if err != nil {
			log.Printf("Skipping row %d: %v", row.Number, err)
			result.Skipped++
			continue
		}
		err = h.Store.CreateWeek(c.Request.Context(), &week)
		if errors.Is(err, db.ErrDuplicate) {
			log.Printf("Skipping row %d: week %s already exists", row.Number, week.ID)
			result.Skipped++
			continue
		}
		if err != nil {
			respondError(c, storeError(err, "import week "+week.ID, weekEntity))
			return
		}
		result.Imported++
	}

	log.Printf("Imported %d weeks, skipped %d rows", result.Imported, result.Skipped)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Import completed", "data": result})
}

// ImportAssignments handles POST /api/assignments/import
func (h *APIHandler) ImportAssignments(c *gin.Context) {
	rows, err := readUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var result importResult
	for _, row := range rows {
		a, err := cleanAssignment(spreadsheet.AssignmentFromRow(row))
		if err != nil {
			log.Printf("Skipping row %d: %v", row.Number, err)
			result.Skipped++
			continue
		}
		if err := h.Store.CreateAssignment(c.Request.Context(), &a); err != nil {
			respondError(c, storeError(err, "import assignment", assignmentEntity))
			return
		}
		result.Imported++
	}

	log.Printf("Imported %d assignments, skipped %d rows", result.Imported, result.Skipped)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Import completed", "data": result})
}

// ExportWeeks handles GET /api/weekly/export
func (h *APIHandler) ExportWeeks(c *gin.Context) {
	weeks, err := h.Store.ListWeeks(c.Request.Context(), models.ListQuery{})
	if err != nil {
		respondError(c, storeError(err, "export weeks", weekEntity))
		return
	}
	var buf bytes.Buffer
	if err := spreadsheet.WriteWeeks(&buf, weeks); err != nil {
		log.Printf("Error writing weeks workbook: %v", err)
		respondError(c, errInternal)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="weeks.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportAssignments handles GET /api/assignments/export
func (h *APIHandler) ExportAssignments(c *gin.Context) {
	assignments, err := h.Store.ListAssignments(c.Request.Context(), models.ListQuery{})
	if err != nil {
		respondError(c, storeError(err, "export assignments", assignmentEntity))
		return
	}
	var buf bytes.Buffer
	if err := spreadsheet.WriteAssignments(&buf, assignments); err != nil {
		log.Printf("Error writing assignments workbook: %v", err)
		respondError(c, errInternal)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="assignments.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
