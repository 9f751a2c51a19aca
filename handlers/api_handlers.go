package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"conduct-server-go/export"
	"conduct-server-go/importer"
	"conduct-server-go/models"
	"conduct-server-go/roster"
)

// Import modes accepted by POST /api/import/students
const (
	ImportModeCells = "cells"
	ImportModePairs = "pairs"
)

// APIHandler holds the dependencies for API handlers, like the record store
type APIHandler struct {
	Store *roster.Store
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(store *roster.Store) *APIHandler {
	return &APIHandler{
		Store: store,
	}
}

// NewRouter returns a gin engine that matches on the escaped request path,
// so a class named "7/A" is reachable as /api/classes/7%2FA
func NewRouter(middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.Use(middleware...)
	return router
}

// Register mounts every route under group
func (h *APIHandler) Register(api *gin.RouterGroup) {
	// Vocabulary
	api.GET("/behaviors", h.GetBehaviors)

	// Class routes
	api.GET("/classes", h.GetAllClasses)
	api.POST("/classes", h.AddClass)
	api.GET("/classes/:className", h.GetClass)
	api.DELETE("/classes/:className", h.DeleteClass)

	// Student routes within a class
	api.POST("/classes/:className/students", h.AddStudent)
	api.DELETE("/classes/:className/students/:index", h.DeleteStudent)
	api.PUT("/classes/:className/students/:index/behaviors", h.ApplyBehaviors)
	api.GET("/classes/:className/random-student", h.GetRandomStudent)

	// Import / export
	api.POST("/import/students", h.ImportStudents)
	api.GET("/classes/:className/export", h.ExportClass)
	api.GET("/export", h.ExportAll)

	api.GET("/ping", PingHandler)
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

type behaviorsRequest struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

// --- Vocabulary ---

// GetBehaviors handles GET /api/behaviors
func (h *APIHandler) GetBehaviors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"positive": models.PositiveBehaviors,
		"negative": models.NegativeBehaviors,
	})
}

// --- Class Handlers ---

// GetAllClasses handles GET /api/classes
func (h *APIHandler) GetAllClasses(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Classes())
}

// GetClass handles GET /api/classes/:className
func (h *APIHandler) GetClass(c *gin.Context) {
	clazz, err := h.Store.Class(c.Param("className"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clazz)
}

// AddClass handles POST /api/classes
func (h *APIHandler) AddClass(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.Store.AddClass(req.Name); err != nil {
		respondError(c, err)
		return
	}
	clazz, err := h.Store.Class(strings.TrimSpace(req.Name))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, clazz)
}

// DeleteClass handles DELETE /api/classes/:className
func (h *APIHandler) DeleteClass(c *gin.Context) {
	if err := h.Store.DeleteClass(c.Param("className")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Student Handlers ---

// AddStudent handles POST /api/classes/:className/students
func (h *APIHandler) AddStudent(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	student, err := h.Store.AddStudent(c.Param("className"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, student)
}

// DeleteStudent handles DELETE /api/classes/:className/students/:index
func (h *APIHandler) DeleteStudent(c *gin.Context) {
	index, ok := studentIndex(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteStudent(c.Param("className"), index); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ApplyBehaviors handles PUT /api/classes/:className/students/:index/behaviors
func (h *APIHandler) ApplyBehaviors(c *gin.Context) {
	index, ok := studentIndex(c)
	if !ok {
		return
	}
	var req behaviorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	student, err := h.Store.ApplyTags(c.Param("className"), index, req.Positive, req.Negative)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

// GetRandomStudent handles GET /api/classes/:className/random-student
func (h *APIHandler) GetRandomStudent(c *gin.Context) {
	student, err := h.Store.RandomStudent(c.Param("className"))
	if err != nil {
		respondError(c, err)
		return
	}
	if student == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No students found in this class"})
		return
	}
	c.JSON(http.StatusOK, student)
}

// --- Import Handler ---

// ImportStudents handles POST /api/import/students.
//
// Form fields: "file" (xlsx, xls or csv) and either "classId" to scan every
// cell into one existing class, or mode=pairs to read (class, name) rows.
func (h *APIHandler) ImportStudents(c *gin.Context) {
	mode := c.DefaultPostForm("mode", ImportModeCells)
	classID := c.PostForm("classId")
	if mode != ImportModeCells && mode != ImportModePairs {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown import mode: " + mode})
		return
	}
	if mode == ImportModeCells && classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing 'classId' in form data"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		log.Printf("Error getting form file: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error retrieving uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	log.Printf("Received file upload: %s (mode %s, class %q)", header.Filename, mode, classID)

	rows, err := importer.ReadRows(file, header.Filename)
	if err != nil {
		log.Printf("Error reading file %s: %v", header.Filename, err)
		status := http.StatusUnprocessableEntity
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"message": "Failed to import students: " + err.Error()})
		return
	}

	if mode == ImportModePairs {
		_, perClass, total := h.Store.ImportPairs(importer.Pairs(rows))
		c.JSON(http.StatusOK, gin.H{
			"message":       "Import successful",
			"importedCount": total,
			"classes":       perClass,
		})
		return
	}

	importedCount, err := h.Store.ImportCells(classID, importer.Cells(rows))
	if err != nil {
		log.Printf("Error importing students from file %s for class %s: %v", header.Filename, classID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Import successful",
		"importedCount": importedCount,
		"classId":       classID,
	})
}

// --- Export Handlers ---

// ExportClass handles GET /api/classes/:className/export.
// ?format=datauri returns a JSON body with a download URI instead of raw TSV.
func (h *APIHandler) ExportClass(c *gin.Context) {
	clazz, err := h.Store.Class(c.Param("className"))
	if err != nil {
		respondError(c, err)
		return
	}
	text := export.ClassTSV(clazz.Students)
	const mimeType = "text/tab-separated-values"

	if c.Query("format") == "datauri" {
		c.JSON(http.StatusOK, gin.H{"dataUri": export.DataURI(mimeType, []byte(text))})
		return
	}
	c.Data(http.StatusOK, mimeType+"; charset=utf-8", []byte(text))
}

// ExportAll handles GET /api/export: every class as BOM-prefixed CSV
func (h *APIHandler) ExportAll(c *gin.Context) {
	text, err := export.StoreCSV(h.Store.Snapshot())
	if err != nil {
		log.Printf("Error formatting export: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export classes"})
		return
	}
	data, err := export.WithBOM(text)
	if err != nil {
		log.Printf("Error encoding export: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export classes"})
		return
	}
	const mimeType = "text/csv"

	if c.Query("format") == "datauri" {
		c.JSON(http.StatusOK, gin.H{"dataUri": export.DataURI(mimeType, data)})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="classes.csv"`)
	c.Data(http.StatusOK, mimeType+"; charset=utf-8", data)
}

// --- Ping Handler ---
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}

// --- Helpers ---

func studentIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Student index must be a non-negative integer"})
		return 0, false
	}
	return index, true
}

// respondError maps store errors to HTTP statuses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, roster.ErrEmptyName), errors.Is(err, roster.ErrUnknownBehavior):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, roster.ErrClassNotFound), errors.Is(err, roster.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, roster.ErrClassExists), errors.Is(err, roster.ErrStudentExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("Unhandled error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
