// Package api provides the REST API server for jam2midi
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/james-see/jam2midi/pkg/sequencer"
)

// @title jam2midi API
// @version 1.0
// @description API for rendering pattern/chord songs to Standard MIDI Files
// @host localhost:8080
// @BasePath /api/v1

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/genres", listGenres)
		v1.POST("/export", handleExport)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r.Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "jam2midi",
	})
}

// listGenres godoc
// @Summary List genres
// @Description Returns the genre catalog with canonical chord progressions
// @Tags info
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/v1/genres [get]
func listGenres(c *gin.Context) {
	genres := make([]gin.H, 0)
	for _, name := range sequencer.GenreNames() {
		prog, _ := sequencer.ProgressionForGenre(name)
		genres = append(genres, gin.H{
			"genre":  name,
			"name":   prog.Name,
			"chords": prog.Chords,
		})
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

// LayerSpec is one layer in an export request
type LayerSpec struct {
	Name     string `json:"name" binding:"required"`
	Kind     string `json:"kind" binding:"required"`
	Pattern  string `json:"pattern"`
	Velocity uint8  `json:"velocity"`
}

// ExportRequest is the export request body. Either a catalog genre or
// an explicit chord list selects the progression; both may be empty
// for a layers-only export.
type ExportRequest struct {
	Genre  string      `json:"genre"`
	Chords []string    `json:"chords"`
	Tempo  int         `json:"tempo" binding:"required"`
	Layers []LayerSpec `json:"layers"`
}

// ExportedFile is one rendered MIDI file; Data is base64 in JSON
type ExportedFile struct {
	Filename string `json:"filename"`
	Data     []byte `json:"data"`
}

// handleExport godoc
// @Summary Render a song to MIDI files
// @Description Accepts a song configuration and returns one Standard MIDI File per track
// @Tags export
// @Accept json
// @Produce json
// @Param request body ExportRequest true "Song configuration"
// @Success 200 {object} map[string][]ExportedFile
// @Failure 400 {object} map[string]string
// @Router /api/v1/export [post]
func handleExport(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	song, err := songFromRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	files, err := sequencer.ExportSong(song)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sequencer.ErrInvalidTempo) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	out := make([]ExportedFile, 0, len(files))
	for _, f := range files {
		out = append(out, ExportedFile{Filename: f.Filename, Data: f.Data})
	}
	c.JSON(http.StatusOK, gin.H{"files": out})
}

// songFromRequest builds the immutable song snapshot from a request
func songFromRequest(req ExportRequest) (sequencer.Song, error) {
	var song sequencer.Song
	song.Tempo = req.Tempo

	switch {
	case req.Genre != "":
		prog, ok := sequencer.ProgressionForGenre(req.Genre)
		if !ok {
			return song, fmt.Errorf("unknown genre %q", req.Genre)
		}
		song.Progression = &prog
	case len(req.Chords) > 0:
		song.Progression = &sequencer.Progression{Name: "chords", Chords: req.Chords}
	}

	for _, spec := range req.Layers {
		kind, ok := sequencer.ParseKind(spec.Kind)
		if !ok {
			return song, fmt.Errorf("unknown layer kind %q", spec.Kind)
		}
		song.Layers = append(song.Layers, sequencer.Layer{
			Name:     spec.Name,
			Kind:     kind,
			Pattern:  spec.Pattern,
			Velocity: spec.Velocity,
		})
	}

	return song, nil
}
