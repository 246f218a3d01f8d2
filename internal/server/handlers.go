package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/dice-mosaic-mcp/internal/imaging"
	"github.com/ironsheep/dice-mosaic-mcp/internal/mosaic"
)

// Default edge length for generated sample and random grids.
const defaultPreviewSize = 20

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "mosaic_generate").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// argsError marks a failure to understand the tool arguments, reported as
// invalid params rather than a tool failure.
type argsError struct {
	err error
}

func (e *argsError) Error() string { return e.err.Error() }
func (e *argsError) Unwrap() error { return e.err }

func invalidArgs(format string, a ...interface{}) error {
	return &argsError{err: fmt.Errorf(format, a...)}
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return &argsError{err: err}
	}
	return nil
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Malformed arguments return -32602; other tool errors return -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		var ae *argsError
		if errors.As(err, &ae) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Source images
	case "image_load":
		return s.handleImageLoad(args)
	case "mosaic_suggest_palette":
		return s.handleSuggestPalette(args)

	// Grid creation
	case "mosaic_generate":
		return s.handleGenerate(args)
	case "mosaic_sample_grid":
		return s.handleSampleGrid(args)
	case "mosaic_random_grid":
		return s.handleRandomGrid(args)

	// Stored grids
	case "mosaic_get_grid":
		return s.handleGetGrid(args)
	case "mosaic_export_csv":
		return s.handleExportCSV(args)
	case "mosaic_render":
		return s.handleRender(args)
	case "mosaic_summary":
		return s.handleSummary(args)

	default:
		return nil, invalidArgs("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func faceCounts(g mosaic.Grid) map[int]int {
	counts := g.Counts()
	out := make(map[int]int, 6)
	for face := mosaic.FaceLightest; face <= mosaic.FaceDarkest; face++ {
		out[face] = counts[face]
	}
	return out
}

// === Source Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, invalidArgs("path is required")
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type suggestPaletteArgs struct {
	Path   string `json:"path"`
	Method string `json:"method"`
}

func (s *Server) handleSuggestPalette(args json.RawMessage) (interface{}, error) {
	var a suggestPaletteArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, invalidArgs("path is required")
	}
	method, err := imaging.ParsePaletteMethod(a.Method)
	if err != nil {
		return nil, &argsError{err: err}
	}
	img, err := s.cache.LoadImage(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SuggestPalette(img, method), nil
}

// === Grid Creation Handlers ===

type generateArgs struct {
	Path        string          `json:"path"`
	ImageBase64 string          `json:"image_base64"`
	GridSize    mosaic.SizeSpec `json:"grid_size"`
	Contrast    *int            `json:"contrast"`
	Mode        string          `json:"mode"`
	Square      int             `json:"square"`
	Region      string          `json:"region"`
	IncludeGrid *bool           `json:"include_grid"`
}

// generateResult is the response of mosaic_generate.
type generateResult struct {
	Key            string      `json:"key"`
	Cols           int         `json:"columns"`
	Rows           int         `json:"rows"`
	SourceWidth    int         `json:"source_width"`
	SourceHeight   int         `json:"source_height"`
	Format         string      `json:"format,omitempty"`
	Fallback       bool        `json:"fallback"`
	FallbackReason string      `json:"fallback_reason,omitempty"`
	FaceCounts     map[int]int `json:"face_counts"`
	Grid           mosaic.Grid `json:"grid,omitempty"`
}

func (a generateArgs) settings() (mosaic.Settings, error) {
	st := mosaic.DefaultSettings()
	st.Size = a.GridSize
	if a.Contrast != nil {
		st.Contrast = *a.Contrast
	}
	mode, err := mosaic.ParseMode(a.Mode)
	if err != nil {
		return st, err
	}
	st.Mode = mode
	st.Square = a.Square
	return st.Normalize(), nil
}

func (s *Server) handleGenerate(args json.RawMessage) (interface{}, error) {
	var a generateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	settings, err := a.settings()
	if err != nil {
		return nil, &argsError{err: err}
	}
	if a.Region != "" {
		if err := imaging.ValidateRegion(a.Region); err != nil {
			return nil, &argsError{err: err}
		}
	}

	var data []byte
	switch {
	case a.Path != "" && a.ImageBase64 != "":
		return nil, invalidArgs("provide either path or image_base64, not both")
	case a.Path != "":
		data, err = s.cache.Load(a.Path)
		if err != nil {
			return nil, err
		}
	case a.ImageBase64 != "":
		data, err = imaging.DecodeBase64(a.ImageBase64)
		if err != nil {
			return nil, &argsError{err: err}
		}
	default:
		return nil, invalidArgs("path or image_base64 is required")
	}

	res, err := s.convert(data, settings, a.Region)
	if err != nil {
		return nil, err
	}

	key, err := s.grids.Put(res.Grid)
	if err != nil {
		return nil, err
	}

	out := &generateResult{
		Key:            key,
		Cols:           res.Cols,
		Rows:           res.Rows,
		SourceWidth:    res.SourceWidth,
		SourceHeight:   res.SourceHeight,
		Format:         res.Format,
		Fallback:       res.Fallback,
		FallbackReason: res.FallbackReason,
		FaceCounts:     faceCounts(res.Grid),
	}
	if a.IncludeGrid == nil || *a.IncludeGrid {
		out.Grid = res.Grid
	}
	return out, nil
}

// convert runs the pipeline, cropping to region first when one is named.
// Undecodable data takes the fallback path regardless of region.
func (s *Server) convert(data []byte, settings mosaic.Settings, region string) (*mosaic.Result, error) {
	if region == "" || region == "full" {
		return mosaic.ProcessImage(data, settings), nil
	}
	img, format, err := mosaic.Decode(data)
	if err != nil {
		return mosaic.ProcessImage(data, settings), nil
	}
	cropped, err := imaging.CropRegion(img, region)
	if err != nil {
		return nil, err
	}
	return mosaic.ProcessDecoded(cropped, format, settings), nil
}

type sampleGridArgs struct {
	Size int `json:"size"`
}

// gridResult is the response of tools that create or fetch a whole grid.
type gridResult struct {
	Key        string      `json:"key"`
	Cols       int         `json:"columns"`
	Rows       int         `json:"rows"`
	FaceCounts map[int]int `json:"face_counts"`
	Grid       mosaic.Grid `json:"grid"`
}

func newGridResult(key string, g mosaic.Grid) *gridResult {
	return &gridResult{
		Key:        key,
		Cols:       g.Cols(),
		Rows:       g.Rows(),
		FaceCounts: faceCounts(g),
		Grid:       g,
	}
}

func (s *Server) handleSampleGrid(args json.RawMessage) (interface{}, error) {
	var a sampleGridArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Size == 0 {
		a.Size = defaultPreviewSize
	}
	g := mosaic.SampleGrid(mosaic.DefaultBounds.Clamp(a.Size))
	key, err := s.grids.Put(g)
	if err != nil {
		return nil, err
	}
	return newGridResult(key, g), nil
}

type randomGridArgs struct {
	Size int     `json:"size"`
	Seed *uint64 `json:"seed"`
}

func (s *Server) handleRandomGrid(args json.RawMessage) (interface{}, error) {
	var a randomGridArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Size == 0 {
		a.Size = defaultPreviewSize
	}
	size := mosaic.DefaultBounds.Clamp(a.Size)

	var g mosaic.Grid
	if a.Seed != nil {
		g = mosaic.RandomGridSeeded(size, *a.Seed)
	} else {
		g = mosaic.RandomGrid(size)
	}
	key, err := s.grids.Put(g)
	if err != nil {
		return nil, err
	}
	return newGridResult(key, g), nil
}

// === Stored Grid Handlers ===

type gridKeyArgs struct {
	Key string `json:"key"`
}

func (s *Server) handleGetGrid(args json.RawMessage) (interface{}, error) {
	var a gridKeyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	key, g, err := s.grids.Resolve(a.Key)
	if err != nil {
		return nil, err
	}
	return newGridResult(key, g), nil
}

type csvResult struct {
	Key  string `json:"key"`
	Cols int    `json:"columns"`
	Rows int    `json:"rows"`
	CSV  string `json:"csv"`
}

func (s *Server) handleExportCSV(args json.RawMessage) (interface{}, error) {
	var a gridKeyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	key, g, err := s.grids.Resolve(a.Key)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	if err := mosaic.WriteCSV(&sb, g); err != nil {
		return nil, err
	}
	return &csvResult{Key: key, Cols: g.Cols(), Rows: g.Rows(), CSV: sb.String()}, nil
}

type renderArgs struct {
	Key        string            `json:"key"`
	UseShading *bool             `json:"use_shading"`
	CellSize   int               `json:"cell_size"`
	FaceColors map[string]string `json:"face_colors"`
}

type renderResult struct {
	Key string `json:"key"`
	*imaging.RenderResult
}

func (s *Server) handleRender(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	colors, err := imaging.ParseFaceColors(a.FaceColors)
	if err != nil {
		return nil, &argsError{err: err}
	}
	key, g, err := s.grids.Resolve(a.Key)
	if err != nil {
		return nil, err
	}

	opts := imaging.RenderOptions{
		UseShading: a.UseShading == nil || *a.UseShading,
		FaceColors: colors,
		CellSize:   a.CellSize,
	}
	res, err := imaging.RenderGrid(g, opts)
	if err != nil {
		return nil, err
	}
	return &renderResult{Key: key, RenderResult: res}, nil
}

type summaryArgs struct {
	Key           string  `json:"key"`
	DieSizeCm     float64 `json:"die_size_cm"`
	PricePerDie   float64 `json:"price_per_die"`
	DicePerMinute float64 `json:"dice_per_minute"`
}

type summaryResult struct {
	Key string `json:"key"`
	mosaic.Summary
}

func (s *Server) handleSummary(args json.RawMessage) (interface{}, error) {
	var a summaryArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	key, g, err := s.grids.Resolve(a.Key)
	if err != nil {
		return nil, err
	}
	sum := mosaic.Summarize(g, mosaic.SummaryOptions{
		DieSizeCm:     a.DieSizeCm,
		PricePerDie:   a.PricePerDie,
		DicePerMinute: a.DicePerMinute,
	})
	return &summaryResult{Key: key, Summary: sum}, nil
}
