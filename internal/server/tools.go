package server

import "github.com/ironsheep/dice-mosaic-mcp/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func keyProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Grid key returned by a previous call. Defaults to the most recent grid.",
	}
}

func sizeProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     1,
		"description": desc,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Source images
		{
			Name:        "image_load",
			Description: "Read an image file's header and return its dimensions, format and aspect ratio. The file is cached for later conversions.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "mosaic_suggest_palette",
			Description: "Suggest six face colors from an image. The lightest extracted color is assigned to face 1 and the darkest to face 6.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"method": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"dominant", "kmeans"},
						"description": "Color extraction method. Default dominant",
						"default":     "dominant",
					},
				},
				"required": []string{"path"},
			},
		},

		// Grid creation
		{
			Name:        "mosaic_generate",
			Description: "Convert an image into a grid of dice faces 1-6 (1 = lightest, 6 = darkest). Provide either path or image_base64. The grid is stored and its key returned. Undecodable images produce a random grid flagged with fallback=true.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"image_base64": map[string]interface{}{
						"type":        "string",
						"description": "Image data as base64, optionally as a data: URL",
					},
					"grid_size": map[string]interface{}{
						"oneOf": []interface{}{
							map[string]interface{}{"type": "integer", "minimum": 1},
							map[string]interface{}{"type": "string", "enum": []string{"auto"}},
						},
						"description": "Cells along the image's long axis, or \"auto\" for about 6000 cells. Clamped to 10-150 per axis. Default auto",
						"default":     "auto",
					},
					"contrast": map[string]interface{}{
						"type":        "integer",
						"minimum":     0,
						"maximum":     100,
						"description": "Contrast stretch, 0 = unchanged. Default 50",
						"default":     50,
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"six-band", "binary", "halftone"},
						"description": "six-band uses all faces, binary only 1 and 6, halftone thresholds before averaging. Default six-band",
						"default":     "six-band",
					},
					"square": map[string]interface{}{
						"type":        "integer",
						"description": "Pad or trim the grid to N x N, padding with face 1. 0 disables",
					},
					"region": map[string]interface{}{
						"type":        "string",
						"enum":        imaging.Regions,
						"description": "Convert only a named region of the image. Default full",
					},
					"include_grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the grid values in the response. Default true",
						"default":     true,
					},
				},
			},
		},
		{
			Name:        "mosaic_sample_grid",
			Description: "Create a deterministic diagonal gradient grid for previews and testing. The grid is stored and its key returned.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"size": sizeProperty("Grid edge length. Default 20"),
				},
			},
		},
		{
			Name:        "mosaic_random_grid",
			Description: "Create a grid of uniformly random faces. Pass a seed for a reproducible grid. The grid is stored and its key returned.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"size": sizeProperty("Grid edge length. Default 20"),
					"seed": map[string]interface{}{
						"type":        "integer",
						"minimum":     0,
						"description": "Optional seed for reproducible output",
					},
				},
			},
		},

		// Stored grids
		{
			Name:        "mosaic_get_grid",
			Description: "Return a stored grid with its dimensions and face counts.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"key": keyProperty(),
				},
			},
		},
		{
			Name:        "mosaic_export_csv",
			Description: "Export a stored grid as CSV with header row,column,value and 1-based indices.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"key": keyProperty(),
				},
			},
		},
		{
			Name:        "mosaic_render",
			Description: "Render a stored grid as a base64 PNG. Each cell is a die in its face color showing pips (use_shading) or its face number.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"key": keyProperty(),
					"use_shading": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw pips instead of numerals. Default true",
						"default":     true,
					},
					"cell_size": map[string]interface{}{
						"type":        "integer",
						"minimum":     imaging.MinCellSize,
						"maximum":     imaging.MaxCellSize,
						"description": "Pixels per die. Default 20",
						"default":     imaging.DefaultCellSize,
					},
					"face_colors": map[string]interface{}{
						"type":                 "object",
						"additionalProperties": map[string]interface{}{"type": "string"},
						"description":          "Hex colors keyed by face \"1\"-\"6\". Missing faces use the default white-to-black ramp",
					},
				},
			},
		},
		{
			Name:        "mosaic_summary",
			Description: "Summarize a stored grid: dice per face, black and white dice, physical size, estimated build time and cost, and face statistics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"key": keyProperty(),
					"die_size_cm": map[string]interface{}{
						"type":        "number",
						"description": "Edge length of one die in centimeters. Default 1.6",
					},
					"price_per_die": map[string]interface{}{
						"type":        "number",
						"description": "Cost of one die. Default 0.10",
					},
					"dice_per_minute": map[string]interface{}{
						"type":        "number",
						"description": "Placement speed used for the time estimate. Default 10",
					},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
