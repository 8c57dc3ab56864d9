package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema of the path argument shared by every tool.
var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

// detectionProperties returns the optional detection settings accepted by
// the tools that run the region pipeline, merged with extra.
func detectionProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": pathProperty,
		"invert": map[string]interface{}{
			"type":        "boolean",
			"description": "Invert before thresholding, for light content on a dark background. Default false",
			"default":     false,
		},
		"level": map[string]interface{}{
			"type":        "integer",
			"description": "Gray level (1-255) at or above which a pixel counts as background. Default 201",
			"default":     201,
		},
		"smooth_radius": map[string]interface{}{
			"type":        "integer",
			"description": "Width of the box blur applied before labeling. Default 20",
			"default":     20,
		},
		"threshold": map[string]interface{}{
			"type":        "number",
			"description": "Blurred value (0-255) a pixel must exceed to be foreground. Default 25",
			"default":     25,
		},
		"radius_scale": map[string]interface{}{
			"type":        "number",
			"description": "Multiplier on each box's taxicab diagonal when searching for overlaps. Default 1.0",
			"default":     1.0,
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_dimensions",
			Description: "Get the width, height and format of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Detection
		{
			Name:        "image_find_regions",
			Description: "Find the separate items on a scanned page. Returns the bounding box of every connected region and the boxes left after overlapping ones are merged.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectionProperties(nil),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_box_overlay",
			Description: "Draw the merged detection boxes over the image, numbered in detection order, and return it as base64-encoded PNG. Use this to check what image_autocrop would cut out.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": detectionProperties(map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as #RRGGBB. Default #FF0000",
						"default":     "#FF0000",
					},
				}),
				"required": []string{"path"},
			},
		},

		// Cropping
		{
			Name:        "image_crop_box",
			Description: "Crop one bounding box from an image and return it as base64-encoded PNG. Boxes reaching past the image edge are clamped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "image_autocrop",
			Description: "Detect the items on a scanned page and save each one larger than the minimum size as <name>_crop_<i>.png. Returns the boxes and the written files.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": detectionProperties(map[string]interface{}{
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory for the crops. Default: next to the image",
					},
					"min_width": map[string]interface{}{
						"type":        "integer",
						"description": "Crops must be wider than this. Default 50",
						"default":     50,
					},
					"min_height": map[string]interface{}{
						"type":        "integer",
						"description": "Crops must be taller than this. Default 50",
						"default":     50,
					},
					"overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Also write <name>_boxes.png with the saved boxes outlined. Default false",
						"default":     false,
					},
				}),
				"required": []string{"path"},
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
