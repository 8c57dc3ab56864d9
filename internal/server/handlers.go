package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/image-autocrop/internal/autocrop"
	"github.com/ironsheep/image-autocrop/internal/detection"
	"github.com/ironsheep/image-autocrop/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_find_regions", "image_autocrop").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Fills omitted settings from the server's config
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/autocrop function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Detection
	case "image_find_regions":
		return s.handleImageFindRegions(args)
	case "image_box_overlay":
		return s.handleImageBoxOverlay(args)

	// Cropping
	case "image_crop_box":
		return s.handleImageCropBox(args)
	case "image_autocrop":
		return s.handleImageAutocrop(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments and rejects calls without a path.
func unmarshalArgs(args json.RawMessage, v interface{ imagePath() string }) error {
	if err := json.Unmarshal(args, v); err != nil {
		return err
	}
	if v.imagePath() == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// === Basic Image Information Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (a *imagePathArgs) imagePath() string { return a.Path }

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Detection Handlers ===

// detectArgs are the detection settings shared by the pipeline tools. Zero
// values fall back to the server config.
type detectArgs struct {
	imagePathArgs
	Invert       *bool   `json:"invert"`
	Level        int     `json:"level"`
	SmoothRadius int     `json:"smooth_radius"`
	Threshold    float64 `json:"threshold"`
	RadiusScale  float64 `json:"radius_scale"`
}

func (s *Server) detectOptions(a detectArgs) (autocrop.Options, error) {
	cfg := s.cfg
	if a.Invert != nil {
		cfg.Invert = *a.Invert
	}
	if a.Level != 0 {
		cfg.Level = a.Level
	}
	if a.SmoothRadius != 0 {
		cfg.SmoothRadius = a.SmoothRadius
	}
	if a.Threshold != 0 {
		cfg.Threshold = a.Threshold
	}
	if a.RadiusScale != 0 {
		cfg.RadiusScale = a.RadiusScale
	}

	if cfg.Level < 1 || cfg.Level > 255 {
		return autocrop.Options{}, fmt.Errorf("level %d outside 1..255", cfg.Level)
	}
	if cfg.SmoothRadius < 1 {
		return autocrop.Options{}, fmt.Errorf("smooth_radius must be at least 1")
	}
	if cfg.RadiusScale < 0 {
		return autocrop.Options{}, fmt.Errorf("radius_scale must not be negative")
	}
	return autocrop.OptionsFromConfig(cfg), nil
}

// FindRegionsResult is returned by image_find_regions.
type FindRegionsResult struct {
	*autocrop.Detection
	RegionCount int `json:"region_count"`
	MergedCount int `json:"merged_count"`
}

func (s *Server) detect(a detectArgs) (*autocrop.Detection, error) {
	opts, err := s.detectOptions(a)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return autocrop.Detect(img, opts), nil
}

func (s *Server) handleImageFindRegions(args json.RawMessage) (interface{}, error) {
	var a detectArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	det, err := s.detect(a)
	if err != nil {
		return nil, err
	}
	return &FindRegionsResult{
		Detection:   det,
		RegionCount: len(det.Regions),
		MergedCount: len(det.Merged),
	}, nil
}

type imageBoxOverlayArgs struct {
	detectArgs
	Color string `json:"color"`
}

func (s *Server) handleImageBoxOverlay(args json.RawMessage) (interface{}, error) {
	var a imageBoxOverlayArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = s.cfg.OverlayColor
	}
	det, err := s.detect(a.detectArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.OverlayPNG(img, det.Merged, a.Color)
}

// === Cropping Handlers ===

type imageCropBoxArgs struct {
	imagePathArgs
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCropBox(args json.RawMessage) (interface{}, error) {
	var a imageCropBoxArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, detection.NewBoundingBox(a.X1, a.Y1, a.X2, a.Y2), a.Scale)
}

type imageAutocropArgs struct {
	detectArgs
	OutputDir string `json:"output_dir"`
	MinWidth  *int   `json:"min_width"`
	MinHeight *int   `json:"min_height"`
	Overlay   *bool  `json:"overlay"`
}

func (s *Server) handleImageAutocrop(args json.RawMessage) (interface{}, error) {
	var a imageAutocropArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	opts, err := s.detectOptions(a.detectArgs)
	if err != nil {
		return nil, err
	}

	cfg := s.cfg
	cfg.Invert = opts.Invert
	cfg.Level = int(opts.Level)
	cfg.SmoothRadius = opts.SmoothRadius
	cfg.Threshold = opts.Threshold
	cfg.RadiusScale = opts.RadiusScale
	cfg.OutputDir = a.OutputDir
	if a.MinWidth != nil {
		cfg.MinWidth = *a.MinWidth
	}
	if a.MinHeight != nil {
		cfg.MinHeight = *a.MinHeight
	}
	if a.Overlay != nil {
		cfg.Overlay = *a.Overlay
	}

	return autocrop.ProcessFile(s.cache, a.Path, cfg)
}
