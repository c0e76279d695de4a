package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/als-astro/als/internal/config"
)

// EffectiveSettingsURI names the MCP resource listing every setting.
const EffectiveSettingsURI = "settings://effective"

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Settings *config.Settings
	Version  string
}

// NewMCPServer creates an MCP server exposing the settings as tools and a
// resource.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(
		"als",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("als: read and change Astro Live Stacker user settings."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("list_settings",
			mcp.WithDescription("List every ALS setting with its effective value, default and whether the user overrode it."),
		),
		mcpListSettings(deps),
	)

	s.AddTool(
		mcp.NewTool("get_setting",
			mcp.WithDescription("Return the effective value of one ALS setting."),
			mcp.WithString("key", mcp.Description("Setting name, one of: "+strings.Join(config.ValidKeys(), ", ")), mcp.Required()),
		),
		mcpGetSetting(deps),
	)

	s.AddTool(
		mcp.NewTool("set_setting",
			mcp.WithDescription("Change one ALS setting and save the settings file."),
			mcp.WithString("key", mcp.Description("Setting name, one of: "+strings.Join(config.ValidKeys(), ", ")), mcp.Required()),
			mcp.WithString("value", mcp.Description("New value"), mcp.Required()),
		),
		mcpSetSetting(deps),
	)

	s.AddResource(
		mcp.NewResource(
			EffectiveSettingsURI,
			"Effective Settings",
			mcp.WithResourceDescription("All ALS settings with effective values as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceSettings(deps),
	)

	return s
}

func mcpListSettings(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, err := json.Marshal(config.ShowAll(deps.Settings))
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal settings: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGetSetting(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("key")
		if err != nil {
			return mcpError("key is required"), nil
		}
		k, err := config.ParseKey(name)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpText(deps.Settings.Get(k)), nil
	}
}

func mcpSetSetting(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("key")
		if err != nil {
			return mcpError("key is required"), nil
		}
		value, err := req.RequireString("value")
		if err != nil {
			return mcpError("value is required"), nil
		}

		k, err := config.SetKey(deps.Settings, name, value)
		if err != nil {
			if errors.Is(err, config.ErrUnknownKey) || errors.Is(err, config.ErrInvalidValue) {
				return mcpError(err.Error()), nil
			}
			return mcpError(fmt.Sprintf("failed to set %s: %v", name, err)), nil
		}

		if err := deps.Settings.Save(); err != nil {
			return mcpError(fmt.Sprintf("%s changed for this session but not saved: %v", k, err)), nil
		}

		return mcpText(fmt.Sprintf("Set %s = %s", k, deps.Settings.Get(k))), nil
	}
}

func mcpResourceSettings(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(config.ShowAll(deps.Settings))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal settings: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
