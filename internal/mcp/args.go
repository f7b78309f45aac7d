package mcp

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// toolArgs pulls the raw argument map out of a tool request. MCP clients
// send arguments as a JSON object; anything else is a malformed call.
func toolArgs(request mcp.CallToolRequest) (map[string]interface{}, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid arguments format")
	}
	return args, nil
}

// stringArg extracts a string argument; required empties are an error.
func stringArg(args map[string]interface{}, key string, required bool) (string, error) {
	value, ok := args[key].(string)
	if (!ok || value == "") && required {
		return "", fmt.Errorf("%s parameter is required", key)
	}
	return value, nil
}

// intArg extracts an optional integer argument. JSON numbers arrive as
// float64.
func intArg(args map[string]interface{}, key string) int {
	if value, ok := args[key].(float64); ok {
		return int(value)
	}
	return 0
}
