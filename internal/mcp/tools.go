package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/RustyRoad/rusty-refactor-sub001/internal/navigator"
	"github.com/RustyRoad/rusty-refactor-sub001/internal/region"
	"github.com/RustyRoad/rusty-refactor-sub001/internal/session"
)

// AddResolveRegionTool registers the resolve_region tool with an MCP server.
// This function is composable - it can be combined with other tool registrations.
func AddResolveRegionTool(s *server.MCPServer, resolver *region.Resolver, workspaceRoot string) {
	tool := mcp.NewTool(
		"resolve_region",
		mcp.WithDescription("Resolve the exact text range to extract from a source file. Symbol-first: a named top-level declaration wins over line numbers; the result reports which method produced the range."),
		mcp.WithString("source_file",
			mcp.Required(),
			mcp.Description("Workspace-relative path of the source file")),
		mcp.WithString("module_name",
			mcp.Required(),
			mcp.Description("Name of the new module being extracted")),
		mcp.WithString("function_name",
			mcp.Description("Top-level symbol to extract")),
		mcp.WithNumber("start_line",
			mcp.Description("Start line (1-indexed); with function_name it acts as a disambiguation hint")),
		mcp.WithNumber("end_line",
			mcp.Description("End line (inclusive)")),
	)

	s.AddTool(tool, createResolveRegionHandler(resolver, workspaceRoot))
}

func createResolveRegionHandler(resolver *region.Resolver, workspaceRoot string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := toolArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		sourceFile, err := stringArg(args, "source_file", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		moduleName, err := stringArg(args, "module_name", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		functionName, _ := stringArg(args, "function_name", false)

		req := region.Request{
			SourceFilePath: sourceFile,
			ModuleName:     moduleName,
			FunctionName:   functionName,
			StartLine:      intArg(args, "start_line"),
			EndLine:        intArg(args, "end_line"),
		}

		source, err := os.ReadFile(filepath.Join(workspaceRoot, filepath.FromSlash(navigator.Normalize(sourceFile))))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("read source file: %v", err)), nil
		}

		resolved, err := resolver.Resolve(source, req)
		if err != nil {
			// Includes RegionNotFound: the host must tell the user no code
			// was extracted, never substitute an empty range.
			return mcp.NewToolResultError(err.Error()), nil
		}

		return jsonResult(&ResolveRegionResponse{Region: resolved})
	}
}

// AddListDirectoryTool registers the list_directory tool.
func AddListDirectoryTool(s *server.MCPServer, nav *navigator.Navigator) {
	tool := mcp.NewTool(
		"list_directory",
		mcp.WithDescription("List one directory the way target selection sees it: directories with convention annotations, convertible module files with conversion notes, and convention suggestions when the source root is empty."),
		mcp.WithString("path",
			mcp.Description("Workspace-relative directory to list (default: the source root)")),
		mcp.WithString("module_name",
			mcp.Description("Module name used to phrase conversion notes")),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := toolArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		path, _ := stringArg(args, "path", false)
		if path == "" {
			path = nav.SourceRoot()
		}
		moduleName, _ := stringArg(args, "module_name", false)
		if moduleName == "" {
			moduleName = "new_module"
		}

		listing, err := nav.ListDirectory(ctx, path, moduleName)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(listing)
	})
}

// AddTargetSessionTools registers the target selection session tools:
// target_begin, target_navigate, target_select, target_confirm,
// target_cancel. One live session per stream key (single-flight); the host
// drives it to a confirmed path or a cancellation.
func AddTargetSessionTools(s *server.MCPServer, registry *session.Registry) {
	begin := mcp.NewTool(
		"target_begin",
		mcp.WithDescription("Begin (or rejoin) the target selection session for a request stream. A stream's live session is reused; it never races a second one."),
		mcp.WithString("module_name",
			mcp.Required(),
			mcp.Description("Name of the module being placed")),
		mcp.WithString("stream_key",
			mcp.Description("Logical request stream key (default: \"default\")")),
	)
	s.AddTool(begin, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := toolArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		moduleName, err := stringArg(args, "module_name", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		streamKey, _ := stringArg(args, "stream_key", false)
		if streamKey == "" {
			streamKey = "default"
		}

		sess := registry.Begin(streamKey, moduleName)
		return jsonResult(sessionResponse(sess))
	})

	navigate := mcp.NewTool(
		"target_navigate",
		mcp.WithDescription("Navigate the session to a directory. Clears any prior selection and returns the fresh listing."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id from target_begin")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Workspace-relative directory")),
	)
	s.AddTool(navigate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, args, result := sessionFor(registry, request)
		if result != nil {
			return result, nil
		}
		path, err := stringArg(args, "path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		listing, err := sess.Navigate(ctx, path)
		if err != nil {
			if errors.Is(err, session.ErrNavigationSuperseded) {
				return mcp.NewToolResultError("navigation superseded by a newer request"), nil
			}
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(listing)
	})

	selectTool := mcp.NewTool(
		"target_select",
		mcp.WithDescription("Record an entry of the current listing as the chosen target. Does not change the session state."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id from target_begin")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of a directory, suggestion, convertible module file, or the current directory itself")),
	)
	s.AddTool(selectTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, args, result := sessionFor(registry, request)
		if result != nil {
			return result, nil
		}
		path, err := stringArg(args, "path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := sess.Select(path); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(sessionResponse(sess))
	})

	confirm := mcp.NewTool(
		"target_confirm",
		mcp.WithDescription("Confirm the recorded selection, concluding the session with the final module file path. A no-op while nothing is selected."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id from target_begin")),
	)
	s.AddTool(confirm, createTargetConfirmHandler(registry))

	cancel := mcp.NewTool(
		"target_cancel",
		mcp.WithDescription("Cancel the session, resolving its pending result with no selection. Idempotent."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id from target_begin")),
	)
	s.AddTool(cancel, createTargetCancelHandler(registry))
}

func createTargetConfirmHandler(registry *session.Registry) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, _, result := sessionFor(registry, request)
		if result != nil {
			return result, nil
		}

		response := sessionResponse(sess)
		if final, ok := sess.Confirm(); ok {
			response.State = sess.State()
			response.FinalPath = final
			// A concluded session's navigation state dies with it; pruning
			// keeps a long-lived server from accumulating one per request.
			registry.Remove(sess.ID())
		}
		return jsonResult(response)
	}
}

func createTargetCancelHandler(registry *session.Registry) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, _, result := sessionFor(registry, request)
		if result != nil {
			return result, nil
		}

		sess.Cancel()
		response := sessionResponse(sess)
		registry.Remove(sess.ID())
		return jsonResult(response)
	}
}

// sessionFor resolves the session_id argument to a live session. The third
// return value is a ready error result when resolution fails.
func sessionFor(registry *session.Registry, request mcp.CallToolRequest) (*session.Session, map[string]interface{}, *mcp.CallToolResult) {
	args, err := toolArgs(request)
	if err != nil {
		return nil, nil, mcp.NewToolResultError(err.Error())
	}
	id, err := stringArg(args, "session_id", true)
	if err != nil {
		return nil, nil, mcp.NewToolResultError(err.Error())
	}
	sess, ok := registry.Get(id)
	if !ok {
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf("unknown session: %s", id))
	}
	return sess, args, nil
}

// jsonResult marshals a payload as a text result (mcp-go convention).
func jsonResult(payload interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
