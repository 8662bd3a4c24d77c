// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xvierd/kaizen/internal/domain"
	"github.com/xvierd/kaizen/internal/ports"
)

const timeLayout = "2006-01-02T15:04:05"

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider, version string) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"kaizen",
		version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	// Tool: get_workspace
	s.server.AddTool(
		mcp.NewTool(
			"get_workspace",
			mcp.WithDescription("Get the current session: selected task, open form, filters, visible tasks and today's progress"),
		),
		s.handleGetWorkspace,
	)

	// Tool: list_tasks
	s.server.AddTool(
		mcp.NewTool(
			"list_tasks",
			mcp.WithDescription("List tasks, most recent first, optionally filtered by a search term and a category"),
			mcp.WithString(
				"search",
				mcp.Description("Case-insensitive text matched against title and description"),
			),
			mcp.WithString(
				"category",
				mcp.Description("Exact category, or 'all' (default)"),
			),
		),
		s.handleListTasks,
	)

	// Tool: get_task
	s.server.AddTool(
		mcp.NewTool(
			"get_task",
			mcp.WithDescription("Get a single task by ID"),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("The ID of the task")),
		),
		s.handleGetTask,
	)

	// Tool: find_tasks
	s.server.AddTool(
		mcp.NewTool(
			"find_tasks",
			mcp.WithDescription("Fuzzy-search task titles, best match first"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Characters to match in order")),
		),
		s.handleFindTasks,
	)

	// Tool: create_task
	s.server.AddTool(
		mcp.NewTool(
			"create_task",
			mcp.WithDescription("Create a new task at the top of the list and select it"),
			mcp.WithString("title", mcp.Required(), mcp.Description("The title of the task")),
			mcp.WithString("description", mcp.Description("Optional description of the task")),
			mcp.WithString("category", mcp.Description("Optional category, e.g. work or personal")),
			mcp.WithString(
				"status",
				mcp.Description("Initial status (default: todo)"),
				mcp.Enum(statusNames()...),
			),
		),
		s.handleCreateTask,
	)

	// Tool: update_task
	s.server.AddTool(
		mcp.NewTool(
			"update_task",
			mcp.WithDescription("Update fields of a task. Omitted fields are left unchanged"),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("The ID of the task to update")),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("description", mcp.Description("New description")),
			mcp.WithString("category", mcp.Description("New category")),
			mcp.WithString("status", mcp.Description("New status"), mcp.Enum(statusNames()...)),
		),
		s.handleUpdateTask,
	)

	// Tool: set_status
	s.server.AddTool(
		mcp.NewTool(
			"set_status",
			mcp.WithDescription("Change the status of a task. Moving to done records the completion time"),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("The ID of the task")),
			mcp.WithString("status", mcp.Required(), mcp.Description("The new status"), mcp.Enum(statusNames()...)),
		),
		s.handleSetStatus,
	)

	// Tool: delete_task
	s.server.AddTool(
		mcp.NewTool(
			"delete_task",
			mcp.WithDescription("Delete a task. Deleting an unknown ID is not an error"),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("The ID of the task to delete")),
		),
		s.handleDeleteTask,
	)

	// Tool: select_task
	s.server.AddTool(
		mcp.NewTool(
			"select_task",
			mcp.WithDescription("Mark a task as the selected task of the session"),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("The ID of the task to select")),
		),
		s.handleSelectTask,
	)

	// Tool: get_progress
	s.server.AddTool(
		mcp.NewTool(
			"get_progress",
			mcp.WithDescription("Get today's progress: tasks completed today over tasks created today"),
		),
		s.handleGetProgress,
	)

	// Tool: list_categories
	s.server.AddTool(
		mcp.NewTool(
			"list_categories",
			mcp.WithDescription("List the distinct task categories"),
		),
		s.handleListCategories,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func statusNames() []string {
	statuses := domain.Statuses()
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}
	return names
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func taskToMap(task *domain.Task) map[string]interface{} {
	data := map[string]interface{}{
		"id":           task.ID,
		"title":        task.Title,
		"description":  task.Description,
		"category":     task.Category,
		"status":       string(task.Status),
		"created_at":   formatTime(task.CreatedAt),
		"updated_at":   formatTime(task.UpdatedAt),
		"completed_at": nil,
	}
	if task.CompletedAt != nil {
		data["completed_at"] = formatTime(*task.CompletedAt)
	}
	return data
}

func tasksToMaps(tasks []*domain.Task) []map[string]interface{} {
	list := make([]map[string]interface{}, 0, len(tasks))
	for _, task := range tasks {
		list = append(list, taskToMap(task))
	}
	return list
}

func progressToMap(p domain.DailyProgress) map[string]interface{} {
	return map[string]interface{}{
		"date":            p.Date.Format("2006-01-02"),
		"completed_today": p.CompletedToday,
		"total_today":     p.TotalToday,
		"percentage":      p.Percentage,
		"goal_reached":    p.GoalReached(),
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// taskError turns a rejected operation into a tool error the caller can act
// on. Anything else is an internal failure.
func taskError(action string, err error) (*mcp.CallToolResult, error) {
	var vErr *domain.ValidationError
	if errors.Is(err, domain.ErrTaskNotFound) || errors.As(err, &vErr) {
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", action, err)), nil
	}
	return nil, fmt.Errorf("failed to %s: %w", action, err)
}

// optionalString returns a pointer to the argument when it was supplied.
func optionalString(request mcp.CallToolRequest, key string) *string {
	args := request.GetArguments()
	raw, ok := args[key]
	if !ok {
		return nil
	}
	value, ok := raw.(string)
	if !ok {
		return nil
	}
	return &value
}

// handleGetWorkspace handles the get_workspace tool.
func (s *Server) handleGetWorkspace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.stateProvider.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	form := map[string]interface{}{
		"mode": string(snap.Workspace.Form.Mode),
	}
	if snap.Workspace.Form.Mode == domain.FormEditing {
		form["task_id"] = snap.Workspace.Form.TaskID
	}

	result := map[string]interface{}{
		"selected_task": nil,
		"form":          form,
		"search_term":   snap.Workspace.SearchTerm,
		"category":      snap.Workspace.Category,
		"visible_tasks": tasksToMaps(snap.Visible),
		"progress":      progressToMap(snap.Progress),
	}
	if snap.Selected != nil {
		result["selected_task"] = taskToMap(snap.Selected)
	}

	return jsonResult(result)
}

// handleListTasks handles the list_tasks tool.
func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	search := request.GetString("search", "")
	category := request.GetString("category", domain.AllCategories)

	tasks, err := s.stateProvider.ListTasks(ctx, search, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	result := map[string]interface{}{
		"tasks":       tasksToMaps(tasks),
		"total_count": len(tasks),
	}
	if search != "" {
		result["filter_search"] = search
	}
	if category != domain.AllCategories {
		result["filter_category"] = category
	}

	return jsonResult(result)
}

// handleGetTask handles the get_task tool.
func (s *Server) handleGetTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}

	task, err := s.stateProvider.GetTask(ctx, taskID)
	if err != nil {
		return taskError("get task", err)
	}

	return jsonResult(taskToMap(task))
}

// handleFindTasks handles the find_tasks tool.
func (s *Server) handleFindTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required: " + err.Error()), nil
	}

	tasks, err := s.stateProvider.FindTasks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}

	return jsonResult(map[string]interface{}{
		"query":       query,
		"tasks":       tasksToMaps(tasks),
		"total_count": len(tasks),
	})
}

// handleCreateTask handles the create_task tool.
func (s *Server) handleCreateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required: " + err.Error()), nil
	}

	in := domain.TaskInput{
		Title:       title,
		Description: request.GetString("description", ""),
		Category:    request.GetString("category", ""),
	}
	if raw := request.GetString("status", ""); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		in.Status = status
	}

	task, err := s.stateProvider.CreateTask(ctx, in)
	if err != nil {
		return taskError("create task", err)
	}

	return jsonResult(taskToMap(task))
}

// handleUpdateTask handles the update_task tool.
func (s *Server) handleUpdateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}

	patch := domain.TaskPatch{
		Title:       optionalString(request, "title"),
		Description: optionalString(request, "description"),
		Category:    optionalString(request, "category"),
	}
	if raw := optionalString(request, "status"); raw != nil {
		status, err := domain.ParseStatus(*raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		patch.Status = &status
	}

	task, err := s.stateProvider.UpdateTask(ctx, taskID, patch)
	if err != nil {
		return taskError("update task", err)
	}

	return jsonResult(taskToMap(task))
}

// handleSetStatus handles the set_status tool.
func (s *Server) handleSetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}
	raw, err := request.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError("status is required: " + err.Error()), nil
	}
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := s.stateProvider.SetStatus(ctx, taskID, status)
	if err != nil {
		return taskError("set status", err)
	}

	return jsonResult(taskToMap(task))
}

// handleDeleteTask handles the delete_task tool.
func (s *Server) handleDeleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}

	if err := s.stateProvider.DeleteTask(ctx, taskID); err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return jsonResult(map[string]interface{}{
		"task_id": taskID,
		"deleted": true,
	})
}

// handleSelectTask handles the select_task tool.
func (s *Server) handleSelectTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}

	s.stateProvider.Select(taskID)

	return jsonResult(map[string]interface{}{
		"selected_task_id": taskID,
	})
}

// handleGetProgress handles the get_progress tool.
func (s *Server) handleGetProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	progress, err := s.stateProvider.Progress(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	return jsonResult(progressToMap(progress))
}

// handleListCategories handles the list_categories tool.
func (s *Server) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories, err := s.stateProvider.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return jsonResult(map[string]interface{}{
		"categories": categories,
	})
}
