package mcpapi

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/manifold-dev/manifold/internal/engine"
)

// Register wires every Manifold tool onto s: construct, then AddTool,
// once per spec/workflow/sync/conflicts/review operation.
func Register(s *server.MCPServer, eng *engine.Engine) {
	specCreate := NewSpecCreateTool(eng)
	s.AddTool(specCreate.Definition(), specCreate.Handle)

	specGet := NewSpecGetTool(eng)
	s.AddTool(specGet.Definition(), specGet.Handle)

	specList := NewSpecListTool(eng)
	s.AddTool(specList.Definition(), specList.Handle)

	specPut := NewSpecPutTool(eng)
	s.AddTool(specPut.Definition(), specPut.Handle)

	specValidate := NewSpecValidateTool(eng)
	s.AddTool(specValidate.Definition(), specValidate.Handle)

	workflowStatus := NewWorkflowStatusTool(eng)
	s.AddTool(workflowStatus.Definition(), workflowStatus.Handle)

	workflowAdvance := NewWorkflowAdvanceTool(eng)
	s.AddTool(workflowAdvance.Definition(), workflowAdvance.Handle)

	workflowHistory := NewWorkflowHistoryTool(eng)
	s.AddTool(workflowHistory.Definition(), workflowHistory.Handle)

	syncInit := NewSyncInitTool(eng)
	s.AddTool(syncInit.Definition(), syncInit.Handle)

	syncPush := NewSyncPushTool(eng)
	s.AddTool(syncPush.Definition(), syncPush.Handle)

	syncPull := NewSyncPullTool(eng)
	s.AddTool(syncPull.Definition(), syncPull.Handle)

	syncStatus := NewSyncStatusTool(eng)
	s.AddTool(syncStatus.Definition(), syncStatus.Handle)

	conflictsList := NewConflictsListTool(eng)
	s.AddTool(conflictsList.Definition(), conflictsList.Handle)

	conflictsResolve := NewConflictsResolveTool(eng)
	s.AddTool(conflictsResolve.Definition(), conflictsResolve.Handle)

	conflictsBulk := NewConflictsBulkTool(eng)
	s.AddTool(conflictsBulk.Definition(), conflictsBulk.Handle)

	conflictsAutoMerge := NewConflictsAutoMergeTool(eng)
	s.AddTool(conflictsAutoMerge.Definition(), conflictsAutoMerge.Handle)

	reviewRequest := NewReviewRequestTool(eng)
	s.AddTool(reviewRequest.Definition(), reviewRequest.Handle)

	reviewApprove := NewReviewApproveTool(eng)
	s.AddTool(reviewApprove.Definition(), reviewApprove.Handle)

	reviewReject := NewReviewRejectTool(eng)
	s.AddTool(reviewReject.Definition(), reviewReject.Handle)

	reviewCancel := NewReviewCancelTool(eng)
	s.AddTool(reviewCancel.Definition(), reviewCancel.Handle)

	reviewList := NewReviewListTool(eng)
	s.AddTool(reviewList.Definition(), reviewList.Handle)
}
