// ABOUTME: Sync MCP tool handler
// ABOUTME: Implements sync_now, pushing pending ledger changes to the remote
package handlers

import (
	"context"
	"errors"

	dsync "github.com/harperreed/daftar/sync"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SyncFunc runs one reconciliation. (*sync.Reconciler).Run satisfies it.
type SyncFunc func(ctx context.Context) dsync.Summary

type SyncHandlers struct {
	sync SyncFunc
}

// NewSyncHandlers wraps fn. A nil fn reports that no remote is configured.
func NewSyncHandlers(fn SyncFunc) *SyncHandlers {
	return &SyncHandlers{sync: fn}
}

type SyncNowInput struct{}

type SyncNowOutput struct {
	RunID      string `json:"run_id"`
	OK         bool   `json:"ok"`
	Synced     int    `json:"synced"`
	Failed     int    `json:"failed"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

func (h *SyncHandlers) SyncNow(ctx context.Context, request *mcp.CallToolRequest, input SyncNowInput) (*mcp.CallToolResult, SyncNowOutput, error) {
	if h.sync == nil {
		return nil, SyncNowOutput{}, errors.New("remote sync is not configured")
	}

	s := h.sync(ctx)
	out := SyncNowOutput{
		RunID:      s.RunID,
		OK:         s.OK(),
		Synced:     s.Synced,
		Failed:     s.Failed,
		DurationMS: s.FinishedAt.Sub(s.StartedAt).Milliseconds(),
	}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}
	return nil, out, nil
}
