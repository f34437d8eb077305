package harness

import (
	"context"
	"fmt"

	"github.com/roach88/hq/internal/overlay"
	"github.com/roach88/hq/internal/store"
)

// actionFunc invokes one store operation. The returned map is matched
// against the step's expected result.
type actionFunc func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error)

var actions = map[string]actionFunc{
	"tick": func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
		crossed, err := h.store.Tick(ctx, str(args, "day"), str(args, "item"), flag(args, "on", true))
		if crossed == nil {
			crossed = []int{}
		}
		return map[string]any{"milestones": crossed}, err
	},
	"note": func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
		return nil, h.store.SetNote(ctx, str(args, "day"), store.NoteField(str(args, "field")), str(args, "text"))
	},
	"complete": func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
		return nil, h.store.SetComplete(ctx, str(args, "day"), flag(args, "on", true))
	},
	"bug.add": func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
		b, err := h.store.AddBug(ctx, str(args, "title"), overlay.Severity(str(args, "severity")))
		if err != nil {
			return nil, err
		}
		return map[string]any{"id": b.ID, "severity": string(b.Severity), "status": string(b.Status)}, nil
	},
	"bug.status": func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
		return nil, h.store.SetBugStatus(ctx, str(args, "id"), overlay.BugStatus(str(args, "status")))
	},
	"bug.delete": func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
		return nil, h.store.DeleteBug(ctx, str(args, "id"))
	},
	"idea.add": func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
		idea, err := h.store.AddIdea(ctx, str(args, "name"), str(args, "area"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"id": idea.ID}, nil
	},
	"idea.delete": func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
		return nil, h.store.DeleteIdea(ctx, str(args, "id"))
	},
	"decision.add": func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
		d, err := h.store.AddDecision(ctx, overlay.Decision{
			ID:       str(args, "id"),
			Date:     str(args, "date"),
			Decision: str(args, "decision"),
			Impact:   str(args, "impact"),
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{"id": d.ID, "date": d.Date}, nil
	},
	"decision.delete": func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
		return nil, h.store.DeleteDecision(ctx, str(args, "id"))
	},
	"doc.set": func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
		return nil, h.store.SetDocumentPatch(ctx, str(args, "markup"))
	},
	"doc.clear": func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
		return nil, h.store.ClearDocumentPatch(ctx)
	},
	"setting": func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
		return nil, h.store.SetSetting(ctx, str(args, "key"), str(args, "value"))
	},
	"import": func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
		return nil, h.store.Import(ctx, []byte(str(args, "content")))
	},
	"reset": func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
		return nil, h.store.Reset(ctx)
	},
	"reload": func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
		h.store = store.New(h.slot, h.opts...)
		o := h.store.Load(ctx)
		return map[string]any{"activity": len(o.ActivityLog)}, nil
	},
	"fail_writes": func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
		if flag(args, "on", true) {
			h.slot.FailWrites(errDiskFull)
		} else {
			h.slot.FailWrites(nil)
		}
		return nil, nil
	},
}

// str returns args[key] as a string. YAML scalars such as true or 3 are
// formatted, so setting values need no quoting.
func str(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// flag returns args[key] as a bool, or def when absent or not a bool.
func flag(args map[string]any, key string, def bool) bool {
	if b, ok := args[key].(bool); ok {
		return b
	}
	return def
}
