package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"docrender/internal/core/engine/layout"
	rendererrors "docrender/internal/pkg/errors"
	"docrender/internal/pkg/utils"
)

// Entry is one page-stream section of a render job: its own page size, its
// own font alias table, and the element tree to lay out into it.
type Entry struct {
	Size    [2]float64        `json:"size"`
	Fonts   map[string]string `json:"fonts"`
	Element Node              `json:"element"`
}

// RenderJob is the full decoded shape of a render invocation's stdin
// payload: {title, keywords?, entries: [...]}. ID is assigned after
// decoding, not read from the wire, and tags every log line and the PDF's
// creator metadata for this invocation.
type RenderJob struct {
	ID       uuid.UUID `json:"-"`
	Title    string    `json:"title"`
	Keywords []string  `json:"keywords,omitempty"`
	Entries  []Entry   `json:"entries"`
}

// DecodeRenderJob parses a render job from raw JSON and assigns it a fresh
// invocation ID.
func DecodeRenderJob(data []byte) (*RenderJob, error) {
	var job RenderJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, rendererrors.MalformedInput("invalid render job JSON").WithCause(err)
	}
	if len(job.Entries) == 0 {
		return nil, rendererrors.MalformedInput("render job has no entries")
	}
	for i, e := range job.Entries {
		if e.Size[0] <= 0 || e.Size[1] <= 0 {
			return nil, rendererrors.MalformedInput(fmt.Sprintf("entry %d has a non-positive page size", i))
		}
	}
	job.ID = utils.NewJobID()
	return &job, nil
}

// BuildElements converts every entry's element tree into an
// engine-layer layout.Element, in order.
func (j *RenderJob) BuildElements(env BuildEnv) ([]layout.Element, error) {
	out := make([]layout.Element, len(j.Entries))
	for i, e := range j.Entries {
		el, err := e.Element.Build(env)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out[i] = el
	}
	return out, nil
}
