package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/piwi3910/DeckTakeoff/internal/errors"
	"github.com/piwi3910/DeckTakeoff/internal/model"
)

// Revision is one saved version of a project's takeoff, labor plan and
// estimate. Revisions are never rewritten; a new generate appends a new one.
type Revision struct {
	ID        string                 `json:"id"`
	Project   string                 `json:"project"`
	Version   int                    `json:"version"`
	CreatedAt string                 `json:"created_at"`
	Inputs    json.RawMessage        `json:"inputs"`
	Takeoff   model.TakeoffResult    `json:"takeoff"`
	Labor     *model.LaborPlanResult `json:"labor,omitempty"`
	Estimate  *model.EstimateTotals  `json:"estimate,omitempty"`
}

// HistoryStore keeps revisions as one JSON file each under Dir/<project>/.
type HistoryStore struct {
	Dir string
}

// NewHistoryStore creates a store rooted at dir.
func NewHistoryStore(dir string) *HistoryStore {
	return &HistoryStore{Dir: dir}
}

func (h *HistoryStore) projectDir(project string) (string, error) {
	name := strings.TrimSpace(project)
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid project name %q", project)
	}
	return filepath.Join(h.Dir, name), nil
}

// Append stores a new revision for the project and returns it with its
// ID, version and timestamp filled in.
func (h *HistoryStore) Append(project string, in model.DesignInputs, takeoff model.TakeoffResult,
	labor *model.LaborPlanResult, estimate *model.EstimateTotals) (Revision, error) {
	dir, err := h.projectDir(project)
	if err != nil {
		return Revision{}, err
	}
	existing, err := h.List(project)
	if err != nil {
		return Revision{}, err
	}
	inputs, err := model.EncodeDesignInputs(in)
	if err != nil {
		return Revision{}, fmt.Errorf("encode inputs: %w", err)
	}

	version := 1
	if n := len(existing); n > 0 {
		version = existing[n-1].Version + 1
	}
	rev := Revision{
		ID:        uuid.New().String(),
		Project:   project,
		Version:   version,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Inputs:    inputs,
		Takeoff:   takeoff,
		Labor:     labor,
		Estimate:  estimate,
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return Revision{}, err
	}
	data, err := json.MarshalIndent(rev, "", "  ")
	if err != nil {
		return Revision{}, err
	}
	path := filepath.Join(dir, fmt.Sprintf("v%04d-%s.json", version, rev.ID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return Revision{}, err
	}
	return rev, nil
}

// List returns every revision of a project, oldest first. A project with
// no history returns an empty slice.
func (h *HistoryStore) List(project string) ([]Revision, error) {
	dir, err := h.projectDir(project)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Revision{}, nil
		}
		return nil, err
	}

	revs := []Revision{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		rev, err := readRevision(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		revs = append(revs, rev)
	}
	sort.Slice(revs, func(i, j int) bool { return revs[i].Version < revs[j].Version })
	return revs, nil
}

// Load returns the revision with the given ID.
func (h *HistoryStore) Load(project, id string) (Revision, error) {
	revs, err := h.List(project)
	if err != nil {
		return Revision{}, err
	}
	for _, r := range revs {
		if r.ID == id || (len(id) >= 8 && strings.HasPrefix(r.ID, id)) {
			return r, nil
		}
	}
	return Revision{}, errors.New(errors.ErrCodeNotFound, "revision %s not found in %s", id, project)
}

// Latest returns the newest revision of a project.
func (h *HistoryStore) Latest(project string) (Revision, error) {
	revs, err := h.List(project)
	if err != nil {
		return Revision{}, err
	}
	if len(revs) == 0 {
		return Revision{}, errors.New(errors.ErrCodeNotFound, "project %s has no history", project)
	}
	return revs[len(revs)-1], nil
}

// DesignInputs decodes the inputs stored with the revision.
func (r Revision) DesignInputs() (model.DesignInputs, error) {
	return model.DecodeDesignInputs(r.Inputs)
}

func readRevision(path string) (Revision, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Revision{}, err
	}
	var rev Revision
	if err := json.Unmarshal(data, &rev); err != nil {
		return Revision{}, fmt.Errorf("parse revision %s: %w", filepath.Base(path), err)
	}
	return rev, nil
}
