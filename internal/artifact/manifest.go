package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"github.com/KaramelBytes/jknstat/internal/utils"
)

// FileName is the manifest file written into the static directory.
const FileName = "artifacts.json"

// Manifest lists the files produced by the batch commands.
type Manifest struct {
	RunID     string               `json:"run_id"`
	Source    string               `json:"source,omitempty"`
	Artifacts map[string]*Artifact `json:"artifacts"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`

	dir string
}

// New constructs an empty manifest rooted at dir. Call Save to persist.
func New(dir, source string) *Manifest {
	now := time.Now()
	return &Manifest{
		RunID:     uuid.NewString(),
		Source:    source,
		Artifacts: make(map[string]*Artifact),
		CreatedAt: now,
		UpdatedAt: now,
		dir:       dir,
	}
}

// Load reads the manifest in dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Artifacts == nil {
		m.Artifacts = make(map[string]*Artifact)
	}
	m.dir = dir
	return &m, nil
}

// LoadOrNew loads the manifest in dir, starting a new one when none exists.
// A new run ID is assigned either way.
func LoadOrNew(dir, source string) (*Manifest, error) {
	m, err := Load(dir)
	if err != nil {
		if utils.IsNotExist(err) {
			return New(dir, source), nil
		}
		return nil, err
	}
	m.RunID = uuid.NewString()
	if source != "" {
		m.Source = source
	}
	return m, nil
}

// Dir returns the directory the manifest is stored in.
func (m *Manifest) Dir() string { return m.dir }

// Record stats path and adds or replaces its entry.
func (m *Manifest) Record(path, command string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat artifact: %w", err)
	}
	name := filepath.Base(path)
	m.Artifacts[name] = &Artifact{
		Name:      name,
		Path:      path,
		Kind:      KindOf(path),
		Command:   command,
		Size:      info.Size(),
		CreatedAt: info.ModTime(),
	}
	m.UpdatedAt = time.Now()
	log.WithFields(log.Fields{"artifact": name, "run_id": m.RunID}).Debug("artifact recorded")
	return nil
}

// List returns the artifacts sorted by name.
func (m *Manifest) List() []*Artifact {
	names := make([]string, 0, len(m.Artifacts))
	for n := range m.Artifacts {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]*Artifact, 0, len(names))
	for _, n := range names {
		out = append(out, m.Artifacts[n])
	}
	return out
}

// Save writes the manifest using an atomic write.
func (m *Manifest) Save() error {
	if m.dir == "" {
		return errors.New("manifest directory not set")
	}
	m.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(m.dir, FileName), data)
}
