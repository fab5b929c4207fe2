package sequencer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"go-boom/config"
	"go-boom/grid"
)

const (
	saveExt         = ".yaml"
	timestampLayout = "2006-01-02_15-04-05"
)

// SaveInfo represents a saved project file (for listing)
type SaveInfo struct {
	Filename  string
	Name      string // parsed from filename (empty if unnamed)
	Timestamp time.Time
}

// ProjectsDir returns the projects directory path
func ProjectsDir() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "projects"), nil
}

// ProjectDir returns the path to a specific project
func ProjectDir(projectName string) (string, error) {
	base, err := ProjectsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, sanitizeFilename(projectName)), nil
}

// ListProjects returns all project folder names
func ListProjects() ([]string, error) {
	dir, err := ProjectsDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var projects []string
	for _, entry := range entries {
		if entry.IsDir() {
			projects = append(projects, entry.Name())
		}
	}

	sort.Strings(projects)
	return projects, nil
}

// ListSaves returns timestamped saves for a project, newest first
func ListSaves(projectName string) ([]SaveInfo, error) {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveInfo{}, nil
		}
		return nil, err
	}

	var saves []SaveInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), saveExt) {
			continue
		}
		info, ok := parseSaveName(entry.Name())
		if !ok {
			continue
		}
		saves = append(saves, info)
	}

	sort.Slice(saves, func(i, j int) bool {
		if saves[i].Timestamp.Equal(saves[j].Timestamp) {
			return saves[i].Filename > saves[j].Filename
		}
		return saves[i].Timestamp.After(saves[j].Timestamp)
	})

	return saves, nil
}

// parseSaveName splits 2024-01-15_14-30-00.yaml or 2024-01-15_14-30-00_name.yaml
func parseSaveName(filename string) (SaveInfo, bool) {
	base := strings.TrimSuffix(filename, saveExt)
	if len(base) < len(timestampLayout) {
		return SaveInfo{}, false
	}
	ts, err := time.Parse(timestampLayout, base[:len(timestampLayout)])
	if err != nil {
		return SaveInfo{}, false
	}
	name := ""
	if rest := base[len(timestampLayout):]; len(rest) > 1 && rest[0] == '_' {
		name = rest[1:]
	}
	return SaveInfo{Filename: filename, Name: name, Timestamp: ts}, true
}

// WriteState saves st into the project as a new timestamped file and returns
// the file name
func WriteState(st *State, projectName string, now time.Time) (string, error) {
	if projectName == "" {
		projectName = "untitled"
	}

	dir, err := ProjectDir(projectName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating project dir: %w", err)
	}

	data, err := yaml.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("encoding project: %w", err)
	}

	filename := now.Format(timestampLayout) + saveExt
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("writing project: %w", err)
	}
	return filename, nil
}

// ReadState loads a specific save, or the most recent if filename is empty
func ReadState(projectName, filename string) (*State, error) {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return nil, err
	}

	if filename == "" {
		saves, err := ListSaves(projectName)
		if err != nil || len(saves) == 0 {
			return nil, fmt.Errorf("no saves found in project %s", projectName)
		}
		filename = saves[0].Filename
	}

	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return nil, fmt.Errorf("reading project: %w", err)
	}

	st := NewState(nil)
	if err := yaml.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	st.normalize()
	st.ProjectName = projectName
	return st, nil
}

// normalize repairs hand-edited files the same way the generators treat input
func (s *State) normalize() {
	s.Engine = ParseEngine(string(s.Engine))
	s.Bars = grid.ClampBars(s.Bars)
	spb := s.Meter().StepsPerBar()
	s.Drums = repair(s.Drums, grid.KindDrum, spb)
	s.Melodic = repair(s.Melodic, grid.KindMelodic, spb)
}

func repair(p grid.Pattern, kind grid.Kind, spb int) grid.Pattern {
	out := grid.NewPattern(kind, p.Bars, spb)
	if p.StepsPerBar > 0 {
		out.StepsPerBar = p.StepsPerBar
	}
	for _, n := range p.Notes {
		out.Add(n)
	}
	return out
}

// SaveProject saves the manager's state into a project
func (m *Manager) SaveProject(projectName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	filename, err := WriteState(m.state, projectName, time.Now())
	if err != nil {
		return "", err
	}
	if projectName == "" {
		projectName = "untitled"
	}
	m.state.ProjectName = projectName
	return filename, nil
}

// LoadProject replaces the manager's state with a save
func (m *Manager) LoadProject(projectName, filename string) error {
	st, err := ReadState(projectName, filename)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.state = st
	m.mu.Unlock()
	m.notify()
	return nil
}

// CreateProject creates a new empty project folder
func CreateProject(name string) error {
	dir, err := ProjectDir(name)
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// DeleteSave deletes a specific save file
func DeleteSave(projectName, filename string) error {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return err
	}
	return os.Remove(filepath.Join(dir, filepath.Base(filename)))
}

// RenameSave changes the name part of a save, keeping its timestamp
func RenameSave(projectName, oldFilename, newName string) (string, error) {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return "", err
	}
	info, ok := parseSaveName(oldFilename)
	if !ok {
		return "", fmt.Errorf("invalid save filename %q", oldFilename)
	}

	newFilename := info.Timestamp.Format(timestampLayout) + saveExt
	if safe := sanitizeFilename(newName); safe != "" {
		newFilename = info.Timestamp.Format(timestampLayout) + "_" + safe + saveExt
	}

	if err := os.Rename(filepath.Join(dir, oldFilename), filepath.Join(dir, newFilename)); err != nil {
		return "", err
	}
	return newFilename, nil
}

var unsafeChars = strings.NewReplacer(
	" ", "-", "/", "-", "\\", "-", ":", "-",
	"*", "", "?", "", "\"", "", "<", "", ">", "", "|", "", "&", "n",
)

// sanitizeFilename removes/replaces characters that are problematic in filenames
func sanitizeFilename(name string) string {
	return unsafeChars.Replace(strings.TrimSpace(name))
}

// DeleteProject deletes entire project folder
func DeleteProject(name string) error {
	dir, err := ProjectDir(name)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// RenameProject renames a project folder
func RenameProject(oldName, newName string) error {
	oldDir, err := ProjectDir(oldName)
	if err != nil {
		return err
	}
	newDir, err := ProjectDir(newName)
	if err != nil {
		return err
	}
	return os.Rename(oldDir, newDir)
}
