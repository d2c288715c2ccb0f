package integrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Steps reported in Progress.Step.
const (
	StepManifest   = "manifest"
	StepCopy       = "copy"
	StepStore      = "store"
	StepNavigation = "navigation"
	StepDone       = "done"
)

// Progress is one event of an integration run.
type Progress struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Done    bool   `json:"done"`
	Error   string `json:"error,omitempty"`
}

// ErrStoreIndexNotFound means the project has no src/store/index.{ts,js}.
var ErrStoreIndexNotFound = errors.New("integrate: store index not found")

var storeIndexCandidates = []string{"src/store/index.ts", "src/store/index.js"}

// NavigationFile is the navigation config path inside the project.
const NavigationFile = "src/config/navigation.json"

// Integrator runs feature installs.
type Integrator struct {
	log zerolog.Logger
}

// New returns an Integrator logging through log.
func New(log zerolog.Logger) *Integrator {
	return &Integrator{log: log}
}

// Run installs featureDir into projectDir. emit receives every step; the final
// event has Done set, and carries Error when the run failed.
func (in *Integrator) Run(ctx context.Context, featureDir, projectDir string, emit func(Progress)) error {
	if emit == nil {
		emit = func(Progress) {}
	}
	err := in.run(ctx, featureDir, projectDir, emit)
	if err != nil {
		in.log.Error().Err(err).Str("feature", featureDir).Msg("integration failed")
		emit(Progress{Step: StepDone, Message: "integration failed", Done: true, Error: err.Error()})
		return err
	}
	emit(Progress{Step: StepDone, Message: "integration complete", Done: true})
	return nil
}

func (in *Integrator) run(ctx context.Context, featureDir, projectDir string, emit func(Progress)) error {
	m, err := LoadManifest(featureDir)
	if err != nil {
		return err
	}
	emit(Progress{Step: StepManifest, Message: fmt.Sprintf("loaded manifest for %s", m.Name)})

	for _, f := range m.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		src := filepath.Join(featureDir, filepath.FromSlash(f.From))
		dst := filepath.Join(projectDir, filepath.FromSlash(f.To))
		n, err := copyTree(src, dst)
		if err != nil {
			return fmt.Errorf("copy %s: %w", f.From, err)
		}
		emit(Progress{Step: StepCopy, Message: fmt.Sprintf("copied %d file(s) from %s to %s", n, f.From, f.To)})
	}

	if m.Store != nil {
		changed, err := PatchStoreIndex(projectDir, *m.Store)
		if err != nil {
			return err
		}
		emit(Progress{Step: StepStore, Message: changeMessage(changed, "registered reducer "+m.Store.ReducerKey, "reducer "+m.Store.ReducerKey+" already registered")})
	}

	if m.Navigation != nil {
		changed, err := PatchNavigation(projectDir, *m.Navigation)
		if err != nil {
			return err
		}
		emit(Progress{Step: StepNavigation, Message: changeMessage(changed, "added navigation entry "+m.Navigation.Path, "navigation entry "+m.Navigation.Path+" already present")})
	}

	in.log.Info().Str("feature", m.Name).Str("project", projectDir).Msg("feature integrated")
	return nil
}

func changeMessage(changed bool, yes, no string) string {
	if changed {
		return yes
	}
	return no
}

// copyTree copies a file or directory tree, overwriting existing files.
func copyTree(src, dst string) (int, error) {
	st, err := os.Stat(src)
	if err != nil {
		return 0, err
	}
	if !st.IsDir() {
		return 1, copyFile(src, dst, st.Mode().Perm())
	}

	n := 0
	err = filepath.WalkDir(src, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		n++
		return copyFile(p, target, info.Mode().Perm())
	})
	return n, err
}

func copyFile(src, dst string, perm fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

var (
	importLineRe = regexp.MustCompile(`(?m)^import .*$`)
	reducerMapRe = regexp.MustCompile(`(reducer\s*:\s*\{|combineReducers\(\s*\{)[ \t]*\n?`)
)

func findStoreIndex(projectDir string) (string, error) {
	for _, c := range storeIndexCandidates {
		p := filepath.Join(projectDir, filepath.FromSlash(c))
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ErrStoreIndexNotFound
}

// PatchStoreIndex adds the import and reducer entry to the store index.
// It reports whether the file changed.
func PatchStoreIndex(projectDir string, s StoreEntry) (bool, error) {
	p, err := findStoreIndex(projectDir)
	if err != nil {
		return false, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return false, err
	}
	src := string(b)
	out := src

	importLine := strings.TrimSpace(s.Import)
	if !strings.Contains(out, importLine) {
		if locs := importLineRe.FindAllStringIndex(out, -1); len(locs) > 0 {
			end := locs[len(locs)-1][1]
			out = out[:end] + "\n" + importLine + out[end:]
		} else {
			out = importLine + "\n" + out
		}
	}

	entryRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(s.ReducerKey) + `\s*:`)
	if !entryRe.MatchString(out) {
		loc := reducerMapRe.FindStringIndex(out)
		if loc == nil {
			return false, fmt.Errorf("integrate: no reducer map in %s", filepath.Base(p))
		}
		entry := fmt.Sprintf("    %s: %s,\n", s.ReducerKey, s.ReducerName)
		head := out[:loc[1]]
		if !strings.HasSuffix(head, "\n") {
			head += "\n"
		}
		out = head + entry + out[loc[1]:]
	}

	if out == src {
		return false, nil
	}
	return true, os.WriteFile(p, []byte(out), 0o644)
}

// PatchNavigation appends entry to navigation.json unless its path is already
// present. A missing file is created.
func PatchNavigation(projectDir string, entry NavEntry) (bool, error) {
	p := filepath.Join(projectDir, filepath.FromSlash(NavigationFile))

	var items []map[string]any
	b, err := os.ReadFile(p)
	switch {
	case err == nil:
		if len(strings.TrimSpace(string(b))) > 0 {
			if err := json.Unmarshal(b, &items); err != nil {
				return false, fmt.Errorf("integrate: parse %s: %w", NavigationFile, err)
			}
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return false, err
	}

	for _, it := range items {
		if path, _ := it["path"].(string); path == entry.Path {
			return false, nil
		}
	}

	item := map[string]any{"title": entry.Title, "path": entry.Path}
	if entry.Icon != "" {
		item["icon"] = entry.Icon
	}
	items = append(items, item)

	out, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return false, err
	}
	return true, os.WriteFile(p, append(out, '\n'), 0o644)
}
