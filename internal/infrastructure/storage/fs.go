package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
)

// FS persists levels as pretty-printed JSON files, bucketed by board
// size so batch runs stay browsable.
type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

func sizeDir(w, h int) string { return fmt.Sprintf("%dx%d", w, h) }

func (s *FS) pathFor(l *domain.Level) string {
	return filepath.Join(s.dir, sizeDir(l.W, l.H), strings.TrimSpace(l.ID)+".json")
}

func (s *FS) Save(ctx context.Context, l *domain.Level) error {
	if l == nil || l.ID == "" {
		return errors.New("invalid level: missing ID")
	}
	target := s.pathFor(l)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}

func (s *FS) Load(ctx context.Context, id string) (*domain.Level, error) {
	id = strings.TrimSpace(id)
	var data []byte
	// Size buckets first, then the legacy flat layout.
	ents, _ := os.ReadDir(s.dir)
	for _, e := range ents {
		var p string
		if e.IsDir() {
			p = filepath.Join(s.dir, e.Name(), id+".json")
		} else {
			continue
		}
		if _, statErr := os.Stat(p); statErr == nil {
			b, err := os.ReadFile(p)
			if err != nil {
				return nil, err
			}
			data = b
			break
		}
	}
	if data == nil {
		if b, err := os.ReadFile(filepath.Join(s.dir, id+".json")); err == nil {
			data = b
		}
	}
	if data == nil {
		return nil, os.ErrNotExist
	}
	var out domain.Level
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *FS) List(ctx context.Context) ([]domain.LevelMeta, error) {
	var out []domain.LevelMeta
	walk := func(dir string) error {
		ents, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		for _, e := range ents {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				continue
			}
			var l struct {
				ID        string `json:"id"`
				W         int    `json:"w"`
				H         int    `json:"h"`
				CreatedAt int64  `json:"createdAt"`
				Meta      struct {
					Telemetry struct {
						Solvable bool `json:"solvable"`
					} `json:"telemetry"`
				} `json:"meta"`
			}
			if err := json.Unmarshal(data, &l); err != nil || l.ID == "" {
				continue
			}
			out = append(out, domain.LevelMeta{
				ID:        l.ID,
				W:         l.W,
				H:         l.H,
				Solvable:  l.Meta.Telemetry.Solvable,
				CreatedAt: l.CreatedAt,
			})
		}
		return nil
	}

	ents, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	for _, e := range ents {
		if e.IsDir() {
			if err := walk(filepath.Join(s.dir, e.Name())); err != nil {
				return nil, err
			}
		}
	}
	if err := walk(s.dir); err != nil {
		return nil, err
	}
	return out, nil
}
