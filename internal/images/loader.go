package images

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/joseph-ayodele/sourcing-assistant/constants"
	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
)

type DirStats struct {
	Scanned uint32
	Matched uint32
	Loaded  uint32
	Failed  uint32
}

// LoadFile reads one file and sniffs its media type from content, so a
// renamed text file is still rejected as a non-image by the manager.
// A file over maxBytes is not read: only its header is sniffed and the
// returned image carries no data, which the manager rejects on size.
// maxBytes <= 0 uses the default image limit.
func LoadFile(path string, maxBytes int64) (entity.UploadedImage, error) {
	if maxBytes <= 0 {
		maxBytes = constants.MaxImageBytes
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return entity.UploadedImage{}, fmt.Errorf("abs path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return entity.UploadedImage{}, err
	}
	if info.IsDir() {
		return entity.UploadedImage{}, fmt.Errorf("%s is a directory", abs)
	}

	img := entity.UploadedImage{
		Name:      filepath.Base(abs),
		SizeBytes: info.Size(),
		Path:      abs,
	}
	if info.Size() > maxBytes {
		mt, err := mimetype.DetectFile(abs)
		if err != nil {
			return entity.UploadedImage{}, err
		}
		img.MIMEType = mt.String()
		return img, nil
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return entity.UploadedImage{}, err
	}
	img.Data = data
	img.SizeBytes = int64(len(data))
	img.MIMEType = mimetype.Detect(data).String()
	return img, nil
}

// LoadPaths loads files in argument order and stops at the first unreadable one.
func LoadPaths(paths []string, maxBytes int64) ([]entity.UploadedImage, error) {
	out := make([]entity.UploadedImage, 0, len(paths))
	for _, p := range paths {
		img, err := LoadFile(p, maxBytes)
		if err != nil {
			return nil, common.WrapError(err, "load "+p)
		}
		out = append(out, img)
	}
	return out, nil
}

// LoadDirectory walks root and loads every file with an image extension.
// Unreadable entries are counted and skipped.
func LoadDirectory(ctx context.Context, root string, skipHidden bool, maxBytes int64) ([]entity.UploadedImage, DirStats, error) {
	var stats DirStats
	if strings.TrimSpace(root) == "" {
		return nil, stats, errors.New("root path is required")
	}

	var out []entity.UploadedImage
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := constants.AllowedExtensions[constants.NormalizeExt(filepath.Ext(path))]; !ok {
			return nil
		}
		stats.Matched++

		img, err := LoadFile(path, maxBytes)
		if err != nil {
			stats.Failed++
			return nil
		}
		out = append(out, img)
		stats.Loaded++
		return nil
	})
	if err != nil {
		return out, stats, common.WrapError(err, "walk "+root)
	}
	return out, stats, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
